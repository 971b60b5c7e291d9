// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package moex registers the SIMBA SPECTRA transport framing as a
// gopacket layer so captured packets print and dissect like any other
// protocol stack.
package moex

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/ikravets/simba/simba"
)

var LayerTypeSimba = gopacket.RegisterLayerType(11000, gopacket.LayerTypeMetadata{
	Name:    "MoexSimba",
	Decoder: gopacket.DecodeFunc(decodeSimba),
})

// Simba is the market data packet framing of one datagram: the packet
// header, the incremental packet header when flagged, and the first SBE
// header of the payload. The layer payload starts at the SBE header;
// reassembly and body decoding belong to the simba package.
type Simba struct {
	layers.BaseLayer
	Header         simba.MarketDataPacketHeader
	Incremental    simba.IncrementalPacketHeader
	HasIncremental bool
	SBE            simba.SBEHeader
}

var (
	_ gopacket.Layer         = &Simba{}
	_ gopacket.DecodingLayer = &Simba{}
)

func (m *Simba) LayerType() gopacket.LayerType {
	return LayerTypeSimba
}

func (m *Simba) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	hdr, off, err := simba.DecodeMarketDataPacketHeader(data, 0)
	if err != nil {
		return err
	}
	*m = Simba{Header: hdr}
	if hdr.IncrementalPacket() {
		m.Incremental, off, err = simba.DecodeIncrementalPacketHeader(data, off)
		if err != nil {
			return err
		}
		m.HasIncremental = true
	}
	m.SBE, _, err = simba.DecodeSBEHeader(data, off)
	if err != nil {
		return err
	}
	m.BaseLayer = layers.BaseLayer{Contents: data[:off], Payload: data[off:]}
	return nil
}

func (m *Simba) CanDecode() gopacket.LayerClass {
	return LayerTypeSimba
}

func (m *Simba) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func (m *Simba) String() string {
	s := fmt.Sprintf("Simba seq %d flags %#04x template %s", m.Header.MsgSeqNum, m.Header.MsgFlags, m.SBE.TemplateID)
	if m.HasIncremental {
		s += fmt.Sprintf(" transact %d", m.Incremental.TransactTime)
	}
	return s
}

func decodeSimba(data []byte, p gopacket.PacketBuilder) error {
	m := &Simba{}
	if err := m.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(m)
	return p.NextDecoder(m.NextLayerType())
}

func (m *Simba) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	size := simba.MarketDataPacketHeaderSize
	if m.HasIncremental {
		size += simba.IncrementalPacketHeaderSize
	}
	bytes, err := b.PrependBytes(size)
	if err != nil {
		return err
	}
	wire := m.Header.AppendTo(bytes[:0])
	if m.HasIncremental {
		wire = m.Incremental.AppendTo(wire)
	}
	copy(bytes, wire)
	return nil
}
