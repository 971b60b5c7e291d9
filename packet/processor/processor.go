// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package processor walks a capture, demultiplexes Ethernet/IPv4/UDP,
// and feeds SIMBA payloads to one decoder in capture order.
package processor

import (
	"io"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/sirupsen/logrus"

	"github.com/ikravets/simba/packet"
	"github.com/ikravets/simba/packet/moex"
	"github.com/ikravets/simba/simba"
)

// Canonical SIMBA SPECTRA channel coordinates.
const DefaultPort = 44040

var DefaultGroup = net.IPv4(239, 195, 20, 82)

type Processor struct {
	obtainer       packet.Obtainer
	handler        packet.Handler
	decoder        *simba.Decoder
	packetNumLimit int
	port           uint16
	group          net.IP
}

func NewProcessor() *Processor {
	return &Processor{
		handler: &packet.NopHandler{},
		decoder: simba.NewDecoder(),
		port:    DefaultPort,
		group:   DefaultGroup,
	}
}

func (p *Processor) SetObtainer(o packet.Obtainer) {
	p.obtainer = o
}
func (p *Processor) SetHandler(handler packet.Handler) {
	p.handler = handler
}
func (p *Processor) LimitPacketNumber(limit int) {
	p.packetNumLimit = limit
}

// SetFilter restricts decoding to datagrams for the given destination
// port and multicast group. A zero port or nil group disables that
// check.
func (p *Processor) SetFilter(port uint16, group net.IP) {
	p.port = port
	p.group = group
}

func (p *Processor) Decoder() *simba.Decoder {
	return p.decoder
}

var _ packet.Processor = &Processor{}

// ProcessAll drains the obtainer, or stops once the packet limit is
// reached. Malformed datagrams are dropped by the decoder; only the
// capture source can fail the run.
func (p *Processor) ProcessAll() error {
	source := gopacket.NewPacketSource(p.obtainer, p.obtainer.LinkType())
	source.NoCopy = true
	packetNum := 0
	for {
		pkt, err := source.NextPacket()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		payload := p.simbaPayload(pkt)
		if payload != nil {
			p.decodeAppLayer(pkt)
		}
		p.handler.HandlePacket(packet.NewFromGoPacket(pkt))
		packetNum++

		if payload != nil {
			if msg := p.decoder.Decode(payload); msg != nil {
				m := applicationMessage{
					message:   msg,
					seqNum:    sequenceNumber(pkt),
					timestamp: pkt.Metadata().Timestamp,
				}
				p.handler.HandleMessage(&m)
			}
		}
		if packetNum == p.packetNumLimit {
			break
		}
	}
	return nil
}

// simbaPayload returns the UDP payload when the packet matches the
// configured channel, nil otherwise.
func (p *Processor) simbaPayload(pkt gopacket.Packet) []byte {
	udp, ok := pkt.TransportLayer().(*layers.UDP)
	if !ok {
		return nil
	}
	if p.port != 0 && uint16(udp.DstPort) != p.port {
		return nil
	}
	if p.group != nil {
		ip, ok := pkt.NetworkLayer().(*layers.IPv4)
		if !ok || !ip.DstIP.Equal(p.group) {
			return nil
		}
	}
	appLayer := pkt.ApplicationLayer()
	if appLayer == nil {
		return nil
	}
	return appLayer.LayerContents()
}

// decodeAppLayer attaches the Simba framing layer so packet printing
// shows the transport headers. Framing errors only matter to the
// decoder, which reports them itself.
func (p *Processor) decodeAppLayer(pkt gopacket.Packet) {
	builder, ok := pkt.(gopacket.PacketBuilder)
	if !ok {
		return
	}
	appLayer := pkt.ApplicationLayer()
	if appLayer == nil || appLayer.LayerType() != gopacket.LayerTypePayload {
		return
	}
	var simbaDecoder gopacket.Decoder = moex.LayerTypeSimba
	if err := simbaDecoder.Decode(appLayer.LayerContents(), builder); err != nil {
		logrus.Debugf("simba framing: %s", err)
	}
}

func sequenceNumber(pkt gopacket.Packet) uint64 {
	if l := pkt.Layer(moex.LayerTypeSimba); l != nil {
		return uint64(l.(*moex.Simba).Header.MsgSeqNum)
	}
	return 0
}

type applicationMessage struct {
	message   simba.DecodedMessage
	seqNum    uint64
	timestamp time.Time
}

var _ packet.ApplicationMessage = &applicationMessage{}

func (m *applicationMessage) SecurityID() int32 {
	return simba.MessageSecurityID(m.message)
}
func (m *applicationMessage) SequenceNumber() uint64 {
	return m.seqNum
}
func (m *applicationMessage) Timestamp() time.Time {
	return m.timestamp
}
func (m *applicationMessage) Message() simba.DecodedMessage {
	return m.message
}
