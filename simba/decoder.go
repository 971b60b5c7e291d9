// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// Fragment buffers grow to the largest message seen per instrument and
// are cleared, not deallocated, on completion.
const (
	incrementalBufferSize = 64 << 10
	snapshotBufferSize    = 1 << 20
)

// Decoder reassembles logically fragmented SIMBA SPECTRA messages and
// decodes them. One decoder per input stream; instances are not safe
// for concurrent use.
type Decoder struct {
	orderUpdateFragments    map[int32]*bytes.Buffer
	orderExecutionFragments map[int32]*bytes.Buffer
	snapshotFragments       map[int32]*bytes.Buffer

	lastSnapshotSecurityID int32
	haveLastSnapshot       bool

	stats Statistics
}

func NewDecoder() *Decoder {
	return &Decoder{
		orderUpdateFragments:    make(map[int32]*bytes.Buffer),
		orderExecutionFragments: make(map[int32]*bytes.Buffer),
		snapshotFragments:       make(map[int32]*bytes.Buffer),
	}
}

// Decode consumes the UDP payload of one datagram, in capture order.
// It returns a fully decoded message or nil when the datagram carries a
// non-target template, a fragment of a message still in flight, or
// malformed bytes. Decode errors never abort the stream.
func (d *Decoder) Decode(payload []byte) DecodedMessage {
	d.stats.PacketsSeen++

	hdr, off, err := DecodeMarketDataPacketHeader(payload, 0)
	if err != nil {
		d.dropDatagram(err)
		return nil
	}

	if hdr.IncrementalPacket() {
		var inc IncrementalPacketHeader
		inc, off, err = DecodeIncrementalPacketHeader(payload, off)
		if err != nil {
			d.dropDatagram(err)
			return nil
		}
		logrus.WithFields(logrus.Fields{
			"seqNum":       hdr.MsgSeqNum,
			"transactTime": inc.TransactTime,
			"session":      inc.ExchangeTradingSessionID,
		}).Debug("incremental packet")
	}

	sbeStart := off
	sbe, off, err := DecodeSBEHeader(payload, off)
	if err != nil {
		d.dropDatagram(err)
		return nil
	}

	switch sbe.TemplateID {
	case TemplateOrderUpdate, TemplateOrderExecution, TemplateOrderBookSnapshot:
	default:
		d.stats.IgnoredTemplates++
		return nil
	}

	// The instrument of the first body doubles as the reassembly key. It
	// leads the snapshot body and sits after the fixed fields of the
	// incremental bodies. It is peeked here, not consumed: the bytes
	// handed to reassembly start at the SBE header so the body decoders
	// can re-parse it.
	keyOff := 0
	switch sbe.TemplateID {
	case TemplateOrderUpdate:
		keyOff = 40
	case TemplateOrderExecution:
		keyOff = 64
	}
	if len(payload)-off < keyOff+4 {
		d.dropDatagram(TruncatedBodyError{Template: sbe.TemplateID, Required: keyOff + 4, Available: len(payload) - off})
		return nil
	}
	securityID := getInt32(payload, off+keyOff)

	if sbe.TemplateID == TemplateOrderBookSnapshot {
		return d.reassembleSnapshot(payload[sbeStart:], hdr, securityID)
	}
	return d.reassembleIncremental(payload[sbeStart:], hdr, sbe.TemplateID, securityID)
}

// Statistics returns a copy of the observability counters. All counters
// are non-decreasing.
func (d *Decoder) Statistics() Statistics {
	return d.stats
}

func (d *Decoder) reassembleIncremental(data []byte, hdr MarketDataPacketHeader, template TemplateID, securityID int32) DecodedMessage {
	frags := d.orderUpdateFragments
	if template == TemplateOrderExecution {
		frags = d.orderExecutionFragments
	}

	if !hdr.LastFragment() {
		fragmentBuffer(frags, securityID, incrementalBufferSize).Write(data)
		return nil
	}

	if buf, ok := frags[securityID]; ok && buf.Len() > 0 {
		buf.Write(data)
		msg := d.decodeIncremental(buf.Bytes())
		buf.Reset()
		return msg
	}
	return d.decodeIncremental(data)
}

func (d *Decoder) reassembleSnapshot(data []byte, hdr MarketDataPacketHeader, securityID int32) DecodedMessage {
	if d.haveLastSnapshot && d.lastSnapshotSecurityID != securityID {
		d.stats.MixedSnapshotsDetected++
	}
	d.haveLastSnapshot = true
	d.lastSnapshotSecurityID = securityID

	buf := fragmentBuffer(d.snapshotFragments, securityID, snapshotBufferSize)
	if hdr.StartOfSnapshot() {
		// Any bytes left over from an interrupted sequence are stale.
		buf.Reset()
	}
	buf.Write(data)

	if !hdr.EndOfSnapshot() {
		return nil
	}
	msg := d.decodeSnapshot(buf.Bytes())
	buf.Reset()
	if msg != nil {
		d.stats.TotalSnapshotsProcessed++
	}
	return msg
}

func fragmentBuffer(frags map[int32]*bytes.Buffer, securityID int32, capacity int) *bytes.Buffer {
	buf, ok := frags[securityID]
	if !ok {
		buf = bytes.NewBuffer(make([]byte, 0, capacity))
		frags[securityID] = buf
	}
	return buf
}

func (d *Decoder) dropDatagram(err error) {
	d.stats.DecodeErrors++
	logrus.Warnf("cannot decode datagram: %s", err)
}
