// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

import "encoding/binary"

// Wire encoders, the inverse of the readers. Appending keeps the same
// packed little-endian layout the decoders consume.

func (h MarketDataPacketHeader) AppendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, h.MsgSeqNum)
	b = binary.LittleEndian.AppendUint16(b, h.MsgSize)
	b = binary.LittleEndian.AppendUint16(b, h.MsgFlags)
	b = binary.LittleEndian.AppendUint64(b, h.SendingTime)
	return b
}

func (h IncrementalPacketHeader) AppendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, h.TransactTime)
	b = binary.LittleEndian.AppendUint32(b, h.ExchangeTradingSessionID)
	return b
}

func (h SBEHeader) AppendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, h.BlockLength)
	b = binary.LittleEndian.AppendUint16(b, uint16(h.TemplateID))
	b = binary.LittleEndian.AppendUint16(b, h.SchemaID)
	b = binary.LittleEndian.AppendUint16(b, h.Version)
	return b
}

func (u *OrderUpdate) AppendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(u.MDEntryID))
	b = binary.LittleEndian.AppendUint64(b, uint64(u.MDEntryPx.Mantissa))
	b = binary.LittleEndian.AppendUint64(b, uint64(u.MDEntrySize))
	b = binary.LittleEndian.AppendUint64(b, u.MDFlags)
	b = binary.LittleEndian.AppendUint64(b, u.MDFlags2)
	b = binary.LittleEndian.AppendUint32(b, uint32(u.SecurityID))
	b = binary.LittleEndian.AppendUint32(b, u.RptSeq)
	b = append(b, byte(u.UpdateAction), byte(u.EntryType))
	return b
}

func (e *OrderExecution) AppendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(e.MDEntryID))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.MDEntryPx.Mantissa))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.MDEntrySize))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.LastPx.Mantissa))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.LastQty))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.TradeID))
	b = binary.LittleEndian.AppendUint64(b, e.MDFlags)
	b = binary.LittleEndian.AppendUint64(b, e.MDFlags2)
	b = binary.LittleEndian.AppendUint32(b, uint32(e.SecurityID))
	b = binary.LittleEndian.AppendUint32(b, e.RptSeq)
	b = append(b, byte(e.UpdateAction), byte(e.EntryType))
	return b
}

func (e *OrderBookEntry) AppendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(e.MDEntryID))
	b = binary.LittleEndian.AppendUint64(b, e.TransactTime)
	b = binary.LittleEndian.AppendUint64(b, uint64(e.MDEntryPx.Mantissa))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.MDEntrySize))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.TradeID))
	b = binary.LittleEndian.AppendUint64(b, e.MDFlags)
	b = binary.LittleEndian.AppendUint64(b, e.MDFlags2)
	b = append(b, byte(e.EntryType))
	return b
}

// AppendTo encodes the snapshot as one complete SBE message section:
// header, prelude, group marker, then the entries at the minimum
// stride.
func (s *OrderBookSnapshot) AppendTo(b []byte) []byte {
	hdr := SBEHeader{
		BlockLength: snapshotHeaderSize - 3,
		TemplateID:  TemplateOrderBookSnapshot,
		SchemaID:    simbaSchemaID,
		Version:     simbaSchemaVersion,
	}
	b = hdr.AppendTo(b)
	b = binary.LittleEndian.AppendUint32(b, uint32(s.SecurityID))
	b = binary.LittleEndian.AppendUint32(b, s.LastMsgSeqNumProcessed)
	b = binary.LittleEndian.AppendUint32(b, s.RptSeq)
	b = binary.LittleEndian.AppendUint32(b, s.ExchangeTradingSessionID)
	b = binary.LittleEndian.AppendUint16(b, minSnapshotEntrySize)
	b = append(b, byte(len(s.Entries)))
	for i := range s.Entries {
		b = s.Entries[i].AppendTo(b)
	}
	return b
}

const (
	simbaSchemaID      = 19780
	simbaSchemaVersion = 4
)
