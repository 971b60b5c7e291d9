// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

import "github.com/sirupsen/logrus"

// Minimum body sizes of the packed layouts. Pinned as literals: the
// wire contract does not depend on any in-memory representation.
const (
	orderUpdateSize      = 50
	orderExecutionSize   = 74
	snapshotHeaderSize   = 19 // prelude (16) + group marker (3)
	minSnapshotEntrySize = 57
)

// decodeIncremental walks the SBE blocks of a reassembled incremental
// message. Every decodable block is consumed for the counters; the
// public result is the first order update, or the first order execution
// when no update is present.
func (d *Decoder) decodeIncremental(data []byte) DecodedMessage {
	var firstUpdate *OrderUpdate
	var firstExecution *OrderExecution

	off := 0
	for len(data)-off >= SBEHeaderSize {
		sbe, next, _ := DecodeSBEHeader(data, off)
		if len(data)-next < int(sbe.BlockLength) {
			d.dropDatagram(TruncatedBodyError{
				Template:  sbe.TemplateID,
				Required:  int(sbe.BlockLength),
				Available: len(data) - next,
			})
			return result(firstUpdate, firstExecution)
		}
		block := data[next : next+int(sbe.BlockLength)]

		switch sbe.TemplateID {
		case TemplateOrderUpdate:
			u, err := decodeOrderUpdate(block)
			if err != nil {
				d.dropDatagram(err)
				return result(firstUpdate, firstExecution)
			}
			d.stats.IncrementalBlocksDecoded++
			if firstUpdate == nil {
				firstUpdate = u
			}
		case TemplateOrderExecution:
			e, err := decodeOrderExecution(block)
			if err != nil {
				d.dropDatagram(err)
				return result(firstUpdate, firstExecution)
			}
			d.stats.IncrementalBlocksDecoded++
			if firstExecution == nil {
				firstExecution = e
			}
		default:
			d.stats.IgnoredTemplates++
		}
		off = next + int(sbe.BlockLength)
	}

	if off < len(data) {
		logrus.Warnf("incremental message: %d trailing bytes left undecoded", len(data)-off)
	}
	return result(firstUpdate, firstExecution)
}

func result(u *OrderUpdate, e *OrderExecution) DecodedMessage {
	if u != nil {
		return u
	}
	if e != nil {
		return e
	}
	return nil
}

func decodeOrderUpdate(data []byte) (*OrderUpdate, error) {
	if len(data) < orderUpdateSize {
		return nil, TruncatedBodyError{Template: TemplateOrderUpdate, Required: orderUpdateSize, Available: len(data)}
	}
	return &OrderUpdate{
		MDEntryID:    getInt64(data, 0),
		MDEntryPx:    getDecimal5(data, 8),
		MDEntrySize:  getInt64(data, 16),
		MDFlags:      getUint64(data, 24),
		MDFlags2:     getUint64(data, 32),
		SecurityID:   getInt32(data, 40),
		RptSeq:       getUint32(data, 44),
		UpdateAction: UpdateAction(data[48]),
		EntryType:    EntryType(data[49]),
	}, nil
}

func decodeOrderExecution(data []byte) (*OrderExecution, error) {
	if len(data) < orderExecutionSize {
		return nil, TruncatedBodyError{Template: TemplateOrderExecution, Required: orderExecutionSize, Available: len(data)}
	}
	return &OrderExecution{
		MDEntryID:    getInt64(data, 0),
		MDEntryPx:    getDecimal5(data, 8),
		MDEntrySize:  getInt64(data, 16),
		LastPx:       getDecimal5(data, 24),
		LastQty:      getInt64(data, 32),
		TradeID:      getInt64(data, 40),
		MDFlags:      getUint64(data, 48),
		MDFlags2:     getUint64(data, 56),
		SecurityID:   getInt32(data, 64),
		RptSeq:       getUint32(data, 68),
		UpdateAction: UpdateAction(data[72]),
		EntryType:    EntryType(data[73]),
	}, nil
}

// decodeSnapshot decodes a reassembled snapshot buffer. Every datagram
// of a snapshot sequence carries its own SBE header and message prelude,
// so the buffer holds one snapshot section per datagram; the sections of
// one sequence describe the same instrument and their entries are
// collected into a single snapshot. The per-entry stride is the group
// block length, which lets a newer schema append trailing entry fields.
func (d *Decoder) decodeSnapshot(data []byte) DecodedMessage {
	var snapshot *OrderBookSnapshot

	off := 0
	for len(data)-off >= SBEHeaderSize+snapshotHeaderSize {
		sbe, next, _ := DecodeSBEHeader(data, off)
		off = next

		section := OrderBookSnapshot{
			SecurityID:               getInt32(data, off),
			LastMsgSeqNumProcessed:   getUint32(data, off+4),
			RptSeq:                   getUint32(data, off+8),
			ExchangeTradingSessionID: getUint32(data, off+12),
		}
		blockLength := getUint16(data, off+16)
		noMDEntries := int(data[off+18])
		off += snapshotHeaderSize

		if sbe.TemplateID != TemplateOrderBookSnapshot {
			logrus.Warnf("snapshot buffer: unexpected %s section, decode halted", sbe.TemplateID)
			break
		}
		badStride := int(blockLength) < minSnapshotEntrySize
		if badStride {
			d.dropDatagram(InvalidBlockLengthError{BlockLength: blockLength, Min: minSnapshotEntrySize})
		}

		truncated := false
		for i := 0; !badStride && i < noMDEntries; i++ {
			if len(data)-off < int(blockLength) {
				logrus.Warnf("snapshot for security %d: %d of %d entries decoded, remainder truncated",
					section.SecurityID, i, noMDEntries)
				truncated = true
				break
			}
			section.Entries = append(section.Entries, decodeOrderBookEntry(data[off:]))
			off += int(blockLength)
		}

		if snapshot == nil {
			snapshot = &section
		} else {
			snapshot.Entries = append(snapshot.Entries, section.Entries...)
		}
		if badStride || truncated {
			break
		}
	}
	if snapshot == nil {
		return nil
	}
	return snapshot
}

func decodeOrderBookEntry(data []byte) OrderBookEntry {
	return OrderBookEntry{
		MDEntryID:    getInt64(data, 0),
		TransactTime: getUint64(data, 8),
		MDEntryPx:    getDecimal5(data, 16),
		MDEntrySize:  getInt64(data, 24),
		TradeID:      getInt64(data, 32),
		MDFlags:      getUint64(data, 40),
		MDFlags2:     getUint64(data, 48),
		EntryType:    EntryType(data[56]),
	}
}
