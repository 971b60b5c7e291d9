// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture builders. Datagrams are assembled the way the exchange frames
// them: market data packet header, incremental packet header when
// flagged, then whole SBE blocks (incremental) or whole snapshot
// message sections.

func incrementalDatagram(flags uint16, blocks ...[]byte) []byte {
	b := MarketDataPacketHeader{MsgSeqNum: 7, MsgFlags: flags, SendingTime: 1700000000000000000}.AppendTo(nil)
	if flags&MsgFlagIncrementalPacket != 0 {
		b = IncrementalPacketHeader{TransactTime: 1700000000000000001, ExchangeTradingSessionID: 6902}.AppendTo(b)
	}
	for _, blk := range blocks {
		b = append(b, blk...)
	}
	return b
}

func snapshotDatagram(flags uint16, sections ...[]byte) []byte {
	b := MarketDataPacketHeader{MsgSeqNum: 9, MsgFlags: flags, SendingTime: 1700000000000000000}.AppendTo(nil)
	for _, s := range sections {
		b = append(b, s...)
	}
	return b
}

func updateBlock(u *OrderUpdate) []byte {
	b := SBEHeader{BlockLength: orderUpdateSize, TemplateID: TemplateOrderUpdate, SchemaID: simbaSchemaID, Version: simbaSchemaVersion}.AppendTo(nil)
	return u.AppendTo(b)
}

func executionBlock(e *OrderExecution) []byte {
	b := SBEHeader{BlockLength: orderExecutionSize, TemplateID: TemplateOrderExecution, SchemaID: simbaSchemaID, Version: simbaSchemaVersion}.AppendTo(nil)
	return e.AppendTo(b)
}

func sampleUpdate(securityID int32) *OrderUpdate {
	return &OrderUpdate{
		MDEntryID:    1001,
		MDEntryPx:    Decimal5{Mantissa: 251250},
		MDEntrySize:  10,
		MDFlags:      0x2001,
		SecurityID:   securityID,
		RptSeq:       41,
		UpdateAction: UpdateActionNew,
		EntryType:    EntryTypeBid,
	}
}

func sampleExecution(securityID int32) *OrderExecution {
	return &OrderExecution{
		MDEntryID:    1002,
		MDEntryPx:    Decimal5{Mantissa: 251300},
		MDEntrySize:  5,
		LastPx:       Decimal5{Mantissa: 251300},
		LastQty:      5,
		TradeID:      900001,
		MDFlags:      0x4001,
		SecurityID:   securityID,
		RptSeq:       42,
		UpdateAction: UpdateActionDelete,
		EntryType:    EntryTypeOffer,
	}
}

func sampleEntry(id int64) OrderBookEntry {
	return OrderBookEntry{
		MDEntryID:    id,
		TransactTime: 1700000000000000000,
		MDEntryPx:    Decimal5{Mantissa: 100000 + id},
		MDEntrySize:  7,
		TradeID:      0,
		MDFlags:      0x1,
		EntryType:    EntryTypeBid,
	}
}

func sampleSection(securityID int32, entries ...OrderBookEntry) []byte {
	s := &OrderBookSnapshot{
		SecurityID:               securityID,
		LastMsgSeqNumProcessed:   500,
		RptSeq:                   12,
		ExchangeTradingSessionID: 6902,
		Entries:                  entries,
	}
	return s.AppendTo(nil)
}

// A hand-assembled incremental packet with a single OrderUpdate block,
// every field pinned byte by byte.
const singleUpdateHex = "" +
	"01000000" + "5600" + "0900" + "0000000000000000" + // market data packet header
	"0000000000000000" + "00000000" + // incremental packet header
	"3200" + "0f00" + "444d" + "0400" + // SBE header: blockLength=50, templateId=15
	"0100000000000000" + // MDEntryID = 1
	"3075000000000000" + // MDEntryPx mantissa = 30000
	"6400000000000000" + // MDEntrySize = 100
	"0000000000000000" + "0000000000000000" + // MDFlags, MDFlags2
	"7b000000" + // SecurityID = 123
	"05000000" + // RptSeq = 5
	"00" + "30" // UpdateAction=New, EntryType=Bid

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return data
}

func TestDecodeSingleDatagramOrderUpdate(t *testing.T) {
	d := NewDecoder()
	msg := d.Decode(mustHex(t, singleUpdateHex))
	require.NotNil(t, msg)

	u, ok := msg.(*OrderUpdate)
	require.True(t, ok)
	assert.Equal(t, int64(1), u.MDEntryID)
	assert.Equal(t, 0.3, u.MDEntryPx.Float64())
	assert.Equal(t, int64(100), u.MDEntrySize)
	assert.Equal(t, int32(123), u.SecurityID)
	assert.Equal(t, uint32(5), u.RptSeq)
	assert.Equal(t, UpdateActionNew, u.UpdateAction)
	assert.Equal(t, EntryTypeBid, u.EntryType)
}

func TestDecodeNonTargetTemplate(t *testing.T) {
	d := NewDecoder()
	block := SBEHeader{BlockLength: 20, TemplateID: 14, SchemaID: simbaSchemaID, Version: simbaSchemaVersion}.AppendTo(nil)
	block = append(block, make([]byte, 20)...)

	msg := d.Decode(incrementalDatagram(0x09, block))
	assert.Nil(t, msg)
	assert.Empty(t, d.orderUpdateFragments)
	assert.Empty(t, d.orderExecutionFragments)
	assert.Empty(t, d.snapshotFragments)
	assert.Equal(t, uint64(1), d.Statistics().IgnoredTemplates)
}

func TestDecodeSnapshotAcrossThreeDatagrams(t *testing.T) {
	d := NewDecoder()

	require.Nil(t, d.Decode(snapshotDatagram(0x02, sampleSection(42, sampleEntry(1)))))
	require.Nil(t, d.Decode(snapshotDatagram(0x00, sampleSection(42))))
	msg := d.Decode(snapshotDatagram(0x04, sampleSection(42, sampleEntry(2))))
	require.NotNil(t, msg)

	s, ok := msg.(*OrderBookSnapshot)
	require.True(t, ok)
	assert.Equal(t, int32(42), s.SecurityID)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, int64(1), s.Entries[0].MDEntryID)
	assert.Equal(t, int64(2), s.Entries[1].MDEntryID)
	assert.Equal(t, uint64(1), d.Statistics().TotalSnapshotsProcessed)
}

func TestDecodeMixedSnapshotStreams(t *testing.T) {
	d := NewDecoder()

	require.Nil(t, d.Decode(snapshotDatagram(0x02, sampleSection(1, sampleEntry(11)))))
	require.Nil(t, d.Decode(snapshotDatagram(0x02, sampleSection(2, sampleEntry(21)))))

	first := d.Decode(snapshotDatagram(0x04, sampleSection(1, sampleEntry(12))))
	require.NotNil(t, first)
	assert.Equal(t, int32(1), first.(*OrderBookSnapshot).SecurityID)
	assert.Len(t, first.(*OrderBookSnapshot).Entries, 2)

	second := d.Decode(snapshotDatagram(0x04, sampleSection(2, sampleEntry(22))))
	require.NotNil(t, second)
	assert.Equal(t, int32(2), second.(*OrderBookSnapshot).SecurityID)
	assert.Len(t, second.(*OrderBookSnapshot).Entries, 2)

	assert.Equal(t, uint64(2), d.Statistics().TotalSnapshotsProcessed)
	assert.GreaterOrEqual(t, d.Statistics().MixedSnapshotsDetected, uint64(1))
}

func TestDecodeTruncatedHeader(t *testing.T) {
	d := NewDecoder()
	payload := []byte{0x01, 0x00, 0x00, 0x00, 0x10, 0x00, 0x09, 0x00}

	assert.Nil(t, d.Decode(payload))
	assert.Empty(t, d.orderUpdateFragments)
	assert.Empty(t, d.orderExecutionFragments)
	assert.Empty(t, d.snapshotFragments)
	assert.Equal(t, uint64(1), d.Statistics().DecodeErrors)
}

func TestDecodeMultiBlockIncremental(t *testing.T) {
	d := NewDecoder()
	update := sampleUpdate(77)
	execution := sampleExecution(77)

	msg := d.Decode(incrementalDatagram(0x09, updateBlock(update), executionBlock(execution)))
	require.NotNil(t, msg)
	assert.Equal(t, update, msg)
	assert.Equal(t, uint64(2), d.Statistics().IncrementalBlocksDecoded)
}

func TestDecodeMultiBlockExecutionOnly(t *testing.T) {
	d := NewDecoder()
	execution := sampleExecution(78)

	msg := d.Decode(incrementalDatagram(0x09, executionBlock(execution)))
	require.NotNil(t, msg)
	assert.Equal(t, execution, msg)
}

func TestReassemblyAssociativity(t *testing.T) {
	blocks := [][]byte{
		updateBlock(sampleUpdate(55)),
		executionBlock(sampleExecution(55)),
		updateBlock(sampleUpdate(55)),
	}

	whole := NewDecoder()
	var all []byte
	for _, b := range blocks {
		all = append(all, b...)
	}
	want := whole.Decode(incrementalDatagram(0x09, all))
	require.NotNil(t, want)

	split := NewDecoder()
	require.Nil(t, split.Decode(incrementalDatagram(0x08, blocks[0])))
	require.Nil(t, split.Decode(incrementalDatagram(0x08, blocks[1])))
	got := split.Decode(incrementalDatagram(0x09, blocks[2]))

	assert.Equal(t, want, got)
	assert.Equal(t, whole.Statistics().IncrementalBlocksDecoded, split.Statistics().IncrementalBlocksDecoded)
}

func TestFragmentBufferReuse(t *testing.T) {
	d := NewDecoder()

	require.Nil(t, d.Decode(incrementalDatagram(0x08, updateBlock(sampleUpdate(55)))))
	require.NotNil(t, d.Decode(incrementalDatagram(0x09, updateBlock(sampleUpdate(55)))))

	buf, ok := d.orderUpdateFragments[55]
	require.True(t, ok)
	assert.Equal(t, 0, buf.Len())

	// The cleared buffer serves the next logical message as well.
	require.Nil(t, d.Decode(incrementalDatagram(0x08, updateBlock(sampleUpdate(55)))))
	msg := d.Decode(incrementalDatagram(0x09, updateBlock(sampleUpdate(55))))
	require.NotNil(t, msg)
}

func TestIdempotentSnapshotReset(t *testing.T) {
	run := func(d *Decoder) DecodedMessage {
		require.Nil(t, d.Decode(snapshotDatagram(0x02, sampleSection(42, sampleEntry(1)))))
		return d.Decode(snapshotDatagram(0x04, sampleSection(42, sampleEntry(2))))
	}

	fresh := NewDecoder()
	want := run(fresh)
	require.NotNil(t, want)

	dirty := NewDecoder()
	// Strand a middle fragment so the buffer holds stale bytes.
	require.Nil(t, dirty.Decode(snapshotDatagram(0x00, sampleSection(42, sampleEntry(99)))))
	got := run(dirty)

	assert.Equal(t, want, got)
}

func TestCounterMonotonicity(t *testing.T) {
	d := NewDecoder()
	datagrams := [][]byte{
		mustHex(t, singleUpdateHex),
		snapshotDatagram(0x02, sampleSection(1, sampleEntry(1))),
		{0x00, 0x01}, // truncated
		snapshotDatagram(0x04, sampleSection(1, sampleEntry(2))),
		snapshotDatagram(0x02|0x04, sampleSection(2, sampleEntry(3))),
		incrementalDatagram(0x09, executionBlock(sampleExecution(9))),
	}

	prev := d.Statistics()
	for _, payload := range datagrams {
		d.Decode(payload)
		cur := d.Statistics()
		assert.GreaterOrEqual(t, cur.TotalSnapshotsProcessed, prev.TotalSnapshotsProcessed)
		assert.GreaterOrEqual(t, cur.MixedSnapshotsDetected, prev.MixedSnapshotsDetected)
		assert.GreaterOrEqual(t, cur.PacketsSeen, prev.PacketsSeen)
		assert.GreaterOrEqual(t, cur.DecodeErrors, prev.DecodeErrors)
		prev = cur
	}
	assert.Equal(t, uint64(2), prev.TotalSnapshotsProcessed)
	assert.GreaterOrEqual(t, prev.MixedSnapshotsDetected, uint64(1))
}

func TestSingleDatagramSnapshot(t *testing.T) {
	d := NewDecoder()
	msg := d.Decode(snapshotDatagram(0x02|0x04, sampleSection(314, sampleEntry(1), sampleEntry(2))))
	require.NotNil(t, msg)
	s := msg.(*OrderBookSnapshot)
	assert.Equal(t, int32(314), s.SecurityID)
	assert.Len(t, s.Entries, 2)
	assert.Equal(t, uint64(1), d.Statistics().TotalSnapshotsProcessed)
}
