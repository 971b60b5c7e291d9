// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package simba decodes Moscow Exchange SIMBA SPECTRA market data.
// It consumes one UDP payload per call, reassembles fragmented
// application messages and produces typed order update, order execution
// and order book snapshot records.
package simba

import (
	"fmt"
	"strconv"
)

type TemplateID uint16

const (
	TemplateOrderUpdate       TemplateID = 15
	TemplateOrderExecution    TemplateID = 16
	TemplateOrderBookSnapshot TemplateID = 17
)

func (t TemplateID) String() string {
	switch t {
	case TemplateOrderUpdate:
		return "OrderUpdate"
	case TemplateOrderExecution:
		return "OrderExecution"
	case TemplateOrderBookSnapshot:
		return "OrderBookSnapshot"
	default:
		return "Template(" + strconv.Itoa(int(t)) + ")"
	}
}

// Decimal5 is a price with a fixed decimal exponent of -5. Only the
// mantissa travels on the wire.
type Decimal5 struct {
	Mantissa int64
}

const Decimal5Exponent = -5

func (d Decimal5) Float64() float64 {
	return float64(d.Mantissa) / 100000.0
}
func (d Decimal5) String() string {
	return strconv.FormatFloat(d.Float64(), 'f', 5, 64)
}

type UpdateAction uint8

const (
	UpdateActionNew    UpdateAction = 0
	UpdateActionChange UpdateAction = 1
	UpdateActionDelete UpdateAction = 2
)

func (a UpdateAction) String() string {
	switch a {
	case UpdateActionNew:
		return "New"
	case UpdateActionChange:
		return "Change"
	case UpdateActionDelete:
		return "Delete"
	default:
		return "UpdateAction(" + strconv.Itoa(int(a)) + ")"
	}
}

type EntryType byte

const (
	EntryTypeBid       EntryType = '0'
	EntryTypeOffer     EntryType = '1'
	EntryTypeEmptyBook EntryType = 'J'
)

func (t EntryType) String() string {
	switch t {
	case EntryTypeBid:
		return "Bid"
	case EntryTypeOffer:
		return "Offer"
	case EntryTypeEmptyBook:
		return "EmptyBook"
	default:
		return "EntryType(" + string(rune(t)) + ")"
	}
}

// msgFlags bits of the market data packet header.
const (
	MsgFlagLastFragment      uint16 = 0x01
	MsgFlagStartOfSnapshot   uint16 = 0x02
	MsgFlagEndOfSnapshot     uint16 = 0x04
	MsgFlagIncrementalPacket uint16 = 0x08
)

type MarketDataPacketHeader struct {
	MsgSeqNum   uint32
	MsgSize     uint16
	MsgFlags    uint16
	SendingTime uint64
}

const MarketDataPacketHeaderSize = 16

func (h MarketDataPacketHeader) LastFragment() bool {
	return h.MsgFlags&MsgFlagLastFragment != 0
}
func (h MarketDataPacketHeader) StartOfSnapshot() bool {
	return h.MsgFlags&MsgFlagStartOfSnapshot != 0
}
func (h MarketDataPacketHeader) EndOfSnapshot() bool {
	return h.MsgFlags&MsgFlagEndOfSnapshot != 0
}
func (h MarketDataPacketHeader) IncrementalPacket() bool {
	return h.MsgFlags&MsgFlagIncrementalPacket != 0
}

type IncrementalPacketHeader struct {
	TransactTime             uint64
	ExchangeTradingSessionID uint32
}

const IncrementalPacketHeaderSize = 12

type SBEHeader struct {
	BlockLength uint16
	TemplateID  TemplateID
	SchemaID    uint16
	Version     uint16
}

const SBEHeaderSize = 8

// DecodedMessage is one of OrderUpdate, OrderExecution or
// OrderBookSnapshot.
type DecodedMessage interface {
	Template() TemplateID
}

type OrderUpdate struct {
	MDEntryID    int64
	MDEntryPx    Decimal5
	MDEntrySize  int64
	MDFlags      uint64
	MDFlags2     uint64
	SecurityID   int32
	RptSeq       uint32
	UpdateAction UpdateAction
	EntryType    EntryType
}

func (*OrderUpdate) Template() TemplateID { return TemplateOrderUpdate }

func (u *OrderUpdate) String() string {
	return fmt.Sprintf("OrderUpdate: MDEntryID=%d, MDEntryPx=%s, MDEntrySize=%d, SecurityID=%d, RptSeq=%d, UpdateAction=%s, EntryType=%s",
		u.MDEntryID, u.MDEntryPx, u.MDEntrySize, u.SecurityID, u.RptSeq, u.UpdateAction, u.EntryType)
}

type OrderExecution struct {
	MDEntryID    int64
	MDEntryPx    Decimal5
	MDEntrySize  int64
	LastPx       Decimal5
	LastQty      int64
	TradeID      int64
	MDFlags      uint64
	MDFlags2     uint64
	SecurityID   int32
	RptSeq       uint32
	UpdateAction UpdateAction
	EntryType    EntryType
}

func (*OrderExecution) Template() TemplateID { return TemplateOrderExecution }

func (e *OrderExecution) String() string {
	return fmt.Sprintf("OrderExecution: MDEntryID=%d, LastPx=%s, LastQty=%d, TradeID=%d, SecurityID=%d, RptSeq=%d, UpdateAction=%s, EntryType=%s",
		e.MDEntryID, e.LastPx, e.LastQty, e.TradeID, e.SecurityID, e.RptSeq, e.UpdateAction, e.EntryType)
}

type OrderBookEntry struct {
	MDEntryID    int64
	TransactTime uint64
	MDEntryPx    Decimal5
	MDEntrySize  int64
	TradeID      int64
	MDFlags      uint64
	MDFlags2     uint64
	EntryType    EntryType
}

type OrderBookSnapshot struct {
	SecurityID               int32
	LastMsgSeqNumProcessed   uint32
	RptSeq                   uint32
	ExchangeTradingSessionID uint32
	Entries                  []OrderBookEntry
}

func (*OrderBookSnapshot) Template() TemplateID { return TemplateOrderBookSnapshot }

func (s *OrderBookSnapshot) String() string {
	return fmt.Sprintf("OrderBookSnapshot: SecurityID=%d, LastMsgSeqNumProcessed=%d, RptSeq=%d, ExchangeTradingSessionID=%d, Entries=%d",
		s.SecurityID, s.LastMsgSeqNumProcessed, s.RptSeq, s.ExchangeTradingSessionID, len(s.Entries))
}

// MessageSecurityID extracts the instrument key shared by all message
// variants.
func MessageSecurityID(m DecodedMessage) int32 {
	switch v := m.(type) {
	case *OrderUpdate:
		return v.SecurityID
	case *OrderExecution:
		return v.SecurityID
	case *OrderBookSnapshot:
		return v.SecurityID
	default:
		return 0
	}
}
