// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

// Header parsers. Each takes the datagram and the caller's offset and
// returns the parsed header together with the offset of the first byte
// after it.

func DecodeMarketDataPacketHeader(data []byte, off int) (h MarketDataPacketHeader, next int, err error) {
	if len(data)-off < MarketDataPacketHeaderSize {
		return h, off, TruncatedHeaderError{HeaderMarketData}
	}
	h = MarketDataPacketHeader{
		MsgSeqNum:   getUint32(data, off),
		MsgSize:     getUint16(data, off+4),
		MsgFlags:    getUint16(data, off+6),
		SendingTime: getUint64(data, off+8),
	}
	return h, off + MarketDataPacketHeaderSize, nil
}

func DecodeIncrementalPacketHeader(data []byte, off int) (h IncrementalPacketHeader, next int, err error) {
	if len(data)-off < IncrementalPacketHeaderSize {
		return h, off, TruncatedHeaderError{HeaderIncremental}
	}
	h = IncrementalPacketHeader{
		TransactTime:             getUint64(data, off),
		ExchangeTradingSessionID: getUint32(data, off+8),
	}
	return h, off + IncrementalPacketHeaderSize, nil
}

func DecodeSBEHeader(data []byte, off int) (h SBEHeader, next int, err error) {
	if len(data)-off < SBEHeaderSize {
		return h, off, TruncatedHeaderError{HeaderSBE}
	}
	h = SBEHeader{
		BlockLength: getUint16(data, off),
		TemplateID:  TemplateID(getUint16(data, off+2)),
		SchemaID:    getUint16(data, off+4),
		Version:     getUint16(data, off+6),
	}
	return h, off + SBEHeaderSize, nil
}
