// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package packet carries the capture pipeline plumbing: obtaining raw
// packets from a capture handle and delivering packets and decoded
// application messages to a handler.
package packet

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/ikravets/simba/simba"
)

// Obtainer yields raw captured packets. *pcap.Handle satisfies it.
type Obtainer interface {
	gopacket.PacketDataSource
	gopacket.ZeroCopyPacketDataSource
	LinkType() layers.LinkType
}

// Packet wraps one captured frame.
type Packet struct {
	pkt gopacket.Packet
}

func NewFromGoPacket(pkt gopacket.Packet) Packet {
	return Packet{pkt: pkt}
}
func (p Packet) GoPacket() gopacket.Packet {
	return p.pkt
}
func (p Packet) Timestamp() time.Time {
	return p.pkt.Metadata().Timestamp
}
func (p Packet) String() string {
	return fmt.Sprint(p.pkt)
}

// ApplicationMessage is one decoded SIMBA message together with its
// transport coordinates.
type ApplicationMessage interface {
	SecurityID() int32
	SequenceNumber() uint64
	Timestamp() time.Time
	Message() simba.DecodedMessage
}

type Handler interface {
	HandlePacket(Packet)
	HandleMessage(ApplicationMessage)
}

type Processor interface {
	SetObtainer(Obtainer)
	SetHandler(Handler)
	LimitPacketNumber(int)
	ProcessAll() error
}

type NopHandler struct{}

var _ Handler = &NopHandler{}

func (*NopHandler) HandlePacket(_ Packet)              {}
func (*NopHandler) HandleMessage(_ ApplicationMessage) {}
