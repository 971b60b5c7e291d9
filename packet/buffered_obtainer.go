// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/ikravets/errs"
)

type bufferedPacket struct {
	data []byte
	ci   gopacket.CaptureInfo
}

// BufferedObtainer preloads a whole capture into memory so that
// benchmark reruns measure decoding, not file I/O.
type BufferedObtainer struct {
	index    int
	packets  []bufferedPacket
	linkType layers.LinkType
}

func NewBufferedObtainer(o Obtainer) *BufferedObtainer {
	b := &BufferedObtainer{linkType: o.LinkType()}
	for {
		data, ci, err := o.ReadPacketData()
		if err == io.EOF {
			break
		}
		errs.CheckE(err)
		b.packets = append(b.packets, bufferedPacket{data: data, ci: ci})
	}
	return b
}

func (b *BufferedObtainer) ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error) {
	if b.index >= len(b.packets) {
		err = io.EOF
		return
	}
	p := &b.packets[b.index]
	b.index++
	return p.data, p.ci, nil
}

func (b *BufferedObtainer) ZeroCopyReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	return b.ReadPacketData()
}

func (b *BufferedObtainer) Reset() {
	b.index = 0
}

func (b *BufferedObtainer) LinkType() layers.LinkType {
	return b.linkType
}

func (b *BufferedObtainer) Packets() int {
	return len(b.packets)
}
