// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

import "encoding/binary"

// Primitive wire readers. All fields are little-endian, unaligned and
// packed; the caller tracks the offset and is responsible for bounds.

func getUint16(data []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(data[off:])
}
func getUint32(data []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(data[off:])
}
func getUint64(data []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(data[off:])
}
func getInt32(data []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(data[off:]))
}
func getInt64(data []byte, off int) int64 {
	return int64(binary.LittleEndian.Uint64(data[off:]))
}
func getDecimal5(data []byte, off int) Decimal5 {
	return Decimal5{Mantissa: getInt64(data, off)}
}
