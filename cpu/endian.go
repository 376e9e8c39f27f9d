package cpu

import (
	"encoding/binary"
	"fmt"
)

// AppendLE appends the low n bytes of v to dst, least-significant first.
// n must be 1, 2, 4 or 8.
func AppendLE(dst []byte, v uint64, n int) []byte {
	switch n {
	case 1:
		return append(dst, byte(v))
	case 2:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case 4:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	case 8:
		return binary.LittleEndian.AppendUint64(dst, v)
	}
	panic(fmt.Sprintf("cpu: invalid little-endian width %d", n))
}
