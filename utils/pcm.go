// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// U8ToI16 widens an unsigned 8-bit sample to signed 16 bits by
// replicating the byte, so 0 and 255 map to the extremes.
func U8ToI16(b uint8) int16 {
	return int16(int32(uint16(b)<<8|uint16(b)) - 32768)
}

// I16ToU8 narrows a signed 16-bit sample to unsigned 8 bits.
func I16ToU8(v int16) uint8 {
	return uint8((int32(v) >> 8) + 0x80)
}

// PutSample stores v at dst[0:] in the given bit depth. 16-bit samples
// are little endian. It returns the number of bytes written.
func PutSample(dst []byte, bits int, v int16) int {
	if bits == 8 {
		dst[0] = I16ToU8(v)
		return 1
	}

	binary.LittleEndian.PutUint16(dst, uint16(v))

	return 2
}

// PutFloats encodes src into dst as 8 or 16-bit PCM and returns the
// number of bytes written. It stops when dst is full.
func PutFloats(dst []byte, bits int, src []float32) int {
	n := 0
	for _, x := range src {
		if bits == 8 {
			if n+1 > len(dst) {
				break
			}
			dst[n] = Float32ToUint8(x)
			n++
			continue
		}

		if n+2 > len(dst) {
			break
		}
		binary.LittleEndian.PutUint16(dst[n:], uint16(Float32ToInt16(x)))
		n += 2
	}

	return n
}
