// SPDX-License-Identifier: EPL-2.0

package sal

import "encoding/binary"

// gain maps a volume onto a 16.16 fixed point factor so that VolumeMax
// is exactly unity.
func gain(volume int) int {
	return volume + volume>>15
}

// scale applies a volume to a signed sample, rounding to nearest. Results
// differ from a truncating (s*volume)>>16 by at most one LSB.
func scale(s, volume int) int {
	return (s*gain(volume) + 1<<15) >> 16
}

// panned returns the volume of sample i of an interleaved stereo
// stream. Odd samples are the right channel.
func panned(i int, volume uint16, pan int16) int {
	v := int(volume)
	if i&1 == 1 {
		v += int(pan) * 2
	} else {
		v -= int(pan) * 2
	}

	return min(max(v, 0), 65535)
}

func mix8(d, s byte, volume int) byte {
	a := int(d) + scale(int(s)-128, volume)

	return byte(min(max(a, 0), 255))
}

func submix8Mono(dst, src []byte, volume uint16) {
	for i := range src {
		dst[i] = mix8(dst[i], src[i], int(volume))
	}
}

func submix8Stereo(dst, src []byte, volume uint16, pan int16) {
	for i := range src {
		dst[i] = mix8(dst[i], src[i], panned(i, volume, pan))
	}
}

// mix16 accumulates with 16-bit wraparound; it does not clamp.
func mix16(dst, src []byte, volume int) {
	d := int16(binary.LittleEndian.Uint16(dst))
	s := int16(binary.LittleEndian.Uint16(src))
	d += int16(scale(int(s), volume))
	binary.LittleEndian.PutUint16(dst, uint16(d))
}

func submix16Mono(dst, src []byte, volume uint16) {
	for i := 0; i+1 < len(src); i += 2 {
		mix16(dst[i:], src[i:], int(volume))
	}
}

func submix16Stereo(dst, src []byte, volume uint16, pan int16) {
	for i := 0; i+1 < len(src); i += 2 {
		mix16(dst[i:], src[i:], panned(i/2, volume, pan))
	}
}
