// SPDX-License-Identifier: EPL-2.0

package utils

func clampUnit(x float32) float32 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}

	return x
}

func Float32ToInt16(x float32) int16 {
	// Use 32767 for positive max to avoid overflow
	return int16(clampUnit(x) * 32767.0)
}

// Float32ToUint8 converts to unsigned 8-bit PCM, where 128 is silence.
func Float32ToUint8(x float32) uint8 {
	return uint8(int(clampUnit(x)*127.0) + 128)
}

func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

func Uint8ToFloat32(v uint8) float32 {
	return float32(int(v)-128) / 128.0
}
