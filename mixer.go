// SPDX-License-Identifier: EPL-2.0

package sal

// MixChunk fills dst with the mix of every playing voice. Backends call it
// from their delivery thread once per period. len(dst) should be a whole
// number of frames.
//
// Each voice is decoded MixScratchSize bytes at a time and accumulated
// into dst with its volume and pan. A voice that plays out is freed only
// after its last decoded block has been mixed.
func (d *Device) MixChunk(dst []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	silence := d.info.Silence()
	fill(dst, silence)

	step := MixScratchSize - MixScratchSize%d.info.BytesPerFrame

	for h := range d.voices {
		v := &d.voices[h]
		if !v.active() {
			continue
		}

		for off := 0; off < len(dst); off += step {
			n := min(step, len(dst)-off)
			buf := d.scratch[:n]
			fill(buf, silence)

			ended, err := v.sample.provider.Decode(&d.views[h], buf)
			if err != nil {
				d.stats.DecodeErrors++
				log.Tracef("Voice %d skipped: %v", h, err)
				break
			}

			d.submix(dst[off:off+n], buf, v.volume, v.pan)

			if ended || !v.active() {
				d.endLocked(VoiceHandle(h))
				break
			}
		}
	}

	d.stats.ChunksMixed++
	d.stats.BytesMixed += uint64(len(dst))

	return nil
}

func (d *Device) submix(dst, src []byte, volume uint16, pan int16) {
	switch {
	case d.info.Bits == 8 && d.info.Channels == 1:
		submix8Mono(dst, src, volume)
	case d.info.Bits == 8:
		submix8Stereo(dst, src, volume, pan)
	case d.info.Channels == 1:
		submix16Mono(dst, src, volume)
	default:
		submix16Stereo(dst, src, volume, pan)
	}
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
