// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sal"
	"github.com/ik5/sal/utils"
)

// IntDecoder widens one integer sample as stored by go-audio into a
// signed 16-bit value.
type IntDecoder func(v int) int16

// FromUnsigned8 decodes unsigned 8-bit samples (WAV).
func FromUnsigned8(v int) int16 { return utils.U8ToI16(uint8(v)) }

// FromSigned8 decodes signed 8-bit samples (AIFF).
func FromSigned8(v int) int16 { return utils.U8ToI16(uint8(v + 128)) }

// FromSigned16 decodes signed 16-bit samples.
func FromSigned16(v int) int16 { return int16(v) }

// FromSigned24 decodes signed 24-bit samples, dropping the low byte.
func FromSigned24(v int) int16 { return int16(v >> 8) }

// NewPCMSample converts a fully decoded buffer into a preloaded sample in
// the device format. The buffer must run at the device sample rate and
// have one or two channels.
func NewPCMSample(d *sal.Device, name string, buf *goaudio.IntBuffer, dec IntDecoder) (*sal.Sample, error) {
	if buf == nil || buf.Format == nil || dec == nil {
		return nil, sal.ErrInvalidParam
	}

	info := d.Info()
	srcCh := buf.Format.NumChannels
	if buf.Format.SampleRate != info.SampleRate {
		d.Warnf("%s: sample rate %d Hz does not match device rate %d Hz", name, buf.Format.SampleRate, info.SampleRate)
		return nil, fmt.Errorf("%s: %d Hz: %w", name, buf.Format.SampleRate, sal.ErrInvalidFormat)
	}
	if srcCh != 1 && srcCh != 2 {
		return nil, fmt.Errorf("%s: %d channels: %w", name, srcCh, ErrChannelMismatch)
	}

	frames := len(buf.Data) / srcCh
	if frames == 0 {
		return nil, fmt.Errorf("%s: no audio frames: %w", name, sal.ErrInvalidFormat)
	}

	s, err := d.NewSample(frames*info.Channels, sal.PCM{}, nil)
	if err != nil {
		return nil, err
	}

	out := s.Data()
	off := 0
	for f := range frames {
		frame := buf.Data[f*srcCh : (f+1)*srcCh]

		switch {
		case srcCh == info.Channels:
			for _, v := range frame {
				off += utils.PutSample(out[off:], info.Bits, dec(v))
			}
		case srcCh == 1:
			v := dec(frame[0])
			off += utils.PutSample(out[off:], info.Bits, v)
			off += utils.PutSample(out[off:], info.Bits, v)
		default:
			v := int16((int32(dec(frame[0])) + int32(dec(frame[1]))) / 2)
			off += utils.PutSample(out[off:], info.Bits, v)
		}
	}

	return s, nil
}
