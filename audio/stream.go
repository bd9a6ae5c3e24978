// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/sal"
	"github.com/ik5/sal/utils"
)

// Stream is a sample provider that decodes a seekable source on demand.
// The voice cursor counts frames. Voices sharing the sample each seek
// the source to their own cursor before reading.
type Stream struct {
	src  SeekableSource
	pos  int64
	buf  []float32
	name string
}

// NewStreamSample creates a sample that plays src. The source must run
// at the device sample rate; its channels are adapted to the device.
// The sample owns src and closes it when destroyed.
func NewStreamSample(d *sal.Device, name string, src Source) (*sal.Sample, error) {
	info := d.Info()
	if src.SampleRate() != info.SampleRate {
		d.Warnf("%s: sample rate %d Hz does not match device rate %d Hz", name, src.SampleRate(), info.SampleRate)
		return nil, fmt.Errorf("%s: %d Hz: %w", name, src.SampleRate(), sal.ErrInvalidFormat)
	}

	matched, err := MatchChannels(src, info.Channels)
	if err != nil {
		return nil, err
	}
	seekable, ok := matched.(SeekableSource)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotSeekable)
	}

	st := &Stream{
		src:  seekable,
		buf:  make([]float32, sal.MixScratchSize*info.Channels),
		name: name,
	}

	var opts []sal.SampleOption
	if n := seekable.Length(); n > 0 {
		opts = append(opts, sal.WithLength(int(n)))
	}

	return d.NewSample(0, st, st, opts...)
}

func (st *Stream) Decode(v *sal.Voice, dst []byte) (bool, error) {
	info := v.Device().Info()
	frames := len(dst) / info.BytesPerFrame
	channels := info.Channels
	out := 0
	empty := 0

	for out < frames {
		cursor := int64(v.Cursor())
		if cursor != st.pos {
			if err := st.src.SeekFrame(cursor); err != nil {
				return false, fmt.Errorf("%s: seek to %d: %w", st.name, cursor, err)
			}
			st.pos = cursor
		}

		want := frames - out
		if end := int64(v.LoopEnd()); end > cursor {
			want = int(min(int64(want), end-cursor))
		}

		n, err := st.src.ReadSamples(st.buf[:want*channels])
		got := n / channels
		if got > 0 {
			empty = 0
			utils.PutFloats(dst[out*info.BytesPerFrame:], info.Bits, st.buf[:got*channels])
			st.pos += int64(got)
			out += got

			if !v.Advance(got) {
				return true, nil
			}
		}

		switch {
		case err == nil || errors.Is(err, io.EOF) && got > 0:
			if got == 0 {
				empty++
			}
		case errors.Is(err, io.EOF):
			empty++
			if end := v.LoopEnd(); end > 0 {
				// The source ran out before the loop end.
				if !v.Advance(end - v.Cursor()) {
					return true, nil
				}
			} else {
				v.Seek(0)
			}
		default:
			return false, fmt.Errorf("%s: %w", st.name, err)
		}

		if empty > 1 {
			return false, fmt.Errorf("%s: %w", st.name, ErrEmptyStream)
		}
	}

	return false, nil
}

func (st *Stream) Destroy(d *sal.Device, s *sal.Sample) {
	if err := st.src.Close(); err != nil {
		d.Warnf("%s: close: %v", st.name, err)
	}
}
