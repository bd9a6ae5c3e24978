// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sal"
	"github.com/ik5/sal/utils"
)

// BufferSource is a SeekableSource over a fully decoded integer buffer.
type BufferSource struct {
	buf      *goaudio.IntBuffer
	dec      IntDecoder
	channels int
	frames   int
	pos      int
}

// NewBufferSource returns a source reading buf, whose samples are
// widened with dec.
func NewBufferSource(buf *goaudio.IntBuffer, dec IntDecoder) (*BufferSource, error) {
	if buf == nil || buf.Format == nil || dec == nil || buf.Format.NumChannels < 1 {
		return nil, sal.ErrInvalidParam
	}

	return &BufferSource{
		buf:      buf,
		dec:      dec,
		channels: buf.Format.NumChannels,
		frames:   len(buf.Data) / buf.Format.NumChannels,
	}, nil
}

func (b *BufferSource) SampleRate() int { return b.buf.Format.SampleRate }
func (b *BufferSource) Channels() int   { return b.channels }
func (b *BufferSource) BufSize() int    { return 4096 }
func (b *BufferSource) Close() error    { return nil }
func (b *BufferSource) Length() int64   { return int64(b.frames) }

func (b *BufferSource) SeekFrame(frame int64) error {
	if frame < 0 || frame > int64(b.frames) {
		return fmt.Errorf("seek to frame %d of %d: %w", frame, b.frames, io.ErrUnexpectedEOF)
	}
	b.pos = int(frame)

	return nil
}

func (b *BufferSource) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst)/b.channels, b.frames-b.pos) * b.channels
	if n <= 0 && b.pos >= b.frames {
		return 0, io.EOF
	}

	off := b.pos * b.channels
	for i := range n {
		dst[i] = utils.Int16ToFloat32(b.dec(b.buf.Data[off+i]))
	}
	b.pos += n / b.channels

	if b.pos >= b.frames {
		return n, io.EOF
	}

	return n, nil
}

// ReadAll decodes src to its end into 16-bit integers, for preloading
// compressed formats with NewPCMSample and FromSigned16.
func ReadAll(src Source) (*goaudio.IntBuffer, error) {
	ch := src.Channels()
	if ch < 1 {
		return nil, ErrChannelMismatch
	}

	out := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: src.SampleRate()},
		SourceBitDepth: 16,
	}
	tmp := make([]float32, max(src.BufSize()/ch, 1)*ch)
	empty := 0

	for {
		n, err := src.ReadSamples(tmp)
		for _, x := range tmp[:n] {
			out.Data = append(out.Data, int(utils.Float32ToInt16(x)))
		}

		switch {
		case errors.Is(err, io.EOF):
			return out, nil
		case err != nil:
			return nil, err
		case n == 0:
			if empty++; empty > 1 {
				return nil, ErrEmptyStream
			}
		default:
			empty = 0
		}
	}
}
