// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sal"
	"github.com/ik5/sal/audio"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

const readChunk = 4096

// readAll drains dec into a single buffer.
func readAll(dec aiffReader) (*goaudio.IntBuffer, error) {
	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	out := &goaudio.IntBuffer{Format: format}
	chunk := &goaudio.IntBuffer{Data: make([]int, readChunk), Format: format}

	for {
		chunk.Data = chunk.Data[:readChunk]
		n, err := dec.PCMBuffer(chunk)
		out.Data = append(out.Data, chunk.Data[:n]...)

		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding PCM data: %w", err)
		}
	}

	return out, nil
}

func intDecoder(bits int) (audio.IntDecoder, error) {
	switch bits {
	case 8:
		return audio.FromSigned8, nil
	case 16:
		return audio.FromSigned16, nil
	case 24:
		return audio.FromSigned24, nil
	default:
		return nil, fmt.Errorf("%d bits: %w", bits, ErrUnsupportedBitDepth)
	}
}

func decodeAll(rs io.ReadSeeker) (*goaudio.IntBuffer, audio.IntDecoder, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, nil, ErrNotAiffFile
	}

	// Read file info
	dec.ReadInfo()

	intDec, err := intDecoder(int(dec.BitDepth))
	if err != nil {
		return nil, nil, err
	}

	buf, err := readAll(dec)
	if err != nil {
		return nil, nil, err
	}

	return buf, intDec, nil
}

// Decoder decodes an AIFF image into a seekable in-memory source.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	buf, intDec, err := decodeAll(rs)
	if err != nil {
		return nil, err
	}

	return audio.NewBufferSource(buf, intDec)
}

// Loader loads AIFF files as samples, preloaded in the device format or
// streamed when Stream is set.
type Loader struct {
	Stream bool
}

func (l Loader) Load(d *sal.Device, data []byte) (*sal.Sample, error) {
	if l.Stream {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}

		return audio.NewStreamSample(d, "aiff", src)
	}

	buf, intDec, err := decodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return audio.NewPCMSample(d, "aiff", buf, intDec)
}
