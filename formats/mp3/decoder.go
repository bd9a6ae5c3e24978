// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/sal"
	"github.com/ik5/sal/audio"
)

// ErrNotMP3 is returned for data go-mp3 cannot decode.
var ErrNotMP3 = fmt.Errorf("not an MP3 stream: %w", sal.ErrInvalidFormat)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = 4
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	// Length is the decoded size in bytes, or -1 when unknown.
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // return sample capacity, not bytes

func (s *source) Length() int64 {
	if n := s.dec.Length(); n > 0 {
		return n / bytesPerFrame
	}

	return 0
}

func (s *source) SeekFrame(frame int64) error {
	if _, err := s.dec.Seek(frame*bytesPerFrame, io.SeekStart); err != nil {
		return fmt.Errorf("mp3 seek: %w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / channels
	bytesNeeded := frames * bytesPerFrame
	if bytesNeeded == 0 {
		return 0, nil
	}
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.dec, s.buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("mp3 decode: %w", err)
	}

	// A trailing partial frame is dropped.
	samples := n / bytesPerFrame * channels
	for i := range samples {
		val := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = float32(val) / 32768.0
	}

	return samples, err
}

// Decoder opens MP3 streams. Readers that cannot seek are read into
// memory first, since voices seek the stream.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	if _, ok := r.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading mp3 data: %w", err)
		}
		r = bytes.NewReader(data)
	}

	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	return newSource(dec), nil
}

// Loader loads MP3 files, streamed by default or decoded up front when
// Preload is set.
type Loader struct {
	Preload bool
}

func (l Loader) Load(d *sal.Device, data []byte) (*sal.Sample, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	return l.load(d, dec)
}

func (l Loader) load(d *sal.Device, dec mp3Reader) (*sal.Sample, error) {
	src := newSource(dec)
	if !l.Preload {
		return audio.NewStreamSample(d, "mp3", src)
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return audio.NewPCMSample(d, "mp3", buf, audio.FromSigned16)
}
