// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/sal"
	"github.com/ik5/sal/audio"
)

// ErrNotVorbis is returned for data that is not an Ogg Vorbis stream.
var ErrNotVorbis = fmt.Errorf("not an Ogg Vorbis stream: %w", sal.ErrInvalidFormat)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read returns the number of values decoded, always a multiple of
	// Channels.
	Read([]float32) (int, error)
	Length() int64
	SetPosition(int64) error
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func newSource(dec oggReader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Length() int64   { return s.dec.Length() }

func (s *source) SeekFrame(frame int64) error {
	if err := s.dec.SetPosition(frame); err != nil {
		return fmt.Errorf("vorbis seek: %w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	n := len(dst) - len(dst)%s.channels
	if n == 0 {
		return 0, nil
	}

	got, err := s.dec.Read(dst[:n])
	if err != nil && !errors.Is(err, io.EOF) {
		return got, fmt.Errorf("vorbis decode: %w", err)
	}

	return got, err
}

// Decoder opens Ogg Vorbis streams. Readers that cannot seek are read
// into memory first, since voices seek the stream.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	if _, ok := r.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading vorbis data: %w", err)
		}
		r = bytes.NewReader(data)
	}

	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}

	return newSource(dec), nil
}

// Loader loads Ogg Vorbis files. The stream is decoded while voices play
// it unless Preload is set, which decodes it once into a sample in the
// device format.
type Loader struct {
	Preload bool
}

func (l Loader) Load(d *sal.Device, data []byte) (*sal.Sample, error) {
	dec, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}

	return l.load(d, dec)
}

func (l Loader) load(d *sal.Device, dec oggReader) (*sal.Sample, error) {
	src := newSource(dec)
	if !l.Preload {
		return audio.NewStreamSample(d, "ogg", src)
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	return audio.NewPCMSample(d, "ogg", buf, audio.FromSigned16)
}
