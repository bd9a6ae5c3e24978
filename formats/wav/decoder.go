// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/sal"
	"github.com/ik5/sal/audio"
)

// wavFormatPCM is the WAVE format tag of linear PCM.
const wavFormatPCM = 1

// decodeAll reads every sample of a WAV image. The returned decoder
// widens the stored integers to 16 bits.
func decodeAll(r io.ReadSeeker) (*goaudio.IntBuffer, audio.IntDecoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, nil, fmt.Errorf("format tag %d: %w", dec.WavAudioFormat, ErrNotPCM)
	}

	var intDec audio.IntDecoder
	switch dec.BitDepth {
	case 8:
		intDec = audio.FromUnsigned8
	case 16:
		intDec = audio.FromSigned16
	case 24:
		intDec = audio.FromSigned24
	default:
		return nil, nil, fmt.Errorf("%d bits: %w", dec.BitDepth, ErrUnsupportedBitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("decoding PCM data: %w", err)
	}

	return buf, intDec, nil
}

// Decoder decodes a WAV image into a seekable in-memory source.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	buf, intDec, err := decodeAll(rs)
	if err != nil {
		return nil, err
	}

	return audio.NewBufferSource(buf, intDec)
}

// Loader loads WAV files as samples. By default the whole file is
// converted to the device format up front; Stream keeps the decoded
// data in its source layout and converts it while playing.
type Loader struct {
	Stream bool
}

func (l Loader) Load(d *sal.Device, data []byte) (*sal.Sample, error) {
	if l.Stream {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}

		return audio.NewStreamSample(d, "wav", src)
	}

	buf, intDec, err := decodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return audio.NewPCMSample(d, "wav", buf, intDec)
}
