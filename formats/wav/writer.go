// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/sal"
)

// Writer records PCM in a device format to a WAV file. The header is
// completed by Close, which does not close the underlying writer.
type Writer struct {
	enc    *wav.Encoder
	bits   int
	frame  int
	buf    goaudio.IntBuffer
	header bool
}

// NewWriter returns a Writer for PCM laid out as described by info.
func NewWriter(w io.WriteSeeker, info sal.DeviceInfo) *Writer {
	return &Writer{
		enc:   wav.NewEncoder(w, info.SampleRate, info.Bits, info.Channels, wavFormatPCM),
		bits:  info.Bits,
		frame: info.BytesPerFrame,
		buf: goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
			SourceBitDepth: info.Bits,
		},
	}
}

// Write encodes whole frames of PCM.
func (w *Writer) Write(p []byte) (int, error) {
	if w.frame == 0 || len(p)%w.frame != 0 {
		return 0, ErrShortWrite
	}

	w.buf.Data = w.buf.Data[:0]
	if w.bits == 8 {
		for _, b := range p {
			w.buf.Data = append(w.buf.Data, int(b))
		}
	} else {
		for i := 0; i+1 < len(p); i += 2 {
			w.buf.Data = append(w.buf.Data, int(int16(binary.LittleEndian.Uint16(p[i:]))))
		}
	}

	if err := w.enc.Write(&w.buf); err != nil {
		return 0, fmt.Errorf("encoding wav: %w", err)
	}
	w.header = true

	return len(p), nil
}

// Close finalizes the WAV header.
func (w *Writer) Close() error {
	if !w.header {
		// An empty recording still needs its header and data chunk.
		if _, err := w.Write(nil); err != nil {
			return err
		}
	}

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}

// Encode writes pcm, laid out as described by info, as a complete WAV
// file.
func Encode(w io.WriteSeeker, info sal.DeviceInfo, pcm []byte) error {
	ww := NewWriter(w, info)
	if _, err := ww.Write(pcm); err != nil {
		return err
	}

	return ww.Close()
}
