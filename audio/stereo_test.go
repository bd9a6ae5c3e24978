// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"

	"github.com/ik5/sal"
	"github.com/ik5/sal/internal/audiotest"
)

func TestStereoSplitter(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 1, 50, 100)
	st := NewStereoSplitter(src)

	if st.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", st.Channels())
	}

	buf := make([]float32, 7)
	n, err := st.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 6 {
		t.Fatalf("ReadSamples() n = %d, want 6", n)
	}
	for f := range 3 {
		want := float32(f) / 100
		if buf[2*f] != want || buf[2*f+1] != want {
			t.Errorf("frame %d = %v,%v, want %v on both", f, buf[2*f], buf[2*f+1], want)
		}
	}

	if err := st.SeekFrame(10); err != nil {
		t.Fatalf("SeekFrame() error = %v", err)
	}
	if src.Position() != 10 {
		t.Errorf("Position() = %d, want 10", src.Position())
	}
}

func TestMatchChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dev int
		wantErr  bool
	}{
		{"mono on mono", 1, 1, false},
		{"stereo on stereo", 2, 2, false},
		{"mono on stereo", 1, 2, false},
		{"stereo on mono", 2, 1, false},
		{"quad on stereo", 4, 2, false},
		{"mono on surround", 1, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MatchChannels(audiotest.NewSilentSource(8000, tt.src, 10), tt.dev)
			if tt.wantErr {
				if !errors.Is(err, sal.ErrInvalidFormat) {
					t.Errorf("MatchChannels() error = %v, want %v", err, sal.ErrInvalidFormat)
				}
				return
			}
			if err != nil {
				t.Fatalf("MatchChannels() error = %v", err)
			}
			if got.Channels() != tt.dev {
				t.Errorf("Channels() = %d, want %d", got.Channels(), tt.dev)
			}
			if _, ok := got.(SeekableSource); !ok {
				t.Error("MatchChannels() result is not seekable")
			}
		})
	}
}
