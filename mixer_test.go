// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"errors"
	"testing"
	"time"
)

func TestMixChunk_Silence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   byte
	}{
		{Format{Channels: 1, Bits: 8, SampleRate: 8000}, 0x80},
		{Format{Channels: 2, Bits: 8, SampleRate: 8000}, 0x80},
		{Format{Channels: 1, Bits: 16, SampleRate: 8000}, 0},
		{Format{Channels: 2, Bits: 16, SampleRate: 8000}, 0},
	}

	for _, tt := range tests {
		d := newTestDevice(t, tt.format, 2)
		dst := make([]byte, 1024)
		fill(dst, 0x33)

		if err := d.MixChunk(dst); err != nil {
			t.Fatalf("MixChunk() error = %v, want nil", err)
		}
		for i, b := range dst {
			if b != tt.want {
				t.Fatalf("%v: dst[%d] = %#x, want %#x", tt.format, i, b, tt.want)
			}
		}
	}
}

func TestMixChunk_PlaysSampleOnceThenFreesVoice(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 1, Bits: 16, SampleRate: 8000}, 2)
	p := &countingProvider{}
	s := newPCMSample(t, d, p, 100, 200, 300)

	h, err := d.Play(s, VolumeMax, PanCenter, 0, 0, 1)
	if err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}
	if err := d.DestroySample(s); !errors.Is(err, ErrInUse) {
		t.Fatalf("DestroySample() error = %v, want %v", err, ErrInUse)
	}

	dst := make([]byte, 10)
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}

	want := []int16{100, 200, 300, 0, 0}
	for i, w := range want {
		if got := at16(dst, i); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}

	if st, _ := d.Status(h); st != StatusIdle {
		t.Errorf("Status() = %v, want %v", st, StatusIdle)
	}
	if p.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", p.destroyed)
	}

	st := d.Stats()
	if st.VoicesEnded != 1 || st.ChunksMixed != 1 || st.BytesMixed != 10 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestMixChunk_DefaultLoopEndLoops(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 1, Bits: 16, SampleRate: 8000}, 1)
	s := newPCMSample(t, d, PCM{}, 1, 2, 3)

	h, err := d.Play(s, VolumeMax, PanCenter, 0, 0, LoopAlways)
	if err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}

	dst := make([]byte, 2*8)
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}

	want := []int16{1, 2, 3, 1, 2, 3, 1, 2}
	for i, w := range want {
		if got := at16(dst, i); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
	if c, _ := d.Cursor(h); c != 2 {
		t.Errorf("Cursor() = %d, want 2", c)
	}
}

func TestMixChunk_SumsVoices(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 2, Bits: 16, SampleRate: 8000}, 4)
	a := newPCMSample(t, d, PCM{}, 1000, 1000)
	b := newPCMSample(t, d, PCM{}, 300, 300)

	if _, err := d.Play(a, VolumeMax, PanCenter, 0, 0, LoopAlways); err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}
	if _, err := d.Play(b, VolumeMax, PanHardLeft, 0, 0, LoopAlways); err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}

	dst := make([]byte, 4*4)
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}

	for f := range 4 {
		if got := at16(dst, 2*f); got != 1300 {
			t.Errorf("frame %d left = %d, want 1300", f, got)
		}
		if got := at16(dst, 2*f+1); got != 1000 {
			t.Errorf("frame %d right = %d, want 1000", f, got)
		}
	}
}

func TestMixChunk_LargerThanScratch(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 1, Bits: 8, SampleRate: 8000}, 1)
	s, err := d.NewSample(MixScratchSize*3, PCM{}, nil)
	if err != nil {
		t.Fatalf("NewSample() error = %v, want nil", err)
	}
	for i := range s.Data() {
		s.Data()[i] = byte(i % 256)
	}

	if _, err := d.Play(s, VolumeMax, PanCenter, 0, 0, 1); err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}

	dst := make([]byte, MixScratchSize*2+100)
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}
	for i, b := range dst {
		if b != byte(i%256) {
			t.Fatalf("dst[%d] = %d, want %d", i, b, byte(i%256))
		}
	}
	if c, _ := d.Cursor(0); c != len(dst) {
		t.Errorf("Cursor() = %d, want %d", c, len(dst))
	}
}

func TestMixChunk_DecodeErrorSkipsVoice(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 1, Bits: 16, SampleRate: 8000}, 1)

	fail := true
	calls := 0
	p := ProviderFuncs{
		DecodeFn: func(v *Voice, dst []byte) (bool, error) {
			calls++
			if fail {
				return false, errors.New("stream hiccup")
			}
			for i := 0; i+1 < len(dst); i += 2 {
				dst[i] = 5
				v.Advance(1)
			}
			return false, nil
		},
	}
	s, err := d.NewSample(0, p, nil)
	if err != nil {
		t.Fatalf("NewSample() error = %v, want nil", err)
	}

	h, err := d.Play(s, VolumeMax, PanCenter, 0, 0, 1)
	if err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}

	dst := make([]byte, 2*MixScratchSize)
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("Decode called %d times, want 1", calls)
	}
	for i, b := range dst {
		if b != 0 {
			t.Fatalf("dst[%d] = %d, want silence", i, b)
		}
	}
	if st, _ := d.Status(h); st != StatusPlaying {
		t.Fatalf("Status() = %v, want %v", st, StatusPlaying)
	}

	fail = false
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}
	if at16(dst, 0) != 5 {
		t.Errorf("sample 0 = %d, want 5", at16(dst, 0))
	}
	if st := d.Stats(); st.DecodeErrors != 1 {
		t.Errorf("DecodeErrors = %d, want 1", st.DecodeErrors)
	}
}

func TestMixChunk_UnderfilledEndIsSilent(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 1, Bits: 8, SampleRate: 8000}, 1)
	p := ProviderFuncs{
		DecodeFn: func(v *Voice, dst []byte) (bool, error) {
			dst[0] = 0xFF
			return true, nil
		},
	}
	s, _ := d.NewSample(0, p, nil)
	if _, err := d.Play(s, VolumeMax, PanCenter, 0, 0, 1); err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}

	dst := make([]byte, 16)
	if err := d.MixChunk(dst); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}
	if dst[0] != 0xFF {
		t.Errorf("dst[0] = %#x, want 0xff", dst[0])
	}
	for i := 1; i < len(dst); i++ {
		if dst[i] != 0x80 {
			t.Fatalf("dst[%d] = %#x, want 0x80", i, dst[i])
		}
	}
}

func TestMixChunk_NaturalEndReleasesSample(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 1, Bits: 16, SampleRate: 8000}, 1)
	p := &countingProvider{}
	s := newPCMSample(t, d, p, 1, 2, 3)

	if _, err := d.Play(s, VolumeMax, PanCenter, 0, 0, 1); err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}
	if n, _ := d.SampleRefCount(s); n != 2 {
		t.Fatalf("SampleRefCount() = %d, want 2", n)
	}

	if err := d.MixChunk(make([]byte, 16)); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}
	if n, _ := d.SampleRefCount(s); n != 1 {
		t.Fatalf("SampleRefCount() after end = %d, want 1", n)
	}
	if p.destroyed != 0 {
		t.Fatalf("destroyed = %d while the creator holds it", p.destroyed)
	}

	if err := d.DestroySample(s); err != nil {
		t.Fatalf("DestroySample() error = %v, want nil", err)
	}
	if p.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", p.destroyed)
	}
	if st := d.Stats(); st.VoicesEnded != 1 || st.VoicesStopped != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

// viewProvider records the voice state it sees through the Voice view
// and plays silence for a fixed number of samples.
type viewProvider struct {
	volume uint16
	pan    int16
	reps   int
	calls  int
}

func (p *viewProvider) Decode(v *Voice, dst []byte) (bool, error) {
	p.calls++
	p.volume = v.Volume()
	p.pan = v.Pan()
	p.reps = v.Repetitions()

	for range len(dst) / v.Device().Info().BytesPerSample {
		if !v.Advance(1) {
			break
		}
	}

	return false, nil
}

func (p *viewProvider) Destroy(*Device, *Sample) {}

func TestMixChunk_ProviderReadsVoiceView(t *testing.T) {
	t.Parallel()

	d := newTestDevice(t, Format{Channels: 2, Bits: 16, SampleRate: 8000}, 1)
	p := &viewProvider{}
	s, err := d.NewSample(0, p, nil, WithLength(8))
	if err != nil {
		t.Fatalf("NewSample() error = %v, want nil", err)
	}

	h, err := d.Play(s, 1000, -200, 0, 0, 2)
	if err != nil {
		t.Fatalf("Play() error = %v, want nil", err)
	}
	if err := d.SetVolume(h, 1234); err != nil {
		t.Fatalf("SetVolume() error = %v, want nil", err)
	}

	done := make(chan error, 1)
	go func() { done <- d.MixChunk(make([]byte, 8)) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("MixChunk() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("MixChunk() did not return")
	}

	if p.volume != 1234 || p.pan != -200 || p.reps != 2 {
		t.Errorf("view = (%d, %d, %d), want (1234, -200, 2)", p.volume, p.pan, p.reps)
	}

	// The second pass exhausts the repetitions although Decode never
	// reports the end.
	if err := d.MixChunk(make([]byte, 32)); err != nil {
		t.Fatalf("MixChunk() error = %v, want nil", err)
	}
	if st, _ := d.Status(h); st != StatusIdle {
		t.Errorf("Status() = %v, want %v", st, StatusIdle)
	}
	if n, _ := d.SampleRefCount(s); n != 1 {
		t.Errorf("SampleRefCount() = %d, want 1", n)
	}
}
