// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoSplitter plays a mono source on both channels.
type StereoSplitter struct {
	src Source
	tmp []float32
}

func NewStereoSplitter(src Source) *StereoSplitter {
	return &StereoSplitter{
		src: src,
		tmp: make([]float32, 2048),
	}
}

func (s *StereoSplitter) SampleRate() int { return s.src.SampleRate() }
func (s *StereoSplitter) Channels() int   { return 2 }
func (s *StereoSplitter) BufSize() int    { return s.src.BufSize() * 2 }
func (s *StereoSplitter) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *StereoSplitter) SeekFrame(frame int64) error {
	sk, ok := s.src.(Seeker)
	if !ok {
		return ErrNotSeekable
	}

	return sk.SeekFrame(frame)
}

func (s *StereoSplitter) Length() int64 {
	if sk, ok := s.src.(Seeker); ok {
		return sk.Length()
	}

	return 0
}

func (s *StereoSplitter) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / 2
	if frames == 0 {
		return 0, nil
	}
	if cap(s.tmp) < frames {
		s.tmp = make([]float32, frames)
	}

	n, err := s.src.ReadSamples(s.tmp[:frames])
	for i := range n {
		dst[2*i] = s.tmp[i]
		dst[2*i+1] = s.tmp[i]
	}

	return 2 * n, err
}

// MatchChannels adapts src to produce the given number of channels. Only
// mono and stereo outputs are supported; a source with more channels is
// folded down to mono first.
func MatchChannels(src Source, channels int) (Source, error) {
	switch {
	case src.Channels() == channels:
		return src, nil
	case channels == 1:
		return NewMonoMixer(src), nil
	case channels == 2 && src.Channels() == 1:
		return NewStereoSplitter(src), nil
	case channels == 2:
		return NewStereoSplitter(NewMonoMixer(src)), nil
	}

	return nil, fmt.Errorf("%d to %d channels: %w", src.Channels(), channels, ErrChannelMismatch)
}
