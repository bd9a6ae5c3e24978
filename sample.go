// SPDX-License-Identifier: EPL-2.0

package sal

// SampleProvider produces PCM for the voices playing a sample and frees
// the sample's private resources.
//
// Decode runs with the device locked. It writes up to len(dst) bytes in
// the device format, advances the voice with Voice.Advance as it
// produces data and reports ended once Advance returns false. It may
// leave dst short only when it reports ended. A non-nil error skips the
// voice for the current chunk without ending it.
//
// Destroy runs once, with the device locked, after the last reference
// to the sample is released.
type SampleProvider interface {
	Decode(v *Voice, dst []byte) (ended bool, err error)
	Destroy(d *Device, s *Sample)
}

// ProviderFuncs adapts a pair of functions to SampleProvider. A nil
// DestroyFn does nothing.
type ProviderFuncs struct {
	DecodeFn  func(v *Voice, dst []byte) (bool, error)
	DestroyFn func(d *Device, s *Sample)
}

func (p ProviderFuncs) Decode(v *Voice, dst []byte) (bool, error) {
	return p.DecodeFn(v, dst)
}

func (p ProviderFuncs) Destroy(d *Device, s *Sample) {
	if p.DestroyFn != nil {
		p.DestroyFn(d, s)
	}
}

// Sample is a reference-counted source of PCM data. It starts with one
// reference held by its creator and gains one per playing voice.
type Sample struct {
	refs       int
	owned      bool
	destroyed  bool
	data       []byte
	numSamples int
	length     int
	provider   SampleProvider
	args       any
}

// SampleOption configures a sample at creation.
type SampleOption func(*Sample)

// WithLength sets the loop end used when a voice is played with a zero
// loop end. It only matters for samples without a preallocated buffer,
// whose default is otherwise to never wrap.
func WithLength(n int) SampleOption {
	return func(s *Sample) {
		s.length = n
	}
}

// NewSample creates a sample driven by p. When numSamples is positive a
// buffer of numSamples samples in the device format is allocated and
// returned by Data; zero declares a streamed or synthesized sample. args
// is private state for p.
func (d *Device) NewSample(numSamples int, p SampleProvider, args any, opts ...SampleOption) (*Sample, error) {
	if p == nil || numSamples < 0 {
		return nil, ErrInvalidParam
	}

	s := &Sample{
		refs:       1,
		owned:      true,
		numSamples: numSamples,
		provider:   p,
		args:       args,
	}
	if numSamples > 0 {
		s.data = d.cb.Alloc(numSamples * d.info.BytesPerSample)
		if s.data == nil {
			return nil, ErrOutOfMemory
		}
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// DestroySample releases the caller's reference to s. The sample is
// destroyed when no voice still plays it; otherwise ErrInUse is returned
// and the sample stays alive until its last voice ends. The creator's
// reference is released once: later calls return ErrInvalidParam.
func (d *Device) DestroySample(s *Sample) error {
	if s == nil {
		return ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if s.destroyed || !s.owned {
		return ErrInvalidParam
	}
	s.owned = false
	if !d.releaseLocked(s) {
		return ErrInUse
	}

	return nil
}

// SampleRefCount returns the number of references to s.
func (d *Device) SampleRefCount(s *Sample) (int, error) {
	if s == nil {
		return 0, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return s.refs, nil
}

// releaseLocked drops one reference and destroys s when none remain. It
// reports whether s was destroyed.
func (d *Device) releaseLocked(s *Sample) bool {
	s.refs--
	if s.refs > 0 || s.destroyed {
		return false
	}

	s.destroyed = true
	s.provider.Destroy(d, s)
	if s.data != nil {
		d.cb.Free(s.data)
		s.data = nil
	}

	return true
}

// Data returns the sample's preallocated buffer, nil for streamed
// samples.
func (s *Sample) Data() []byte { return s.data }

// Args returns the provider state passed to NewSample.
func (s *Sample) Args() any { return s.args }

// NumSamples returns the preallocated length in samples.
func (s *Sample) NumSamples() int { return s.numSamples }

// Length is the default loop end of a voice playing s.
func (s *Sample) Length() int {
	if s.numSamples > 0 {
		return s.numSamples
	}

	return s.length
}

// PCM is the provider for samples whose data is already in the device
// format. It copies sample by sample from the voice cursor.
type PCM struct{}

func (PCM) Decode(v *Voice, dst []byte) (bool, error) {
	info := v.Device().Info()
	bps := info.BytesPerSample
	data := v.Sample().Data()

	for off := 0; off+bps <= len(dst); off += bps {
		src := v.Cursor() * bps
		if src >= 0 && src+bps <= len(data) {
			copy(dst[off:off+bps], data[src:src+bps])
		} else {
			for i := off; i < off+bps; i++ {
				dst[i] = info.Silence()
			}
		}

		if !v.Advance(1) {
			return true, nil
		}
	}

	return false, nil
}

func (PCM) Destroy(*Device, *Sample) {}
