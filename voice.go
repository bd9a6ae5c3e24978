// SPDX-License-Identifier: EPL-2.0

package sal

// VoiceHandle identifies a slot in a device's voice table. A handle stays
// valid after its voice ends and refers to whatever voice is later
// started in the same slot.
type VoiceHandle int32

const (
	// InvalidVoice is returned with errors from Play.
	InvalidVoice VoiceHandle = -1
	// LoopAlways makes a voice repeat its loop forever.
	LoopAlways = -1
)

const (
	VolumeMax    uint16 = 65535
	PanHardLeft  int16  = -32768
	PanCenter    int16  = 0
	PanHardRight int16  = 32767
)

// VoiceStatus is the state of a voice slot.
type VoiceStatus int

const (
	StatusIdle VoiceStatus = iota
	StatusPlaying
	StatusInvalidSound
)

func (s VoiceStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	default:
		return "invalid"
	}
}

// voice is a slot of the voice table. The zero value is a free slot.
type voice struct {
	sample    *Sample
	cursor    int
	volume    uint16
	pan       int16
	loopStart int
	loopEnd   int
	reps      int
}

func (v *voice) active() bool { return v.reps != 0 }

// Voice is the view of a playing voice handed to a SampleProvider. Its
// methods do not lock the device; they are only valid inside Decode.
type Voice struct {
	d *Device
	h VoiceHandle
}

func (v *Voice) Device() *Device     { return v.d }
func (v *Voice) Handle() VoiceHandle { return v.h }
func (v *Voice) Sample() *Sample     { return v.d.voices[v.h].sample }
func (v *Voice) Cursor() int         { return v.d.voices[v.h].cursor }
func (v *Voice) LoopStart() int      { return v.d.voices[v.h].loopStart }
func (v *Voice) LoopEnd() int        { return v.d.voices[v.h].loopEnd }
func (v *Voice) Volume() uint16      { return v.d.voices[v.h].volume }
func (v *Voice) Pan() int16          { return v.d.voices[v.h].pan }

// Repetitions returns the passes left, or LoopAlways.
func (v *Voice) Repetitions() int { return v.d.voices[v.h].reps }

// Advance moves the cursor n units forward and reports whether the voice
// is still playing. See Device.AdvanceVoice.
func (v *Voice) Advance(n int) bool { return v.d.AdvanceVoice(v.h, n) }

// Seek moves the cursor without any loop handling.
func (v *Voice) Seek(cursor int) { v.d.voices[v.h].cursor = cursor }

// Play starts s on the first free voice and returns its handle. loopEnd
// zero plays to the end of the sample. repetitions is how many times the
// loop region plays, or LoopAlways.
func (d *Device) Play(s *Sample, volume uint16, pan int16, loopStart, loopEnd, repetitions int) (VoiceHandle, error) {
	if s == nil || loopStart < 0 || loopEnd < 0 || loopStart > loopEnd {
		return InvalidVoice, ErrInvalidParam
	}
	if repetitions == 0 || repetitions < LoopAlways {
		return InvalidVoice, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || s.destroyed {
		return InvalidVoice, ErrInvalidParam
	}

	for h := range d.voices {
		v := &d.voices[h]
		if v.active() {
			continue
		}

		if loopEnd == 0 {
			loopEnd = s.Length()
		}

		s.refs++
		*v = voice{
			sample:    s,
			volume:    volume,
			pan:       pan,
			loopStart: loopStart,
			loopEnd:   loopEnd,
			reps:      repetitions,
		}
		d.stats.VoicesStarted++

		return VoiceHandle(h), nil
	}

	d.stats.OutOfVoices++

	return InvalidVoice, ErrOutOfVoices
}

// Stop ends the voice h. Stopping an idle voice is not an error.
func (d *Device) Stop(h VoiceHandle) error {
	if !d.validHandle(h) {
		return ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.voices[h].active() {
		d.stats.VoicesStopped++
	}
	d.stopLocked(h)

	return nil
}

// stopLocked releases the voice's reference and frees the slot. A voice
// that played out has no repetitions left but still holds its sample.
func (d *Device) stopLocked(h VoiceHandle) {
	v := &d.voices[h]
	if v.sample != nil {
		d.releaseLocked(v.sample)
	}
	*v = voice{}
}

// endLocked frees a voice that played out during a mix.
func (d *Device) endLocked(h VoiceHandle) {
	d.stats.VoicesEnded++
	d.stopLocked(h)
}

// AdvanceVoice moves the cursor of voice h forward by n and handles the
// loop. When the cursor reaches a non-zero loop end it wraps to the loop
// start and a finite repetition count is decremented; AdvanceVoice
// returns false once it reaches zero. The caller frees the voice.
//
// AdvanceVoice does not lock the device. It is meant for sample
// providers, which run under the mixer's lock.
func (d *Device) AdvanceVoice(h VoiceHandle, n int) bool {
	v := &d.voices[h]
	v.cursor += n

	if v.loopEnd == 0 || v.cursor < v.loopEnd {
		return true
	}

	v.cursor = v.loopStart
	if v.reps == LoopAlways {
		return true
	}

	v.reps--

	return v.reps > 0
}

// SetVolume sets the volume of voice h, 0 to VolumeMax.
func (d *Device) SetVolume(h VoiceHandle, volume uint16) error {
	if !d.validHandle(h) {
		return ErrInvalidParam
	}

	d.mu.Lock()
	d.voices[h].volume = volume
	d.mu.Unlock()

	return nil
}

// Volume returns the volume of voice h.
func (d *Device) Volume(h VoiceHandle) (uint16, error) {
	if !d.validHandle(h) {
		return 0, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.voices[h].volume, nil
}

// SetPan sets the pan of voice h, PanHardLeft to PanHardRight.
func (d *Device) SetPan(h VoiceHandle, pan int16) error {
	if !d.validHandle(h) {
		return ErrInvalidParam
	}

	d.mu.Lock()
	d.voices[h].pan = pan
	d.mu.Unlock()

	return nil
}

// Pan returns the pan of voice h.
func (d *Device) Pan(h VoiceHandle) (int16, error) {
	if !d.validHandle(h) {
		return 0, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.voices[h].pan, nil
}

// Status reports whether voice h is playing. An out of range handle
// yields StatusInvalidSound and ErrInvalidParam.
func (d *Device) Status(h VoiceHandle) (VoiceStatus, error) {
	if !d.validHandle(h) {
		return StatusInvalidSound, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.voices[h].active() {
		return StatusPlaying, nil
	}

	return StatusIdle, nil
}

// VoiceSample returns the sample bound to voice h, nil when idle.
func (d *Device) VoiceSample(h VoiceHandle) (*Sample, error) {
	if !d.validHandle(h) {
		return nil, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.voices[h].sample, nil
}

// Cursor returns the play position of voice h. It counts samples for PCM
// samples and frames for streamed ones.
func (d *Device) Cursor(h VoiceHandle) (int, error) {
	if !d.validHandle(h) {
		return 0, ErrInvalidParam
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.voices[h].cursor, nil
}

func (d *Device) validHandle(h VoiceHandle) bool {
	return h >= 0 && int(h) < len(d.voices)
}
