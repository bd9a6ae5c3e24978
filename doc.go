// SPDX-License-Identifier: EPL-2.0

// Package sal is a small real-time PCM mixing engine.
//
// A Device multiplexes a fixed number of voices onto one output stream in
// a single format (8 or 16 bits, mono or stereo, one sample rate). A
// Backend owns the hardware side: it negotiates the format and calls
// Device.MixChunk from its own delivery thread whenever it needs the next
// block of audio. Applications create Samples, start them on voices with
// Play and control the voices with Stop, SetVolume and SetPan.
//
// # Devices
//
//	dev, err := sal.NewDevice(nil, &sal.SystemParams{Driver: "alsa"},
//		sal.DefaultFormat(), 16)
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//
// Backends register themselves by name, the way database/sql drivers do,
// so the backend packages are usually imported for their side effect:
//
//	import _ "github.com/ik5/sal/backend/alsa"
//
// # Samples
//
// A Sample is reference counted. Its creator holds one reference and
// every voice playing it holds another. DestroySample drops the creator's
// reference and returns ErrInUse while voices still play the sample; it
// is destroyed when the last voice ends.
//
// The audio itself comes from a SampleProvider. PCM plays a preloaded
// buffer that is already in the device format. The formats subpackages
// provide loaders and streaming providers for WAV, AIFF, Ogg Vorbis and
// MP3, and formats/tone synthesizes test tones.
//
// # Voices
//
//	h, err := dev.Play(s, sal.VolumeMax, sal.PanCenter, 0, 0, 1)
//
// Play binds a sample to the first free voice. The loop region defaults
// to the whole sample and repetitions counts how often it plays, or
// LoopAlways. A voice handle is a slot index: once the voice ends the
// slot may be reused and the old handle then refers to the new voice.
//
// # Locking
//
// Every public method takes the device lock for its whole duration. The
// lock is internal and not reentrant; calls from different goroutines
// are serialized against each other and against MixChunk.
//
// Sample providers run with the lock already held, so inside Decode and
// Destroy only the Voice view (Cursor, Volume, Pan, Advance, ...),
// Device.AdvanceVoice, Device.Info and the Sample accessors may be used.
// Calling a locking method such as Play or Status from a provider
// deadlocks.
//
// # Errors
//
// All failures are values of the Error taxonomy, possibly wrapped with
// context. Use errors.Is, or Code to recover the numeric code.
package sal
