// SPDX-License-Identifier: EPL-2.0

// Package audio turns decoded audio into samples a sal.Device can play.
//
// Two kinds of sample are built here:
//   - NewPCMSample converts a fully decoded go-audio IntBuffer into a
//     preloaded sample in the device format.
//   - NewStreamSample wraps a SeekableSource and decodes it on demand
//     while voices play it.
//
// # Sources
//
// A Source produces interleaved float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Streaming needs a SeekableSource, since every voice playing a stream
// has its own cursor and the source is repositioned to it before each
// read. MonoMixer and StereoSplitter adapt the channel count and pass
// seeking through; MatchChannels picks the right one for a device.
//
// No sample rate conversion is done. A sample whose rate differs from the
// device rate is rejected with sal.ErrInvalidFormat and a warning is
// reported through the device callbacks.
//
// # Loaders
//
// A Registry maps file extensions to Loaders:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Loader{})
//	s, err := reg.LoadFile(dev, "boom.wav")
//
// The formats subpackages provide loaders for WAV, AIFF, Ogg Vorbis and
// MP3.
package audio
