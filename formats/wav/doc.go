// SPDX-License-Identifier: EPL-2.0

// Package wav loads WAV files as samples and records device output to
// WAV.
//
// Decoding and encoding use github.com/go-audio/wav. Linear PCM with 8,
// 16 or 24 bits per sample is accepted; 24-bit data is narrowed to 16
// bits. The file must already run at the device sample rate.
//
// # Loading
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Loader{})
//	s, err := reg.LoadFile(dev, "kick.wav")
//
// Loader{Stream: true} keeps the decoded file in memory unconverted and
// converts it while voices play it, which suits long files played on
// few voices.
//
// # Recording
//
// A Writer accepts PCM in a device format, so it can sit directly behind
// the loopback backend:
//
//	f, _ := os.Create("out.wav")
//	rec := wav.NewWriter(f, dev.Info())
//	...
//	rec.Close()
//	f.Close()
package wav
