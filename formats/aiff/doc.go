// SPDX-License-Identifier: EPL-2.0

// Package aiff loads AIFF (Audio Interchange File Format) files as
// samples.
//
// This package uses github.com/go-audio/aiff to decode AIFF files. 8, 16
// and 24-bit signed PCM is accepted, in mono or stereo, at the device
// sample rate.
//
//	reg.Register("aiff", aiff.Loader{})
//	reg.Register("aif", aiff.Loader{})
package aiff
