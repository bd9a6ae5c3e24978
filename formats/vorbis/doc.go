// SPDX-License-Identifier: EPL-2.0

// Package vorbis plays Ogg Vorbis files through github.com/jfreymuth/oggvorbis.
//
// Files are streamed by default: each voice playing the sample seeks the
// decoder to its own position, so one decoded file can back any number of
// voices. Loader{Preload: true} trades memory for CPU by decoding the
// whole file once.
//
//	reg.Register("ogg", vorbis.Loader{})
package vorbis
