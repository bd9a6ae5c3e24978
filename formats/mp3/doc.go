// SPDX-License-Identifier: EPL-2.0

// Package mp3 plays MP3 files through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always decodes to 16-bit stereo, so on a mono device the two
// channels are averaged. Like vorbis, files are streamed unless
// Loader.Preload is set.
package mp3
