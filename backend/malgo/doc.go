// SPDX-License-Identifier: EPL-2.0

// Package malgo plays through miniaudio, which picks the best native API
// of the host (WASAPI, Core Audio, PulseAudio, ALSA and others).
//
// The device name selects a playback device by its miniaudio name; an
// empty name or "default" uses the system default. The package needs
// cgo. Importing it registers it under the name "malgo".
package malgo
