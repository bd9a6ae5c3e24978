// SPDX-License-Identifier: EPL-2.0

// Package alsa drives a Linux sound card directly through the kernel's
// ALSA PCM interface, without libasound.
//
// The device name selects the hardware PCM as "hw:CARD,DEVICE"; an empty
// name or "default" opens hw:0,0. Only direct hardware devices are
// supported, so the card must accept the requested format as is.
//
// Importing the package registers it under the name "alsa".
package alsa
