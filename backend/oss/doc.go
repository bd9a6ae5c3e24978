// SPDX-License-Identifier: EPL-2.0

// Package oss plays through an Open Sound System DSP device, /dev/dsp by
// default or the path given as the device name.
//
// Importing the package registers it under the name "oss".
package oss
