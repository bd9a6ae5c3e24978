// SPDX-License-Identifier: EPL-2.0

// Package oto plays through the ebitengine/oto library, which works on
// Linux, macOS, Windows and the browser.
//
// oto allows a single audio context per process, created with the format
// of the first device opened on it. Later devices get that same format
// reported back, and only one device may play through oto at a time.
//
// Importing the package registers it under the name "oto".
package oto
