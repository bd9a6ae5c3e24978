// SPDX-License-Identifier: EPL-2.0

// Package loopback provides a backend that writes the mixed output to an
// io.Writer instead of a sound card.
//
// With a period set, a delivery goroutine mixes one chunk per period in
// real time, the way a hardware backend would. Without one, nothing runs
// in the background and the caller pulls audio with Render, which is
// what offline rendering and tests want.
//
// Importing the package registers it under the name "loopback", writing
// to io.Discard in real time.
package loopback
