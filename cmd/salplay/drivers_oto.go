// SPDX-License-Identifier: EPL-2.0

//go:build !linux || cgo

package main

import "github.com/ik5/sal/backend/oto"

func init() {
	addSubsystem("OTO", oto.UseLogger)
}
