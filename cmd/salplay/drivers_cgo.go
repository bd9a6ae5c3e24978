// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package main

import "github.com/ik5/sal/backend/malgo"

func init() {
	addSubsystem("MALG", malgo.UseLogger)
}
