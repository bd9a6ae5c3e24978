// SPDX-License-Identifier: EPL-2.0

//go:build linux

package main

import (
	"github.com/ik5/sal/backend/alsa"
	"github.com/ik5/sal/backend/oss"
)

func init() {
	addSubsystem("ALSA", alsa.UseLogger)
	addSubsystem("OSS", oss.UseLogger)
}
