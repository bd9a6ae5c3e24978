// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"os"

	"github.com/decred/slog"
)

// log is the package logger. It writes to stderr until replaced with
// UseLogger so that the default warning and error hooks are never silent.
var log = slog.NewBackend(os.Stderr).Logger("SAL")

// UseLogger sets the logger used by the package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// DisableLog turns off package logging.
func DisableLog() {
	log = slog.Disabled
}
