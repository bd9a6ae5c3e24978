// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/ik5/sal"
	"github.com/ik5/sal/backend/loopback"
	"github.com/ik5/sal/metrics"
)

const maxLogFiles = 10

type logWriter struct {
	stdOut     io.Writer
	logRotator *rotator.Rotator
}

func (w *logWriter) Write(b []byte) (int, error) {
	if w.stdOut != nil {
		_, _ = w.stdOut.Write(b)
	}
	if w.logRotator != nil {
		_, _ = w.logRotator.Write(b)
	}

	return len(b), nil
}

var (
	logOut     = &logWriter{stdOut: os.Stdout}
	backendLog = slog.NewBackend(logOut)
	log        = backendLog.Logger("SPLY")

	subsystemLoggers = map[string]slog.Logger{"SPLY": log}
)

// addSubsystem creates the logger for tag and hands it to use.
func addSubsystem(tag string, use func(slog.Logger)) {
	l := backendLog.Logger(tag)
	subsystemLoggers[tag] = l
	use(l)
}

func init() {
	addSubsystem("SAL", sal.UseLogger)
	addSubsystem("LOOP", loopback.UseLogger)
	addSubsystem("METR", metrics.UseLogger)
}

// initLogRotator additionally writes the log to path, rotating it.
func initLogRotator(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	r, err := rotator.New(path, 10*1024, false, maxLogFiles)
	if err != nil {
		return fmt.Errorf("creating file rotator: %w", err)
	}
	logOut.logRotator = r

	return nil
}

func closeLogRotator() {
	if logOut.logRotator != nil {
		_ = logOut.logRotator.Close()
		logOut.logRotator = nil
	}
}

func subsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags
}

// setLogLevels accepts either a single level for every subsystem or a
// comma separated list of SUBSYS=level pairs.
func setLogLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		lvl, ok := slog.LevelFromString(debugLevel)
		if !ok {
			return fmt.Errorf("invalid debug level %q", debugLevel)
		}
		for _, l := range subsystemLoggers {
			l.SetLevel(lvl)
		}

		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		tag, level, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return fmt.Errorf("debug level pair %q is not SUBSYS=level", pair)
		}

		l, ok := subsystemLoggers[tag]
		if !ok {
			return fmt.Errorf("unknown subsystem %q, have %s", tag, strings.Join(subsystems(), ", "))
		}
		lvl, ok := slog.LevelFromString(level)
		if !ok {
			return fmt.Errorf("invalid debug level %q for %s", level, tag)
		}
		l.SetLevel(lvl)
	}

	return nil
}
