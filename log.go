// Copyright 2026 The Pixelgrid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datafile

import (
	"log/slog"
	"sync/atomic"
)

var (
	printEnabled atomic.Bool
	defaultLog   atomic.Pointer[slog.Logger]
)

func init() {
	defaultLog.Store(slog.New(slog.NewTextHandler(discardWriter{}, nil)))
}

// discardWriter is an io.Writer that drops everything written to it. It
// backs the default logger so that EnablePrint/SetLogger are the only way
// to make the package emit anything.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// EnablePrint turns on the package's debug print sink. It is off by default.
func EnablePrint() { printEnabled.Store(true) }

// DisablePrint turns off the package's debug print sink.
func DisablePrint() { printEnabled.Store(false) }

// SetLogger installs the *slog.Logger used by the package-level print sink.
// Passing nil restores the default discarding logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	defaultLog.Store(l)
}

// debugf emits a tagged debug line through logger (falling back to the
// package-level default when logger is nil), gated on
// EnablePrint/DisablePrint, letting a single Reader/Writer instance
// override where its messages go via WithReaderLogger/WithWriterLogger.
func debugf(logger *slog.Logger, tag, msg string, args ...any) {
	if !printEnabled.Load() {
		return
	}
	if logger == nil {
		logger = defaultLog.Load()
	}
	logger.Debug(msg, append([]any{slog.String("tag", tag)}, args...)...)
}
