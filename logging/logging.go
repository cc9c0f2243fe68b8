/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package logging creates named zap loggers on top of the go-log registry of
// subsystems, so each package can get its logger and level in one call.
package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-log/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// FormatEnv selects the output encoding: "json" forces JSON even on a terminal.
const FormatEnv = "CLCONF_LOG_FMT"

func init() {
	envfmt := strings.TrimSpace(strings.ToLower(os.Getenv(FormatEnv)))

	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = "msg"
	cfg.LevelKey = "lvl"
	cfg.TimeKey = "ts"
	cfg.NameKey = "log"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}

	var enc zapcore.Encoder

	// Logs go to stderr; stdout belongs to the CLI's tables and JSON.
	if !term.IsTerminal(int(os.Stderr.Fd())) || envfmt == "json" {
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	log.SetPrimaryCore(zapcore.NewCore(enc, os.Stderr, zap.NewAtomicLevelAt(zapcore.DebugLevel)))
}

// New creates a named logger with the specified level. If the logger exists,
// only its level is changed. It panics on an unknown level name.
func New(subsystem, level string) *zap.Logger {
	l := log.Logger(subsystem).Desugar()
	SetLogLevel(subsystem, level)
	return l
}

// SetLogLevel sets the level of the named logger. It panics on an unknown
// level name.
func SetLogLevel(subsystem, level string) {
	if err := log.SetLogLevel(subsystem, level); err != nil {
		panic(fmt.Errorf("%s %s %w", subsystem, level, err))
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	_, err := log.LevelFromString(level)
	return err == nil
}

// ListLogNames returns the sorted names of all created loggers.
func ListLogNames() []string {
	logs := log.GetSubsystems()
	sort.Strings(logs)
	return logs
}

// GetLogLevel returns the current level of the named logger.
func GetLogLevel(subsystem string) zapcore.Level {
	return log.Logger(subsystem).Level()
}
