// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package logging configures the logrus loggers shared by vpnwatch components.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type textFormatter struct{}

// Format renders "LEVL: timestamp message key=value ..." without colors.
func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	levelText := strings.ToUpper(entry.Level.String())
	if len(levelText) > 4 {
		levelText = levelText[0:4]
	}
	timeStamp := entry.Time.Format("2006/01/02 15:04:05.000000")
	fmt.Fprintf(b, "%s: %s %-44s ", levelText, timeStamp, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// New returns a logger writing to out at the given level name.
// Unknown level names fall back to info.
func New(out io.Writer, level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	return &logrus.Logger{
		Out:       out,
		Formatter: &textFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
	}
}

// Default returns a stderr logger, at debug level when debug is set.
func Default(level string, debug bool) *logrus.Logger {
	if debug {
		level = "debug"
	}
	return New(os.Stderr, level)
}

// Discard returns a logger that drops everything. Used when no logger is supplied.
func Discard() *logrus.Logger {
	return New(io.Discard, "panic")
}
