// SPDX-License-Identifier: GPL-2.0-only

// Package log is a minimal leveled, colorized logger shared by the LZMA
// driver and cmd/lzmatool: debug lines in gray, info in cyan,
// warnings in yellow, errors in red, colorized only when the output is an
// attached terminal.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level orders log severities; a Logger suppresses anything below its
// configured Level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes leveled, optionally colorized lines to an output stream.
type Logger struct {
	out     io.Writer
	colored bool
	level   Level
}

// New builds a Logger writing to os.Stderr at LevelInfo, colorizing output
// only when stderr is an attached terminal.
func New() *Logger {
	colored := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return &Logger{out: colorable.NewColorableStderr(), colored: colored, level: LevelInfo}
}

// SetLevel changes the minimum level this Logger emits.
func (l *Logger) SetLevel(level Level) { l.level = level }

func (l *Logger) print(level Level, c *color.Color, prefix, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.colored {
		c.Fprintf(l.out, "%s %s\n", prefix, msg)
		return
	}
	fmt.Fprintf(l.out, "%s %s\n", prefix, msg)
}

func (l *Logger) Debug(format string, args ...any) {
	l.print(LevelDebug, color.New(color.FgHiBlack), "debug", format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.print(LevelInfo, color.New(color.FgCyan), "info", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.print(LevelWarn, color.New(color.FgYellow), "warn", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.print(LevelError, color.New(color.FgRed), "error", format, args...)
}
