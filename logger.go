/************************************************************************************
 *
 * corvid, a Go client library for the Discord API
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 the corvid authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package corvid

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the logging interface used throughout the cluster, its
// shards, and its REST pipelines.
type Logger interface {
	Info(msg string)
	Debug(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	// WithField adds a single field to the logger context.
	WithField(key string, value any) Logger
	// WithFields adds multiple fields to the logger context.
	WithFields(fields map[string]any) Logger
}

// LogLevel defines the severity level.
type LogLevel int

const (
	LogLevelDebugLevel LogLevel = iota
	LogLevelInfoLevel
	LogLevelWarnLevel
	LogLevelErrorLevel
	LogLevelFatalLevel
)

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelDebugLevel:
		return zerolog.DebugLevel
	case LogLevelInfoLevel:
		return zerolog.InfoLevel
	case LogLevelWarnLevel:
		return zerolog.WarnLevel
	case LogLevelErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// DefaultLogger backs the Logger interface with a zerolog.Logger, the
// structured-logging library used across the retrieved pack's daemon
// lineage for this exact purpose.
type DefaultLogger struct {
	zl zerolog.Logger
}

var _ Logger = (*DefaultLogger)(nil)

// NewDefaultLogger builds a DefaultLogger writing to out at the given
// minimum level. Pass a *lumberjack.Logger (see NewRotatingWriter) as out
// to get rotating log files instead of a bare stream.
func NewDefaultLogger(out io.Writer, level LogLevel) *DefaultLogger {
	if out == nil {
		out = os.Stdout
	}
	zl := zerolog.New(out).Level(level.zerolog()).With().Timestamp().Logger()
	return &DefaultLogger{zl: zl}
}

// NewRotatingWriter returns an io.Writer that rotates log files on disk,
// suitable for NewDefaultLogger's out parameter in long-running deployments.
func NewRotatingWriter(path string, maxSizeMB, maxBackups, maxAgeDays int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
}

func (l *DefaultLogger) WithField(key string, value any) Logger {
	return &DefaultLogger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *DefaultLogger) WithFields(fields map[string]any) Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &DefaultLogger{zl: ctx.Logger()}
}

func (l *DefaultLogger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *DefaultLogger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *DefaultLogger) Warn(msg string)  { l.zl.Warn().Msg(msg) }
func (l *DefaultLogger) Error(msg string) { l.zl.Error().Msg(msg) }
func (l *DefaultLogger) Fatal(msg string) { l.zl.Fatal().Msg(msg) }
