// Package logging configures the process-wide logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string // logrus level name, "info" when empty
	Format string // "text" or "json"
	File   string // when set, logs rotate in this file
}

// Setup applies the options to the standard logrus logger, which every
// package in this module logs through.
func Setup(opts Options) error {
	if opts.Level == "" {
		opts.Level = "info"
	}
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	if opts.File == "" {
		logrus.SetOutput(os.Stdout)
		return nil
	}

	writer := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	// Keep debug runs visible on the terminal as well.
	if level >= logrus.DebugLevel {
		logrus.SetOutput(io.MultiWriter(writer, os.Stdout))
	} else {
		logrus.SetOutput(writer)
	}
	return nil
}
