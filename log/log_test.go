//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package log_test

import (
	"testing"

	"github.com/tonyzdev/skim/log"
)

func TestLog(t *testing.T) {
	original := log.Default
	defer func() {
		log.Default = original
	}()

	logger := &countLogger{}
	log.Default = logger

	log.Debug("test")
	log.Debugf("test %d", 1)
	log.Info("test")
	log.Infof("test %d", 1)
	log.Warn("test")
	log.Warnf("test %d", 1)
	log.Error("test")
	log.Errorf("test %d", 1)
	log.Fatal("test")
	log.Fatalf("test %d", 1)

	if logger.calls != 10 {
		t.Fatalf("expected calls=10, got %d", logger.calls)
	}
}

func TestSetLevel(t *testing.T) {
	for _, level := range []string{
		log.LevelDebug,
		log.LevelInfo,
		log.LevelWarn,
		log.LevelError,
		log.LevelFatal,
		"unknown",
	} {
		log.SetLevel(level)
	}
	log.SetLevel(log.LevelInfo)
}

type countLogger struct {
	calls int
}

func (l *countLogger) Debug(args ...any)                 { l.calls++ }
func (l *countLogger) Debugf(format string, args ...any) { l.calls++ }
func (l *countLogger) Info(args ...any)                  { l.calls++ }
func (l *countLogger) Infof(format string, args ...any)  { l.calls++ }
func (l *countLogger) Warn(args ...any)                  { l.calls++ }
func (l *countLogger) Warnf(format string, args ...any)  { l.calls++ }
func (l *countLogger) Error(args ...any)                 { l.calls++ }
func (l *countLogger) Errorf(format string, args ...any) { l.calls++ }
func (l *countLogger) Fatal(args ...any)                 { l.calls++ }
func (l *countLogger) Fatalf(format string, args ...any) { l.calls++ }
