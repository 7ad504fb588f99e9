package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestCustomFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(logrus.DebugLevel, &buf)

	l.WithField("source", "video-comment").Warn("适配器返回空结果")

	line := buf.String()
	if !strings.HasPrefix(line, "[") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	for _, want := range []string{"[WARN]", "logger_test.go:", "适配器返回空结果", "source=video-comment"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestInitLoggerWithFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "logs", "radar.log")
	if err := InitLogger("debug", path); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Log.GetLevel())
	}
}

func TestInitLoggerBadLevelFallsBackToInfo(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	if err := InitLogger("loud", ""); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", Log.GetLevel())
	}
}
