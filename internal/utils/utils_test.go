package utils

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
	}
	for in, want := range tests {
		if err := SetLogLevel(in); err != nil {
			t.Fatalf("SetLogLevel(%q) failed: %v", in, err)
		}
		if Log.GetLevel() != want {
			t.Fatalf("SetLogLevel(%q) set %s, want %s", in, Log.GetLevel(), want)
		}
	}

	if err := SetLogLevel("trace"); err == nil {
		t.Fatalf("expected an error for an unsupported level")
	}
}

func TestGetAbsDBPath(t *testing.T) {
	def, err := GetAbsDBPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(def, filepath.Join(".config", "genscope", "genscope.sqlite")) {
		t.Fatalf("unexpected default path %s", def)
	}

	rel, err := GetAbsDBPath("scope.sqlite")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(rel) {
		t.Fatalf("expected an absolute path, got %s", rel)
	}
}

func TestDBLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scope.sqlite")
	l, err := NewDBLock(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Lock(); err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if err := l.Unlock(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
}
