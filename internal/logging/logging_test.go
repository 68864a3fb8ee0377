package logging

import "testing"

func TestNewDefaultsToInfo(t *testing.T) {
	logger, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug should be disabled at the default level")
	}
	if !logger.Core().Enabled(0) {
		t.Error("info should be enabled at the default level")
	}
}

func TestNewDebug(t *testing.T) {
	logger, err := New("debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Error("debug should be enabled")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
