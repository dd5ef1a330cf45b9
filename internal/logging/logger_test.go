package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := New(mode, mode == "dev")
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("component", "test").Debug("hello", "n", 1)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded")
	l.Warn("discarded", "k", "v")
	l.Error("discarded")
	l.Sync()
}

func TestFromZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("component", "test")

	l.Warn("slow", "ms", 120)

	entries := logs.FilterMessage("slow").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "test" || fields["ms"] != int64(120) {
		t.Errorf("unexpected fields: %v", fields)
	}
}
