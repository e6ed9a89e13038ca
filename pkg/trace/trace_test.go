package trace

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestGroupedLogRecordsOnlyWhileStarted(t *testing.T) {
	l := New(&bytes.Buffer{})

	l.AppendGroupedLog(KindLayout, "before start")
	l.StartGroupedLog(KindLayout)
	l.AppendGroupedLog(KindLayout, "measure %d", 1)
	l.AppendGroupedLog(KindTree, "other group")
	l.StopGroupedLog(KindLayout)
	l.AppendGroupedLog(KindLayout, "after stop")

	if got, want := l.GetGroupedLog(KindLayout), "measure 1\n"; got != want {
		t.Errorf("GetGroupedLog(layout) = %q, want %q", got, want)
	}
	if got := l.GetGroupedLog(KindTree); got != "" {
		t.Errorf("tree group should be empty, got %q", got)
	}
}

func TestStartResetsBuffer(t *testing.T) {
	l := New(&bytes.Buffer{})
	l.StartGroupedLog(KindTree)
	l.AppendGroupedLog(KindTree, "first")
	l.StartGroupedLog(KindTree)
	l.AppendGroupedLog(KindTree, "second")
	if got := l.GetGroupedLog(KindTree); got != "second\n" {
		t.Errorf("GetGroupedLog = %q", got)
	}
}

func TestVerboseEchoes(t *testing.T) {
	var out bytes.Buffer
	l := New(&out)
	l.Event(KindTree, "quiet")
	if out.Len() != 0 {
		t.Fatalf("non-verbose log wrote %q", out.String())
	}
	l.SetVerbose(true)
	l.Event(KindCallback, "dispatch %s", "measure")
	if !strings.Contains(out.String(), "callback: dispatch measure") {
		t.Errorf("verbose output = %q", out.String())
	}
}

func TestNilLogDiscards(t *testing.T) {
	var l *Log
	l.Event(KindTree, "ignored")
	if l.Verbose() {
		t.Error("nil log should not be verbose")
	}
}

func TestConcurrentAppend(t *testing.T) {
	l := New(&bytes.Buffer{})
	l.StartGroupedLog(KindVsync)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.AppendGroupedLog(KindVsync, "tick")
			}
		}()
	}
	wg.Wait()
	if got := strings.Count(l.GetGroupedLog(KindVsync), "tick\n"); got != 400 {
		t.Errorf("recorded %d lines, want 400", got)
	}
}

func TestParseKind(t *testing.T) {
	for k := KindTree; k < kindCount; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("network"); err == nil {
		t.Error("expected error for unknown group")
	}
}
