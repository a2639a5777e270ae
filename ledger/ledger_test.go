package ledger

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAddAndQuery(t *testing.T) {
	l, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	defer l.Close()
	entries := []Entry{
		{RunID: "r1", Record: "a", Path: "a.hea", Status: StatusDone, Pages: 2, OutOfFrame: 3, Duration: 1500 * time.Millisecond},
		{RunID: "r1", Record: "b", Path: "b.hea", Status: StatusSkipped, Code: "input", Error: "too short"},
		{RunID: "r2", Record: "c", Path: "c.hea", Status: StatusFailed, Code: "io"},
	}
	for _, e := range entries {
		if err := l.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	got, err := l.Entries("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Record != "a" || got[1].Code != "input" {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[0].Pages != 2 || got[0].OutOfFrame != 3 || got[0].Duration != 1500*time.Millisecond {
		t.Fatalf("fields not preserved: %+v", got[0])
	}
	sum, err := l.Summary("r1")
	if err != nil {
		t.Fatal(err)
	}
	if sum[StatusDone] != 1 || sum[StatusSkipped] != 1 || sum[StatusFailed] != 0 {
		t.Fatalf("unexpected summary: %v", sum)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if err := l.Add(Entry{RunID: "x", Record: "r", Path: "r.hea", Status: StatusDone}); err != nil {
		t.Fatal(err)
	}
	l.Close()
	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	got, err := l.Entries("x")
	if err != nil || len(got) != 1 {
		t.Fatalf("entries should persist: %v %v", got, err)
	}
}
