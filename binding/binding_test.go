package binding

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestInterpolatePaths(t *testing.T) {
	data := map[string]any{
		"patient": map[string]any{"name": "Ann", "tags": []any{"a", "b"}},
		"leads":   []string{"I", "II"},
	}
	got := Interpolate("${patient.name}/${patient.tags[1]}/${leads[0]}/${missing}", data)
	if got != "Ann/b/I/${missing}" {
		t.Fatalf("unexpected interpolation: %q", got)
	}
	if Interpolate("${x}", nil) != "${x}" {
		t.Fatalf("nil data should leave placeholders untouched")
	}
}

func TestHeaderLinesFillsMissing(t *testing.T) {
	attrs := map[string]string{"Name": "00001_hr", "Sex": "Male", "Time": "10:30:00"}
	lines := HeaderLines(nil, attrs, rand.New(rand.NewPCG(3, 4)))
	if len(lines) != len(DefaultHeader) {
		t.Fatalf("expected %d lines, got %d", len(DefaultHeader), len(lines))
	}
	for _, l := range lines {
		if strings.Contains(l, "${") {
			t.Fatalf("placeholder left in %q", l)
		}
	}
	if !strings.HasPrefix(lines[1], "Name:00001_hr") || !strings.HasPrefix(lines[2], "Sex:Male") {
		t.Fatalf("unexpected lines: %q", lines)
	}
	if lines[3] == "Age:" {
		t.Fatalf("missing age should be sampled")
	}
	again := HeaderLines(nil, attrs, rand.New(rand.NewPCG(3, 4)))
	if strings.Join(again, "|") != strings.Join(lines, "|") {
		t.Fatalf("same seed should give same header")
	}
}
