package signal

import (
	"errors"
	"math"
	"testing"
)

func makeRecording(leads []string, rate float64, seconds float64) *Recording {
	n := int(rate * seconds)
	rec := &Recording{Name: "r", SampleRate: rate, Leads: StandardizeAll(leads)}
	for i := range leads {
		s := make([]float64, n)
		for j := range s {
			s[j] = float64(i*1000 + j)
		}
		rec.Samples = append(rec.Samples, s)
		rec.Gains = append(rec.Gains, 100)
		rec.Baselines = append(rec.Baselines, 0)
	}
	return rec
}

func TestStandardizeCasing(t *testing.T) {
	cases := map[string]LeadName{
		"avr": LeadAVR,
		"AVL": LeadAVL,
		"aVf": LeadAVF,
		"ii":  LeadII,
		"v1":  LeadV1,
		" I ": LeadI,
	}
	for in, want := range cases {
		if got := Standardize(in); got != want {
			t.Fatalf("Standardize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFrameStartsWalksInPageSteps(t *testing.T) {
	rec := makeRecording([]string{"I", "II"}, 100, 25)
	starts, err := FrameStarts(rec, 10, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(starts) != 2 || starts[0] != 0 || starts[1] != 1000 {
		t.Fatalf("unexpected starts: %v", starts)
	}
}

func TestFrameStartsShortRecording(t *testing.T) {
	rec := makeRecording([]string{"I"}, 100, 9)
	_, err := FrameStarts(rec, 10, -1)
	if !errors.Is(err, ErrShortRecording) {
		t.Fatalf("expected ErrShortRecording, got %v", err)
	}
	_, err = FrameStarts(makeRecording([]string{"I"}, 100, 12), 10, 500)
	if !errors.Is(err, ErrShortRecording) {
		t.Fatalf("expected ErrShortRecording for late start index, got %v", err)
	}
}

func TestExtractCentersAndSkipsMissing(t *testing.T) {
	rec := makeRecording([]string{"I", "II"}, 100, 12)
	frame, err := Extract(rec, 0, []Window{
		{Lead: LeadI, Start: 0, End: 250},
		{Lead: LeadV1, Start: 0, End: 250},
		{Lead: LeadII, Start: 250, End: 500},
		{Lead: LeadII, Start: 0, End: 1000, Full: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frame.Leads) != 2 {
		t.Fatalf("expected missing lead to be skipped, got %d leads", len(frame.Leads))
	}
	if frame.Full == nil || len(frame.Full.Samples) != 1000 {
		t.Fatalf("full lead missing or wrong length: %+v", frame.Full)
	}
	sum := 0.0
	for _, v := range frame.Leads[0].Samples {
		sum += v
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("expected zero-mean lead, sum=%g", sum)
	}
	if frame.Leads[1].Start != 250 || frame.Leads[1].End != 500 {
		t.Fatalf("unexpected sample range for II: %d-%d", frame.Leads[1].Start, frame.Leads[1].End)
	}
}

func TestPhysicalAppliesGainAndBaseline(t *testing.T) {
	rec := &Recording{
		SampleRate: 10,
		Leads:      []LeadName{LeadI},
		Gains:      []float64{0},
		Baselines:  []float64{100},
		Samples:    [][]float64{{300, 500}},
	}
	got, ok := rec.Physical(LeadI, 0, 2)
	if !ok {
		t.Fatalf("lead I not found")
	}
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected default gain conversion, got %v", got)
	}
}
