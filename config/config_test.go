package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/ecgpaper/layout"
	"github.com/ByLCY/ecgpaper/signal"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Workers <= 0 || c.Layout.Columns != -1 || c.Layout.StartIndex != -1 {
		t.Fatalf("unexpected defaults: %+v", c.Layout)
	}
	if c.Layout.FullMode != "II" || c.Layout.FullFallback != "first" || c.Layout.Resolution != 200 {
		t.Fatalf("unexpected layout defaults: %+v", c.Layout)
	}
	if c.Creases.Angle != 90 || c.Creases.Vertical != 10 || c.Augment.Crop != 0.01 {
		t.Fatalf("unexpected effect defaults: %+v %+v", c.Creases, c.Augment)
	}
	if !*c.Render.ShowLabels || c.Render.GridPresent != 1 {
		t.Fatalf("grid and labels should be on by default")
	}
	p, err := c.Paper()
	if err != nil || p != layout.DefaultPaper {
		t.Fatalf("default paper: %+v %v", p, err)
	}
	if len(c.Order12()) != 12 || c.Order12()[1] != signal.LeadAVR {
		t.Fatalf("unexpected default order: %v", c.Order12())
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
seed: 42
workers: 3
layout:
  paper: A4
  columns: 4
  start_index: 0
  full_fallback: random
  lead_order_12: [i, ii, iii, avr, avl, avf, v1, v2, v3, v4, v5, v6]
render:
  grid_colour: bw
  show_labels: false
creases:
  crease_angle: 0
  probability: 0.5
augment:
  crop: 0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if c.Seed != 42 || c.Workers != 3 || c.Layout.Columns != 4 || c.Layout.StartIndex != 0 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.Creases.Angle != 0 || c.Augment.Crop != 0 {
		t.Fatalf("explicit zero should be kept: angle=%d crop=%v", c.Creases.Angle, c.Augment.Crop)
	}
	if *c.Render.ShowLabels || !*c.Render.ShowLegend {
		t.Fatalf("unexpected label/legend flags")
	}
	if c.Order12()[3] != signal.LeadAVR {
		t.Fatalf("custom order should be standardized: %v", c.Order12())
	}
	p, err := c.Paper()
	if err != nil || p.Name != "A4" {
		t.Fatalf("paper: %+v %v", p, err)
	}
}

func TestValidate(t *testing.T) {
	for _, data := range []string{
		"layout: {full_fallback: maybe}",
		"augment: {crop: 0.6}",
		"creases: {probability: 2}",
		"layout: {lead_order_12: [I, II]}",
		"layout: {lead_order_12: [I, II, III, aVR, aVL, aVF, V1, V2, V3, V4, V5, ii]}",
		"layout: {lead_order_12: [I, II, III, aVR, aVL, aVF, V1, V2, V3, V4, V5, '  ']}",
	} {
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}
