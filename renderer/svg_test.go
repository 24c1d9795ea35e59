package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/theme"
)

func sampleList() *draw.List {
	var l draw.List
	grey := theme.Handler{}.Floral()
	l.Area([]r2.Vec{{X: 0, Y: 5}, {X: 10, Y: 4}}, 20, grey)
	l.Polygon([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, grey, grey, 0.5)
	l.Polyline([]r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 3}}, grey, 1, true)
	l.Circle(r2.Vec{X: 5, Y: 5}, 2, grey, grey, 0)
	l.Circle(r2.Vec{X: 5, Y: 5}, 2, grey, grey, 0)
	l.SVGPath(draw.Item{PathData: "M0 0 L1 1", Transform: "scale(2)", Fill: grey, Opacity: 0.5, Class: "traced-ornament ornament-left"})
	return &l
}

func TestSVGEncode(t *testing.T) {
	s, err := NewSVGSurface(t.TempDir(), 100, 50, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var b strings.Builder
	if err := s.Encode(&b, sampleList(), 0.75); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	tests := []struct {
		fragment string
		count    int
	}{
		{`viewBox="0 0 100.00 50.00"`, 1},
		{`<g opacity="0.75">`, 1},
		{`d="M0.00 5.00 L10.00 4.00 L10.00 20.00 L0.00 20.00 Z"`, 1},
		{"<polygon ", 1},
		{`stroke-linecap="round"`, 1},
		{"<circle ", 2},
		{`class="traced-ornament ornament-left"`, 1},
		{`transform="scale(2)"`, 1},
	}
	for _, tt := range tests {
		if got := strings.Count(out, tt.fragment); got != tt.count {
			t.Errorf("expected %d of %q, got %d", tt.count, tt.fragment, got)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("expected a closed document")
	}
}

func TestSVGRenderInterval(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSVGSurface(dir, 100, 50, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := sampleList()
	for i := 0; i < 4; i++ {
		if err := s.Render(l, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []string{"frame_000001.svg", "frame_000003.svg"}
	if len(s.Written()) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), s.Written())
	}
	for i, name := range want {
		if filepath.Base(s.Written()[i]) != name {
			t.Errorf("expected %s, got %s", name, s.Written()[i])
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s on disk: %v", name, err)
		}
	}
}

func TestSVGSurfaceDisabled(t *testing.T) {
	s, err := NewSVGSurface(t.TempDir(), 10, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Render(sampleList(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Written()) != 0 {
		t.Errorf("expected no files, got %v", s.Written())
	}
}

func TestSVGSurfaceBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewSVGSurface(filepath.Join(file, "frames"), 10, 10, 1)
	if !errors.Is(err, ErrSnapshotDir) {
		t.Errorf("expected ErrSnapshotDir, got %v", err)
	}
}
