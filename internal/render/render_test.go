package render

import (
	"math"
	"reflect"
	"testing"

	"github.com/amterp/flagmaker/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRender_Empty(t *testing.T) {
	img := Render(nil)

	if img.Width != 500 || img.Height != 300 {
		t.Errorf("canvas = %vx%v, want 500x300", img.Width, img.Height)
	}
	if len(img.Shapes) != 0 {
		t.Errorf("expected no shapes, got %d", len(img.Shapes))
	}
}

func TestRender_DistinctStripes(t *testing.T) {
	colors := model.ColorList{"FF0018", "FFA52C", "FFFF41", "008018", "0000F9", "86007D"}
	img := Render(colors)

	if len(img.Shapes) != 6 {
		t.Fatalf("expected 6 shapes, got %d", len(img.Shapes))
	}
	for i, s := range img.Shapes {
		if s.Fill != colors[i] {
			t.Errorf("shape %d fill = %q, want %q", i, s.Fill, colors[i])
		}
		if !approx(s.Y, float64(i)*50) {
			t.Errorf("shape %d y = %v, want %v", i, s.Y, float64(i)*50)
		}
		if !approx(s.Y+s.Height, 300) {
			t.Errorf("shape %d should reach the bottom, ends at %v", i, s.Y+s.Height)
		}
		if s.X != 0 || s.Width != 500 || s.WidthPercent != 100 {
			t.Errorf("shape %d not full width: %+v", i, s)
		}
	}
}

func TestRender_CollapsesRuns(t *testing.T) {
	img := Render(model.ColorList{"FF0000", "FF0000", "00FF00"})

	if len(img.Shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d: %+v", len(img.Shapes), img.Shapes)
	}

	red := img.Shapes[0]
	if red.Fill != "FF0000" || red.Y != 0 || !approx(red.Height, 300) || !approx(red.HeightPercent, 100) {
		t.Errorf("unexpected first shape: %+v", red)
	}

	green := img.Shapes[1]
	if green.Fill != "00FF00" {
		t.Errorf("second shape fill = %q", green.Fill)
	}
	if !approx(green.Y, 200) || !approx(green.Height, 100) {
		t.Errorf("second shape should cover y=200..300, got y=%v h=%v", green.Y, green.Height)
	}
}

func TestRender_NonAdjacentDuplicatesKept(t *testing.T) {
	// Transgender flag: repeats are not adjacent, so all five stripes draw.
	img := Render(model.ColorList{"55CDFC", "F7A8B8", "FFFFFF", "F7A8B8", "55CDFC"})
	if len(img.Shapes) != 5 {
		t.Errorf("expected 5 shapes, got %d", len(img.Shapes))
	}
}

func TestRender_BisexualFlag(t *testing.T) {
	img := Render(model.ColorList{"D60270", "D60270", "9B4F96", "0038A8", "0038A8"})

	want := []struct {
		fill model.Color
		y    float64
	}{
		{"D60270", 0},
		{"9B4F96", 120},
		{"0038A8", 180},
	}
	if len(img.Shapes) != len(want) {
		t.Fatalf("expected %d shapes, got %d", len(want), len(img.Shapes))
	}
	for i, w := range want {
		if img.Shapes[i].Fill != w.fill || !approx(img.Shapes[i].Y, w.y) {
			t.Errorf("shape %d = %+v, want fill %s at y=%v", i, img.Shapes[i], w.fill, w.y)
		}
	}
}

func TestRender_DeterministicAndPure(t *testing.T) {
	colors := model.ColorList{"000000", "A4A4A4", "FFFFFF", "810081"}
	snapshot := colors.Clone()

	a := Render(colors)
	b := Render(colors)

	if !reflect.DeepEqual(a, b) {
		t.Error("Render is not deterministic")
	}
	if !reflect.DeepEqual(colors, snapshot) {
		t.Errorf("Render mutated its input: %v", colors)
	}
}
