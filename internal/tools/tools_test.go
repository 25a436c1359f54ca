package tools

import (
	"image/color"
	"testing"
)

func TestDefaults(t *testing.T) {
	m := New()
	st := m.State()
	if st.Tool != Pencil || st.Shape != Line {
		t.Fatalf("unexpected default tool state %+v", st)
	}
	if st.Thickness != Medium {
		t.Fatalf("expected medium thickness, got %d", st.Thickness)
	}
	if m.ThicknessLabel() != "medium" {
		t.Fatalf("expected medium label, got %q", m.ThicknessLabel())
	}
}

func TestInvalidSelectionsKeepState(t *testing.T) {
	m := New()
	before := m.State()
	if m.SelectTool(Tool(42)) {
		t.Fatalf("invalid tool accepted")
	}
	if m.SelectShape(Shape(-1)) {
		t.Fatalf("invalid shape accepted")
	}
	if m.SelectThickness(7) {
		t.Fatalf("thickness outside the palette accepted")
	}
	if m.SelectThicknessIndex(99) {
		t.Fatalf("thickness index out of range accepted")
	}
	if m.SelectColor(color.RGBA{R: 10, A: 100}) {
		t.Fatalf("translucent color accepted")
	}
	if m.SelectColorName("not-a-color") {
		t.Fatalf("unknown color name accepted")
	}
	if got := m.State(); got != before {
		t.Fatalf("state changed: %+v -> %+v", before, got)
	}
}

func TestShapesResetToLine(t *testing.T) {
	m := New()
	m.SelectShape(Circle)
	if st := m.State(); st.Tool != Shapes || st.Shape != Circle {
		t.Fatalf("unexpected state %+v", st)
	}
	m.SelectTool(Pencil)
	m.SelectTool(Shapes)
	if st := m.State(); st.Shape != Line {
		t.Fatalf("expected line after reselecting shapes, got %v", st.Shape)
	}
}

func TestBeforeSwitchRunsOnlyOnToolChange(t *testing.T) {
	var calls []string
	m := New(WithBeforeSwitch(func(from, to Tool) { calls = append(calls, from.String()+">"+to.String()) }))
	m.SelectColorName("blue")
	m.SelectThickness(10)
	m.SelectTool(Pencil)
	m.SelectTool(Text)
	m.SelectTool(Text)
	m.SelectTool(Brush)
	want := []string{"pencil>text", "text>brush"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestChangeListener(t *testing.T) {
	var got []State
	m := New(WithChangeListener(func(_, next State) { got = append(got, next) }))
	m.SelectColorName("Blue")
	m.SelectColorName("Blue")
	if len(got) != 1 {
		t.Fatalf("expected a single change, got %d", len(got))
	}
	if got[0].Color != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("unexpected color %+v", got[0].Color)
	}
}

func TestWidthMultipliers(t *testing.T) {
	tests := []struct {
		tool Tool
		want int
	}{
		{Pencil, 5},
		{Brush, 10},
		{Eraser, 20},
		{Shapes, 5},
	}
	for _, tt := range tests {
		st := State{Tool: tt.tool, Thickness: 5}
		if got := st.Width(); got != tt.want {
			t.Errorf("%v width = %d, want %d", tt.tool, got, tt.want)
		}
	}
}

func TestLookupColor(t *testing.T) {
	p := DefaultPalette()
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"Navy", color.RGBA{0, 0, 128, 255}, true},
		{"coral", color.RGBA{255, 127, 80, 255}, true},
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 255}, true},
		{"#1020", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := LookupColor(p, tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("LookupColor(%q) = %+v,%v want %+v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestThicknessesFromWidths(t *testing.T) {
	got := ThicknessesFromWidths([]int{10, 3, 0, 10, 5})
	want := []Thickness{{"3px", 3}, {"medium", 5}, {"large", 10}}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	m := New(WithThicknesses(got))
	if m.State().Thickness != 5 {
		t.Fatalf("expected nearest medium width, got %d", m.State().Thickness)
	}
}
