package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)

	var first bytes.Buffer
	if err := c.Render(&first); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first.Len() == 0 {
		t.Fatal("first render should paint the whole canvas")
	}

	var second bytes.Buffer
	if err := c.Render(&second); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if second.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", second.String())
	}

	c.Clear()
	c.SetGlyph(55, 50, 'x', ColorRed)
	var third bytes.Buffer
	if err := c.Render(&third); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := third.String()
	if !strings.Contains(out, "\033[3;6H") {
		t.Errorf("expected cursor move to row 3 col 6, got %q", out)
	}
	if !strings.Contains(out, string(ColorRed)+"x"+string(ColorReset)) {
		t.Errorf("expected colored glyph, got %q", out)
	}
}

func TestCanvasComposeHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(0, 0, ColorGreen)
	c.SetFloat(1, 1, ColorGreen)
	c.SetFloat(2, 0, ColorGreen)
	c.SetFloat(2, 1, ColorGreen)

	if got := c.compose(0, 0); got.ch != BlockUpperHalf {
		t.Errorf("top pixel = %q, want %q", got.ch, BlockUpperHalf)
	}
	if got := c.compose(1, 0); got.ch != BlockLowerHalf {
		t.Errorf("bottom pixel = %q, want %q", got.ch, BlockLowerHalf)
	}
	if got := c.compose(2, 0); got.ch != BlockFull {
		t.Errorf("both pixels = %q, want %q", got.ch, BlockFull)
	}
	if got := c.compose(3, 0); got.ch != ' ' {
		t.Errorf("empty cell = %q, want space", got.ch)
	}
}

func TestCanvasMarkTextDirty(t *testing.T) {
	c := NewScaledCanvas(6, 2, 6, 4)
	_ = c.Render(&bytes.Buffer{})

	c.MarkTextDirty(2, 1, 3)
	var buf bytes.Buffer
	_ = c.Render(&buf)
	if got := strings.Count(buf.String(), " "); got != 3 {
		t.Errorf("repainted %d cells, want 3 (%q)", got, buf.String())
	}
}

func TestSetTextCentered(t *testing.T) {
	c := NewScaledCanvas(20, 2, 20, 4)
	c.SetText(10, 0, "abcd", ColorDefault)
	if got := c.compose(8, 0).ch; got != 'a' {
		t.Errorf("text starts with %q at col 8, want 'a'", got)
	}
	if got := c.compose(11, 0).ch; got != 'd' {
		t.Errorf("text ends with %q at col 11, want 'd'", got)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, max, width int
		want              string
	}{
		{100, 100, 4, "████"},
		{50, 100, 4, "██░░"},
		{1, 100, 4, "█░░░"},
		{0, 100, 4, "░░░░"},
	}
	for _, tt := range tests {
		if got := Bar(tt.value, tt.max, tt.width); got != tt.want {
			t.Errorf("Bar(%d,%d,%d) = %q, want %q", tt.value, tt.max, tt.width, got, tt.want)
		}
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 3)
	cw.WriteAt(1, 1, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, want := out.String(), "\033[4;3Hhi"; got != want {
		t.Errorf("WriteAt = %q, want %q", got, want)
	}
}
