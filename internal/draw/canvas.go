package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters used to compose sub-pixels into terminal cells.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockLight     = '░'
)

// cell is what ends up in one terminal position.
type cell struct {
	ch    rune
	color Color
}

// staleCell never matches a real cell, so it forces a rewrite on the next Render.
var staleCell = cell{ch: -1}

// pixel is one half-height sub-pixel.
type pixel struct {
	set   bool
	color Color
}

// Canvas is a frame buffer with two layers: half-block sub-pixels (2x vertical
// resolution) for particles and shots, and a glyph layer for text and sprites
// that wins over pixels. Render only emits cells that changed since the
// previous frame, which keeps SSH traffic small.
//
// Game objects draw in logical coordinates; the canvas scales them to the
// terminal size.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int

	pixels []pixel // [y*termWidth + x], y in sub-pixels
	glyphs []cell  // [row*termWidth + col]
	prev   []cell  // last rendered frame

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	// 0-based terminal offsets for centering on large terminals.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that maps a logicalWidth x logicalHeight
// coordinate space onto a termWidth x termHeight terminal.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]pixel, c.subPixelHeight*termWidth)
	c.glyphs = make([]cell, termHeight*termWidth)
	c.prev = make([]cell, termHeight*termWidth)
	c.ForceRedraw()
	c.updateScale()
}

func (c *Canvas) updateScale() {
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// Resize updates the canvas for new terminal dimensions while keeping the logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.allocate(termWidth, termHeight)
	}
}

// SetOffset sets the 0-based column and row offset used for centering.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render rewrite every cell.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = staleCell
	}
}

// MarkTextDirty invalidates n cells starting at the 1-based canvas position
// (col, row). Use it after writing overlay text outside the canvas so the
// canvas repaints those cells next frame.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for i := 0; i < n; i++ {
		x := col - 1 + i
		if x < 0 || x >= c.termWidth {
			continue
		}
		c.prev[r*c.termWidth+x] = staleCell
	}
}

// Clear resets both layers.
func (c *Canvas) Clear() {
	clear(c.pixels)
	clear(c.glyphs)
}

func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = pixel{set: true, color: color}
	}
}

// SetFloat sets a sub-pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64, color Color) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), color)
}

// DrawLine draws a sub-pixel line using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1 := int(math.Floor(p1.X * c.scaleX))
	y1 := int(math.Floor(p1.Y * c.scaleY))
	x2 := int(math.Floor(p2.X * c.scaleX))
	y2 := int(math.Floor(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, color)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// cellAt converts logical coordinates to a 0-based terminal cell.
func (c *Canvas) cellAt(x, y float64) (col, row int) {
	col = int(math.Floor(x * c.scaleX))
	row = int(math.Floor(y*c.scaleY)) / 2
	return col, row
}

func (c *Canvas) setGlyph(col, row int, r rune, color Color) {
	if col >= 0 && col < c.termWidth && row >= 0 && row < c.termHeight {
		c.glyphs[row*c.termWidth+col] = cell{ch: r, color: color}
	}
}

// SetGlyph places a single-width rune at logical coordinates.
func (c *Canvas) SetGlyph(x, y float64, r rune, color Color) {
	col, row := c.cellAt(x, y)
	c.setGlyph(col, row, r, color)
}

// SetText writes s centered horizontally on the logical x coordinate.
func (c *Canvas) SetText(x, y float64, s string, color Color) {
	col, row := c.cellAt(x, y)
	col -= utf8.RuneCountInString(s) / 2
	for _, r := range s {
		c.setGlyph(col, row, r, color)
		col++
	}
}

// SetTextAt writes s starting at the 0-based terminal cell (col, row).
func (c *Canvas) SetTextAt(col, row int, s string, color Color) {
	for _, r := range s {
		c.setGlyph(col, row, r, color)
		col++
	}
}

// maxChunkSize is the largest single write; it keeps SSH packets near one MTU.
const maxChunkSize = 1400

// compose returns the final content of terminal cell (col, row).
func (c *Canvas) compose(col, row int) cell {
	if g := c.glyphs[row*c.termWidth+col]; g.ch != 0 {
		return g
	}
	top := c.pixels[row*2*c.termWidth+col]
	var bottom pixel
	if row*2+1 < c.subPixelHeight {
		bottom = c.pixels[(row*2+1)*c.termWidth+col]
	}
	switch {
	case top.set && bottom.set:
		if top.color == bottom.color {
			return cell{ch: BlockFull, color: top.color}
		}
		return cell{ch: BlockUpperHalf, color: top.color}
	case top.set:
		return cell{ch: BlockUpperHalf, color: top.color}
	case bottom.set:
		return cell{ch: BlockLowerHalf, color: bottom.color}
	default:
		return cell{ch: ' '}
	}
}

// Render writes the cells that changed since the previous Render.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		run := false // cursor already positioned after the previous cell
		for col := 0; col < c.termWidth; col++ {
			idx := row*c.termWidth + col
			out := c.compose(col, row)
			if out == c.prev[idx] {
				run = false
				continue
			}
			c.prev[idx] = out

			if !run {
				c.moveCursor(col+1, row+1)
				run = true
			}
			if out.color != ColorDefault {
				c.renderBuf.WriteString(string(out.color))
				c.renderBuf.WriteRune(out.ch)
				c.renderBuf.WriteString(string(ColorReset))
			} else {
				c.renderBuf.WriteRune(out.ch)
			}
		}
	}

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box around the canvas when it is offset inside a larger
// terminal. Horizontal bars need a row offset, vertical bars a column offset.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return nil
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(left, top) + "┌" + bar + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + bar + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + bar)
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas position.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	col, row = c.cellAt(x, y)
	return col + 1, row + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
