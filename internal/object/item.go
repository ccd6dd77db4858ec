package object

import (
	"math"

	"github.com/tomz197/earthkeeper/internal/draw"
	"github.com/tomz197/earthkeeper/internal/physics"
)

// Category is the kind of junk a falling item represents.
type Category int

const (
	CategoryBottle Category = iota
	CategoryCan
	CategoryBag
	CategoryPaper
	CategoryCup
	CategoryBattery
	CategoryBarrel
	CategoryOil
)

// NormalCategories can spawn as regular junk.
var NormalCategories = []Category{CategoryBottle, CategoryCan, CategoryBag, CategoryPaper, CategoryCup}

// HazardCategories can spawn as toxic junk.
var HazardCategories = []Category{CategoryBattery, CategoryBarrel, CategoryOil}

var categoryNames = map[Category]string{
	CategoryBottle:  "bottle",
	CategoryCan:     "can",
	CategoryBag:     "bag",
	CategoryPaper:   "paper",
	CategoryCup:     "cup",
	CategoryBattery: "battery",
	CategoryBarrel:  "barrel",
	CategoryOil:     "oil",
}

// Two frames per category; the item flips between them as it rotates.
var categoryGlyphs = map[Category][2]rune{
	CategoryBottle:  {'i', '!'},
	CategoryCan:     {'u', 'n'},
	CategoryBag:     {'&', '8'},
	CategoryPaper:   {'#', '='},
	CategoryCup:     {'U', 'V'},
	CategoryBattery: {'±', '∓'},
	CategoryBarrel:  {'@', 'Ø'},
	CategoryOil:     {'%', '¤'},
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "junk"
}

// Item drift stays inside these horizontal bounds.
const (
	ItemMinX = 2.0
	ItemMaxX = 98.0
)

// Item is a piece of falling junk.
type Item struct {
	ID            int
	X, Y          float64
	Category      Category
	Speed         float64 // Units per frame
	Hazard        bool
	Rotation      float64 // Radians
	RotationSpeed float64 // Radians per frame
	WindDrift     float64 // How strongly the shared wind pushes this item
	Resolved      bool    // Crossed the catch line as a miss; keeps falling until gone
}

// Update moves the item down, drifts it with the wind and spins it.
// Returns true once it has left the bottom of the field.
func (it *Item) Update(ctx UpdateContext) bool {
	it.Y += it.Speed * ctx.Scale
	it.X = physics.Clamp(it.X+ctx.Wind*it.WindDrift*ctx.Scale, ItemMinX, ItemMaxX)
	it.Rotation = math.Mod(it.Rotation+it.RotationSpeed*ctx.Scale, 2*math.Pi)
	return it.Y > FieldHeight
}

// Draw renders the item glyph. Missed items are dimmed.
func (it *Item) Draw(ctx DrawContext) {
	frames, ok := categoryGlyphs[it.Category]
	if !ok {
		frames = [2]rune{'?', '?'}
	}
	frame := 0
	if math.Sin(it.Rotation) < 0 {
		frame = 1
	}

	color := draw.ColorYellow
	switch {
	case it.Resolved:
		color = draw.ColorDim
	case it.Hazard:
		color = draw.ColorBrightRed
	}
	ctx.Canvas.SetGlyph(it.X, it.Y, frames[frame], color)
}
