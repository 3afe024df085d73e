package domain

// RGBA color for symbol styling.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Symbol describes how a graphic is drawn on the map surface.
type Symbol struct {
	Kind    string `json:"kind"` // "marker" or "fill"
	Color   Color  `json:"color"`
	Outline Color  `json:"outline"`
	Size    int    `json:"size,omitempty"`
}

// Fixed symbology for the demo: every click marker and every service-area
// polygon uses the same style.
var (
	ClickMarkerSymbol = Symbol{
		Kind:    "marker",
		Color:   Color{R: 255, G: 0, B: 0, A: 255},
		Outline: Color{R: 0, G: 0, B: 0, A: 255},
		Size:    10,
	}
	ServiceAreaFillSymbol = Symbol{
		Kind:    "fill",
		Color:   Color{R: 0, G: 0, B: 255, A: 64},
		Outline: Color{R: 0, G: 0, B: 255, A: 192},
	}
)

// Graphic is one drawable overlay: either a point or a polygon, with a symbol.
type Graphic struct {
	Point   *Coordinates `json:"point,omitempty"`
	Polygon *Polygon     `json:"polygon,omitempty"`
	Symbol  Symbol       `json:"symbol"`
}

// GraphicsLayer holds the ordered overlay graphics of the map surface.
// It has no internal locking: the interaction controller mutates it only on
// its event loop.
type GraphicsLayer struct {
	graphics []Graphic
}

func NewGraphicsLayer() *GraphicsLayer {
	return &GraphicsLayer{graphics: make([]Graphic, 0, 8)}
}

// Clear removes all graphics.
func (l *GraphicsLayer) Clear() {
	l.graphics = l.graphics[:0]
}

// Add appends a graphic. Later additions draw on top of earlier ones.
func (l *GraphicsLayer) Add(g Graphic) {
	l.graphics = append(l.graphics, g)
}

// Len reports the number of graphics on the layer.
func (l *GraphicsLayer) Len() int { return len(l.graphics) }

// Snapshot returns a copy of the current graphics in draw order.
func (l *GraphicsLayer) Snapshot() []Graphic {
	return append([]Graphic(nil), l.graphics...)
}
