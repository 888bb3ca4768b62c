package layout

// IconSpec is one icon to pack: the catalogue kind plus its size.
type IconSpec struct {
	Kind   string
	Width  float64
	Height float64
}

// PlacedIcon is a packed icon with its computed x position. Y placement is
// row-specific and left to the caller.
type PlacedIcon struct {
	Kind   string
	X      float64
	Width  float64
	Height float64
}

// PackIcons lays icons out right-to-left inside a bounded width. The cursor
// starts at containerWidth-rightMargin; each icon lands at cursor-width and
// the cursor retreats by width+gap. Icons are consumed in the caller's
// priority order, so the first spec ends up rightmost.
//
// No clamping: if the icons outrun the container the x positions go
// negative. Containers are sized so this does not happen in practice.
func PackIcons(containerWidth, rightMargin, gap float64, icons []IconSpec) []PlacedIcon {
	placed := make([]PlacedIcon, 0, len(icons))
	cursor := containerWidth - rightMargin
	for _, ic := range icons {
		placed = append(placed, PlacedIcon{
			Kind:   ic.Kind,
			X:      cursor - ic.Width,
			Width:  ic.Width,
			Height: ic.Height,
		})
		cursor -= ic.Width + gap
	}
	return placed
}
