package game

import (
	"github.com/iburimskiy/circle-expandable/internal/config"
)

// button is a clickable rectangle. label is evaluated every frame so toggles
// can show what they will do next.
type button struct {
	label   func() string
	x, y    int
	w, h    int
	pitch   float64
	enabled func() bool
	onClick func() error

	hovered bool
	pressed bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

func (b *button) isEnabled() bool {
	return b.enabled == nil || b.enabled()
}

func staticLabel(s string) func() string {
	return func() string { return s }
}

// layoutButtons places buttons left to right, wrapping into a new row once
// perRow is reached.
func layoutButtons(buttons []*button, perRow int) {
	for i, b := range buttons {
		col, row := i%perRow, i/perRow
		b.x = config.ButtonX + col*(config.ButtonWidth+config.ButtonGap)
		b.y = config.ButtonY + row*(config.ButtonHeight+config.ButtonGap)
		b.w = config.ButtonWidth
		b.h = config.ButtonHeight
	}
}

func (g *Game) newButtons() []*button {
	buttons := []*button{
		{label: staticLabel("+ Node"), pitch: 1.0, onClick: g.addNode},
		{
			label:   staticLabel("- Node"),
			pitch:   0.8,
			enabled: func() bool { return g.nodeCount > 0 },
			onClick: g.removeNode,
		},
		{
			label: func() string {
				if g.expanded {
					return "Collapse"
				}
				return "Expand"
			},
			pitch:   1.25,
			onClick: g.toggleExpanded,
		},
		{label: staticLabel("Rotate CW"), pitch: 1.5, onClick: g.rotateClockwise},
		{label: staticLabel("Rotate CCW"), pitch: 1.4, onClick: g.rotateCounterClockwise},
		{label: staticLabel("Select..."), pitch: 1.1, onClick: g.selectFromDialog},
		{label: staticLabel("Icon..."), pitch: 0.9, onClick: g.iconFromDialog},
	}
	layoutButtons(buttons, 5)
	return buttons
}
