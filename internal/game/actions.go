package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/circle-expandable/internal/render"
	"github.com/iburimskiy/circle-expandable/internal/widget"
)

var errNotANumber = errors.New("node index must be a whole number")

// dialogs are the native prompts the screen opens. Both return
// zenity.ErrCanceled when the user backs out.
type dialogs interface {
	nodeIndex(current int) (string, error)
	iconFile() (string, error)
}

type zenityDialogs struct{}

func (zenityDialogs) nodeIndex(current int) (string, error) {
	return zenity.Entry("Index of the node to highlight (-1 clears):",
		zenity.Title("Select node"),
		zenity.EntryText(strconv.Itoa(current)),
	)
}

func (zenityDialogs) iconFile() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Icon"),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
}

// syncFromWidget refreshes the screen-side mirror. A widget that is still
// animating closed counts as collapsed so the toggle offers Expand.
func (g *Game) syncFromWidget() {
	g.nodeCount = g.widget.NodeCount()
	switch g.widget.Phase() {
	case widget.Expanded, widget.Expanding:
		g.expanded = true
	default:
		g.expanded = false
	}
}

func (g *Game) addNode() error {
	g.nodeCount++
	g.widget.SetNodeCount(g.nodeCount)
	return nil
}

func (g *Game) removeNode() error {
	if g.nodeCount > 0 {
		g.nodeCount--
		g.widget.SetNodeCount(g.nodeCount)
	}
	return nil
}

func (g *Game) toggleExpanded() error {
	g.expanded = !g.expanded
	if g.expanded {
		g.widget.Expand()
	} else {
		g.widget.Collapse()
	}
	return nil
}

func (g *Game) rotateClockwise() error {
	g.widget.RotateClockwise()
	return nil
}

func (g *Game) rotateCounterClockwise() error {
	g.widget.RotateCounterClockwise()
	return nil
}

func (g *Game) selectFromDialog() error {
	text, err := g.dialogs.nodeIndex(g.widget.SelectedIndex())
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return g.selectIndex(text)
}

func (g *Game) selectIndex(text string) error {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("%w: %q", errNotANumber, text)
	}
	g.widget.SetSelectedIndex(i)
	return nil
}

func (g *Game) iconFromDialog() error {
	path, err := g.dialogs.iconFile()
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	g.log.Info("switching icon", "path", path)
	g.widget.SetIconLoader(render.FileIcon(path))
	return nil
}
