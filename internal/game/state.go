package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/circle-expandable/internal/config"
	"github.com/iburimskiy/circle-expandable/internal/widget"
)

// screenState is the screen's own part of the saved state. The widget wraps
// it as its opaque parent state.
type screenState struct {
	Expanded  bool `yaml:"expanded"`
	NodeCount int  `yaml:"node_count"`
}

func (g *Game) save() error {
	super, err := yaml.Marshal(screenState{Expanded: g.expanded, NodeCount: g.nodeCount})
	if err != nil {
		return fmt.Errorf("encode screen state: %w", err)
	}
	blob, err := g.widget.SaveState(super).MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode widget state: %w", err)
	}

	g.store.Put(config.StateViewKey, blob)
	if err := g.store.Save(); err != nil {
		return err
	}
	g.log.Info("state saved", "path", g.store.Path(), "nodes", g.nodeCount, "expanded", g.expanded)
	return nil
}

// restore applies a previously saved state. A damaged snapshot is logged and
// the widget keeps its configured state.
func (g *Game) restore() {
	blob, ok := g.store.Get(config.StateViewKey)
	if !ok {
		return
	}
	snap, err := widget.DecodeState(blob)
	if err != nil {
		g.log.Warn("discarding saved widget state", "err", err)
		return
	}

	super, _ := g.widget.RestoreState(snap).([]byte)
	g.syncFromWidget()
	if len(super) == 0 {
		return
	}

	var screen screenState
	if err := yaml.Unmarshal(super, &screen); err != nil {
		g.log.Warn("discarding saved screen state", "err", err)
		return
	}
	g.expanded = screen.Expanded
	g.nodeCount = screen.NodeCount
	g.log.Info("state restored", "nodes", g.nodeCount, "expanded", g.expanded, "selected", g.widget.SelectedIndex())
}
