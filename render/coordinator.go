// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"

	"github.com/dbarwick10/VoterTurnout/selection"
)

// Coordinator ties one selection to a renderer. Every mutation runs a full
// redraw of all maps and the panel.
type Coordinator struct {
	scene    *Scene
	state    *selection.State
	renderer Renderer
}

// NewCoordinator starts a selection at the scene defaults
func NewCoordinator(scene *Scene, r Renderer) *Coordinator {
	return &Coordinator{
		scene:    scene,
		state:    scene.NewState(),
		renderer: r,
	}
}

// Scene returns the shared scene
func (c *Coordinator) Scene() *Scene {
	return c.scene
}

// Snapshot returns the current selection
func (c *Coordinator) Snapshot() selection.Snapshot {
	return c.state.Snapshot()
}

// Redraw paints every map, then the panel
func (c *Coordinator) Redraw() error {
	snap := c.state.Snapshot()
	for _, m := range c.scene.Maps(snap) {
		if err := c.renderer.PaintMap(m); err != nil {
			return fmt.Errorf("failed to paint %s map: %w", m.Name, err)
		}
	}
	if err := c.renderer.PaintPanel(c.scene.Panel(snap)); err != nil {
		return fmt.Errorf("failed to paint panel: %w", err)
	}
	return nil
}

// SelectRegion selects or toggles a region, then redraws
func (c *Coordinator) SelectRegion(id string) error {
	if id != "" {
		if err := c.scene.CheckRegion(id); err != nil {
			return err
		}
	}
	c.state.SelectRegion(id)
	return c.Redraw()
}

// SelectCategory sets one slot's category, then redraws
func (c *Coordinator) SelectCategory(slot selection.Slot, category string) error {
	if err := c.scene.CheckCategory(category); err != nil {
		return err
	}
	if err := c.state.SelectCategory(slot, category); err != nil {
		return err
	}
	return c.Redraw()
}

// SelectPeriod sets one slot's period, returns to the whole territory and
// redraws. Categories are kept.
func (c *Coordinator) SelectPeriod(slot selection.Slot, period string) error {
	if err := c.scene.CheckPeriod(period); err != nil {
		return err
	}
	if err := c.state.SelectPeriod(slot, period); err != nil {
		return err
	}
	c.state.ClearRegion()
	return c.Redraw()
}
