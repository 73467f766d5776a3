package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	rowHeight = 22
	barWidth  = 240
	barLeft   = 160
	listTop   = 80
)

var groupColors = [...]color.Color{
	ability.Independent:          colornames.Steelblue,
	ability.ExclusiveReplaceable: colornames.Goldenrod,
	ability.ExclusiveBlocking:    colornames.Crimson,
}

func drawOverlay(screen *ebiten.Image, g *Game) {
	screen.Fill(colornames.Black)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    [F1] stun  [F2] block input  [F3] cancel input abilities  [F4] copy trace", g.frames, ebiten.ActualFPS()))

	sys := g.abilitySystem()
	if sys == nil {
		return
	}

	tracker := sys.Tracker()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("groups: independent=%d replaceable=%d blocking=%d    tags: %s",
		tracker.Count(ability.Independent),
		tracker.Count(ability.ExclusiveReplaceable),
		tracker.Count(ability.ExclusiveBlocking),
		joinTags(sys.OwnedTags()),
	), 8, 24)
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 8, 44)
	}

	for i, spec := range sys.Registry().Specs() {
		def := spec.Definition()
		if def == nil {
			continue
		}
		y := float32(listTop + i*rowHeight)
		drawAbilityRow(screen, sys, spec, def, g.colors[def.Name], y)
	}

	trace, ok := ecs.Get(g.world, g.player, component.AbilityTraceComponent.Kind())
	if !ok {
		return
	}
	for i, line := range trace.Lines {
		ebitenutil.DebugPrintAt(screen, line, barLeft+barWidth+200, listTop+i*16)
	}
}

func drawAbilityRow(screen *ebiten.Image, sys *ability.System, spec *ability.Spec, def *ability.Definition, clr color.Color, y float32) {
	if clr == nil {
		clr = groupColors[def.ActivationGroup]
	}
	label := def.Name
	if spec.InputPressed {
		label += " *"
	}
	ebitenutil.DebugPrintAt(screen, label, 8, int(y))

	vector.StrokeRect(screen, barLeft, y, barWidth, rowHeight-6, 1, colornames.Dimgray, false)
	if spec.IsActive() {
		fill := float32(barWidth)
		if d := def.DurationFrames; d > 0 {
			insts := spec.Instances()
			if len(insts) > 0 {
				fill = barWidth * (1 - float32(insts[0].FramesActive())/float32(d))
			}
		}
		vector.FillRect(screen, barLeft, y, fill, rowHeight-6, clr, false)
	} else if cd := sys.CooldownRemaining(spec.Handle()); cd > 0 && def.CooldownFrames > 0 {
		fill := barWidth * float32(cd) / float32(def.CooldownFrames)
		vector.FillRect(screen, barLeft, y, fill, rowHeight-6, colornames.Gray, false)
	}

	status := fmt.Sprintf("%s  x%d", def.ActivationGroup, spec.ActiveCount())
	if sys.IsActivationGroupBlocked(def.ActivationGroup) && !spec.IsActive() {
		status += "  blocked"
	}
	ebitenutil.DebugPrintAt(screen, status, barLeft+barWidth+12, int(y))
}

func joinTags(tags ability.TagSet) string {
	if len(tags) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}
