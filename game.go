package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/ecs/entity"
	"github.com/milk9111/abilitysystem/ecs/system"
	"github.com/milk9111/abilitysystem/prefabs"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

const tagStunned ability.Tag = "State.Stunned"

type Game struct {
	frames int

	world   *ecs.World
	player  ecs.Entity
	colors  map[string]color.Color
	watcher *prefabs.Watcher

	clipboardOK bool
	status      string
}

func NewGame(character string, strict, watch bool) (*Game, error) {
	spec, err := prefabs.LoadCharacterSpec(character)
	if err != nil {
		return nil, err
	}

	opts := entity.CharacterOptions{
		Logger:    log.Default(),
		Strict:    strict,
		Global:    ability.NewGlobalAbilitySystem(),
		Behaviors: system.ScriptBehaviors(),
	}

	w := ecs.NewWorld()
	player, err := entity.BuildCharacterFromSpec(w, spec, character, opts)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:  w,
		player: player,
		colors: abilityColors(spec),
	}

	if watch {
		watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("game: hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
			w.AddSystemPhase(ecs.PhaseInput, system.NewReloadSystem(watcher.Events, opts))
		}
	}
	w.AddSystemPhase(ecs.PhaseInput, system.NewInputSystem(NewEbitenKeys()))
	w.AddSystemPhase(ecs.PhaseAbilities, system.NewAbilityInputSystem())
	w.AddSystemPhase(ecs.PhaseAbilities, system.NewAbilityTickSystem())
	w.AddSystemPhase(ecs.PhaseReport, system.NewAbilityTraceSystem())

	if err := clipboard.Init(); err != nil {
		log.Printf("game: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}
	return g, nil
}

func abilityColors(spec prefabs.CharacterSpec) map[string]color.Color {
	out := make(map[string]color.Color, len(spec.Abilities))
	for _, a := range spec.Abilities {
		if a.Color != nil && a.Color.Color != nil {
			out[a.Name] = a.Color.Color
		}
	}
	return out
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) abilitySystem() *ability.System {
	as, ok := ecs.Get(g.world, g.player, component.AbilitySystemComponent.Kind())
	if !ok {
		return nil
	}
	return as.System
}

func (g *Game) Update() error {
	g.frames++

	if sys := g.abilitySystem(); sys != nil {
		g.handleDebugKeys(sys)
	}
	g.world.Update()
	return nil
}

// handleDebugKeys drives the owner-side collaborators the core never touches
// on its own: owner tags, the input block and bulk cancellation.
func (g *Game) handleDebugKeys(sys *ability.System) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		if sys.HasMatchingTag(tagStunned) {
			sys.RemoveLooseTag(tagStunned)
			g.status = "stun off"
		} else {
			sys.AddLooseTag(tagStunned)
			g.status = "stun on"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		if err := sys.RemoveDynamicTagEffect(ability.TagAbilityInputBlocked); err == nil {
			g.status = "input unblocked"
		} else if err := sys.AddDynamicTagEffect(ability.TagAbilityInputBlocked); err != nil {
			g.status = err.Error()
		} else {
			g.status = "input blocked"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		sys.CancelInputActivatedAbilities(false)
		g.status = "cancelled input abilities"
	case inpututil.IsKeyJustPressed(ebiten.KeyF4):
		g.copyTrace()
	}
}

func (g *Game) copyTrace() {
	trace, ok := ecs.Get(g.world, g.player, component.AbilityTraceComponent.Kind())
	if !ok || len(trace.Lines) == 0 {
		g.status = "trace empty"
		return
	}
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(strings.Join(trace.Lines, "\n")))
	g.status = fmt.Sprintf("copied %d trace lines", len(trace.Lines))
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawOverlay(screen, g)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
