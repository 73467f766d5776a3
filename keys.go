package main

import (
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var mouseButtons = map[string]ebiten.MouseButton{
	"mouseleft":   ebiten.MouseButtonLeft,
	"mouseright":  ebiten.MouseButtonRight,
	"mousemiddle": ebiten.MouseButtonMiddle,
}

// EbitenKeys is a system.KeySource backed by ebiten keyboard and mouse state. Key
// names use ebiten's key names ("Space", "ShiftLeft", "R") or MouseLeft,
// MouseRight and MouseMiddle.
type EbitenKeys struct {
	keys    map[string]ebiten.Key
	unknown map[string]bool
}

func NewEbitenKeys() *EbitenKeys {
	return &EbitenKeys{keys: map[string]ebiten.Key{}, unknown: map[string]bool{}}
}

func (k *EbitenKeys) JustPressed(name string) bool {
	if btn, ok := mouseButtons[strings.ToLower(name)]; ok {
		return inpututil.IsMouseButtonJustPressed(btn)
	}
	if key, ok := k.resolve(name); ok {
		return inpututil.IsKeyJustPressed(key)
	}
	return false
}

func (k *EbitenKeys) JustReleased(name string) bool {
	if btn, ok := mouseButtons[strings.ToLower(name)]; ok {
		return inpututil.IsMouseButtonJustReleased(btn)
	}
	if key, ok := k.resolve(name); ok {
		return inpututil.IsKeyJustReleased(key)
	}
	return false
}

func (k *EbitenKeys) resolve(name string) (ebiten.Key, bool) {
	if key, ok := k.keys[name]; ok {
		return key, true
	}
	if k.unknown[name] {
		return 0, false
	}
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(name)); err != nil {
		log.Printf("input: unknown key binding %q: %v", name, err)
		k.unknown[name] = true
		return 0, false
	}
	k.keys[name] = key
	return key, true
}
