package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	character := flag.String("character", "character.yaml", "character prefab in prefabs/")
	strict := flag.Bool("strict", false, "panic on ability precondition violations")
	watch := flag.Bool("watch", false, "hot reload prefabs/ and prefabs/scripts/ on change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("abilitysystem")

	game, err := NewGame(*character, *strict, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
