package system

import (
	"log"
	"path/filepath"

	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/ecs/entity"
	"github.com/milk9111/abilitysystem/prefabs"
)

// ReloadSystem rebuilds characters whose prefab or ability scripts changed.
// Changed paths arrive on a channel, usually prefabs.Watcher.Events.
type ReloadSystem struct {
	changes <-chan string
	opts    entity.CharacterOptions
}

func NewReloadSystem(changes <-chan string, opts entity.CharacterOptions) *ReloadSystem {
	return &ReloadSystem{changes: changes, opts: opts}
}

func (s *ReloadSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.collect(w)

	var pending []ecs.Entity
	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, _ *component.ReloadRequest) {
		pending = append(pending, e)
	})
	for _, e := range pending {
		req, _ := ecs.Get(w, e, component.ReloadRequestComponent.Kind())
		_ = ecs.Remove(w, e, component.ReloadRequestComponent.Kind())
		if err := entity.RebuildCharacter(w, e, s.opts); err != nil {
			log.Printf("reload: entity=%s %s: %v", e, req.Path, err)
			continue
		}
		log.Printf("reload: entity=%s rebuilt from %s", e, req.Path)
		w.Events().Push(ecs.Event{Type: ecs.EventPrefabReloaded, Data: entity.AbilityEvent{Entity: e, Ability: filepath.Base(req.Path)}})
	}
}

// collect turns pending file changes into reload requests without blocking.
func (s *ReloadSystem) collect(w *ecs.World) {
	if s.changes == nil {
		return
	}
	for {
		select {
		case path, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			s.request(w, path)
		default:
			return
		}
	}
}

func (s *ReloadSystem) request(w *ecs.World, path string) {
	base := filepath.Base(path)
	script := prefabs.IsScriptFile(path)
	ecs.ForEach(w, component.AbilitySystemComponent.Kind(), func(e ecs.Entity, as *component.AbilitySystem) {
		if as.Prefab == "" {
			return
		}
		if script || filepath.Base(as.Prefab) == base {
			_ = ecs.Add(w, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{Path: path})
		}
	})
}
