package component

// ReloadRequest is a marker component used to signal that the entity's
// character prefab changed on disk. ReloadSystem consumes it and rebuilds the
// entity's ability system.
type ReloadRequest struct {
	Path string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
