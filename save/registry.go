package save

import (
	"sync"

	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

// The registry and the media lock are the only process-wide state in
// this package. The registry is set exactly once at startup and never
// torn down; the media lock is acquired and released per session.
var (
	registryMutex sync.Mutex
	registered    hal.Backend

	// mediaLock guards "at most one live Access". It is only ever
	// TryLock'd: a second session must fail fast, not block, because
	// the competing caller may be an interrupt handler firing during
	// an in-flight hardware operation.
	mediaLock sync.Mutex
)

// SetBackend registers the process-wide save media backend.
//
// It must be called at most once, before any call to [New]. Calling it
// a second time, or with a nil backend, indicates a startup defect and
// panics rather than returning an error.
func SetBackend(backend hal.Backend) {
	if backend == nil {
		panic("save: SetBackend called with nil backend")
	}
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if registered != nil {
		panic("save: backend already registered")
	}
	registered = backend
	pkg.LogInfo(pkg.ComponentRegistry, "save backend registered")
}

// currentBackend returns the registered backend, or nil if none has
// been set yet.
func currentBackend() hal.Backend {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return registered
}

// lockMedia acquires the exclusivity lock, failing fast with
// pkg.ErrMediaInUse if another session holds it.
func lockMedia() error {
	if !mediaLock.TryLock() {
		return pkg.ErrMediaInUse
	}
	return nil
}

// unlockMedia releases the exclusivity lock.
func unlockMedia() {
	mediaLock.Unlock()
}
