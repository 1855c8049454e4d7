package backend

import (
	"sort"
	"sync"

	"github.com/cmstack/s3vfs"
)

var mmu sync.RWMutex
var m map[string]vfs.FileSystem

// Register a configured filesystem under its uri scheme. The sign endpoint
// and stream handling look stores up by the scheme of the destination path.
func Register(scheme string, v vfs.FileSystem) {
	mmu.Lock()
	m[scheme] = v
	mmu.Unlock()
}

// Unregister removes the filesystem registered for scheme, if any.
func Unregister(scheme string) {
	mmu.Lock()
	delete(m, scheme)
	mmu.Unlock()
}

// UnregisterAll removes all registered filesystems.
func UnregisterAll() {
	// mainly for tests
	mmu.Lock()
	m = make(map[string]vfs.FileSystem)
	mmu.Unlock()
}

// Backend returns the filesystem registered for scheme, or nil.
func Backend(scheme string) vfs.FileSystem {
	mmu.RLock()
	defer mmu.RUnlock()
	return m[scheme]
}

// RegisteredBackends returns the sorted schemes with a registered filesystem.
func RegisteredBackends() []string {
	var f []string
	mmu.RLock()
	for k := range m {
		f = append(f, k)
	}
	mmu.RUnlock()
	sort.Strings(f)
	return f
}

func init() {
	m = make(map[string]vfs.FileSystem)
}
