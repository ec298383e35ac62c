// Package registry keeps the games a host can start in a channel.
// Games register themselves in init() functions, so the host discovers
// them by the chat command that opens them without a hardcoded list.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID      string
	Title   string
	Aliases []string // chat commands that open the game, without the "!" prefix
	Summary string
}

// Registry maps game IDs and aliases to factories of type F.
type Registry[F any] struct {
	mu        sync.RWMutex
	factories map[string]F
	infos     map[string]GameInfo
	aliases   map[string]string
}

// New creates an empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{
		factories: make(map[string]F),
		infos:     make(map[string]GameInfo),
		aliases:   make(map[string]string),
	}
}

// Register adds a game factory to the registry.
// Typically called from an init() function.
// Panics if the ID or one of the aliases is already taken.
func (r *Registry[F]) Register(info GameInfo, f F) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := normalize(info.ID)
	if id == "" {
		panic("registry: empty game id")
	}
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	if owner, exists := r.aliases[id]; exists {
		panic(fmt.Sprintf("registry: game id %q already used as an alias of %q", id, owner))
	}
	for _, a := range info.Aliases {
		a = normalize(a)
		if owner, exists := r.aliases[a]; exists && owner != id {
			panic(fmt.Sprintf("registry: alias %q already used by %q", a, owner))
		}
		if _, exists := r.factories[a]; exists {
			panic(fmt.Sprintf("registry: alias %q is a registered game id", a))
		}
	}

	info.ID = id
	r.factories[id] = f
	r.infos[id] = info
	r.aliases[id] = id
	for _, a := range info.Aliases {
		r.aliases[normalize(a)] = id
	}
}

// Lookup resolves an ID or alias, ignoring case and a leading "!".
func (r *Registry[F]) Lookup(name string) (GameInfo, F, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero F
	id, ok := r.aliases[normalize(name)]
	if !ok {
		return GameInfo{}, zero, false
	}
	return r.infos[id], r.factories[id], true
}

// List returns information about all registered games, sorted by ID.
func (r *Registry[F]) List() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]GameInfo, 0, len(r.infos))
	for _, info := range r.infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Exists checks if a game with the given ID or alias is registered.
func (r *Registry[F]) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.aliases[normalize(name)]
	return ok
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "!"))
}
