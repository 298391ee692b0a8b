package table

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Source)
)

// Register adds a source factory to the registry.
// Called by source implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a source factory by name.
func Get(name string) (func(*slog.Logger) Source, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// NewSource creates a source by name. A nil logger discards output.
func NewSource(name string, logger *slog.Logger) (Source, error) {
	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownSourceError{
			Name:      name,
			Available: ListSources(),
		}
	}
	return factory(discardIfNil(logger)), nil
}

// ListSources returns all registered source names (sorted).
func ListSources() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a source name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownSourceError is returned when an unknown source is requested.
type UnknownSourceError struct {
	Name      string
	Available []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown table source %q\nAvailable sources: %v\nHint: Check dataset.source in gdpplot.yaml", e.Name, e.Available)
}
