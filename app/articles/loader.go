package articles

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// SourceCache loads source definitions from a directory of YAML files and
// serves them to the scheduler and API
type SourceCache struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewSourceCache(sourcesDir string) *SourceCache {
	return &SourceCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive source name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		name := strings.TrimSuffix(fileName, ".yml")

		source, err := sc.loadFile(file, name)
		if err != nil {
			slog.Warn("Skipping invalid source config", "file", fileName, "error", err)
			continue
		}

		sc.mu.Lock()
		sc.cache[name] = source
		sc.mu.Unlock()
	}

	return nil
}

func (sc *SourceCache) loadFile(path string, name string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw rawSource
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if raw.URL == "" {
		return nil, fmt.Errorf("source config has no url")
	}

	return raw.resolve(name), nil
}

func (sc *SourceCache) GetSource(name string) (*Source, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	source, ok := sc.cache[name]
	if !ok {
		return nil, fmt.Errorf("source %s not found", name)
	}

	return source, nil
}

func (sc *SourceCache) GetSources() []*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sources := make([]*Source, 0, len(sc.cache))
	for _, source := range sc.cache {
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})

	return sources
}

func (sc *SourceCache) GetEnabledSources() []*Source {
	var enabled []*Source
	for _, source := range sc.GetSources() {
		if source.Settings.Enabled {
			enabled = append(enabled, source)
		}
	}
	return enabled
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return len(sc.cache)
}
