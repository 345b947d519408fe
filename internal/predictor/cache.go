package predictor

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pylimer/polymer-predictor/internal/nn"
)

// LoadedModel bundles a ready-to-use inference engine with the metadata
// describing its feature axes and scalers.
type LoadedModel struct {
	Engine   nn.Engine
	Metadata *nn.Metadata
}

// ModelCache caches loaded models keyed by model path for the lifetime of
// the process; entries are never invalidated. Concurrent first requests for
// the same path are coalesced behind a single in-flight load, so a cache hit
// never re-invokes the loader.
type ModelCache struct {
	mu     sync.RWMutex
	models map[string]*LoadedModel
	group  singleflight.Group
	loader func(ModelConfig) (*LoadedModel, error)
}

// NewModelCache creates a cache backed by the default disk loader.
func NewModelCache() *ModelCache {
	return &ModelCache{
		models: make(map[string]*LoadedModel),
		loader: loadFromDisk,
	}
}

// Load returns the model for cfg, loading it on first request.
func (c *ModelCache) Load(cfg ModelConfig) (*LoadedModel, error) {
	c.mu.RLock()
	model, ok := c.models[cfg.ModelPath]
	c.mu.RUnlock()
	if ok {
		return model, nil
	}

	value, err, _ := c.group.Do(cfg.ModelPath, func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.models[cfg.ModelPath]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := c.loader(cfg)
		if err != nil {
			return nil, fmt.Errorf("load model %q (%s): %w", cfg.Name, cfg.ModelPath, err)
		}

		c.mu.Lock()
		c.models[cfg.ModelPath] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*LoadedModel), nil
}

func loadFromDisk(cfg ModelConfig) (*LoadedModel, error) {
	engine, err := nn.LoadMLP(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	meta, err := nn.LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}
	return &LoadedModel{Engine: engine, Metadata: meta}, nil
}
