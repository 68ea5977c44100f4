package treeio

import (
	"github.com/BurntSushi/toml"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// configFile mirrors the TOML spacing-configuration schema. Pointer fields
// distinguish "omitted, keep the default" from an explicit zero.
type configFile struct {
	SiblingSeparation *float64 `toml:"sibling_separation"`
	SubtreeSeparation *float64 `toml:"subtree_separation"`
	LevelSeparation   *float64 `toml:"level_separation"`
	MaxDepth          *int     `toml:"max_depth"`
	NodeSize          *float64 `toml:"node_size"`
	MinX              *float64 `toml:"min_x"`
	MaxX              *float64 `toml:"max_x"`
	MinY              *float64 `toml:"min_y"`
	MaxY              *float64 `toml:"max_y"`
}

// LoadConfig reads a TOML spacing configuration from the file at path,
// applying the standard defaults to omitted keys, and validates the result.
func LoadConfig(path string) (walker.Config, error) {
	var file configFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return walker.Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "load config %s", path)
	}

	cfg := bonsai.DefaultConfig()
	if file.SiblingSeparation != nil {
		cfg.SiblingSeparation = *file.SiblingSeparation
	}
	if file.SubtreeSeparation != nil {
		cfg.SubtreeSeparation = *file.SubtreeSeparation
	}
	if file.LevelSeparation != nil {
		cfg.LevelSeparation = *file.LevelSeparation
	}
	if file.MaxDepth != nil {
		cfg.MaxDepth = *file.MaxDepth
	}
	if file.NodeSize != nil {
		cfg.NodeSize = *file.NodeSize
	}
	if file.MinX != nil {
		cfg.MinX = *file.MinX
	}
	if file.MaxX != nil {
		cfg.MaxX = *file.MaxX
	}
	if file.MinY != nil {
		cfg.MinY = *file.MinY
	}
	if file.MaxY != nil {
		cfg.MaxY = *file.MaxY
	}

	if err := cfg.Validate(); err != nil {
		return walker.Config{}, err
	}
	return cfg, nil
}
