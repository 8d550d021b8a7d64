package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// lookupValue walks the marshaled form of cfg so that every yaml key is
// addressable without a hand-maintained switch.
func lookupValue(cfg *Config, path string) (any, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	cur := &node
	for _, part := range strings.Split(path, ".") {
		if cur.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(cur.Content); i += 2 {
			if cur.Content[i].Value == part {
				next = cur.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		cur = next
	}
	var out any
	if err := cur.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return out, nil
}
