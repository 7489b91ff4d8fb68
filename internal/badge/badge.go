// Package badge loads badge definitions from a YAML or JSON file.
package badge

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// file is the on-disk layout. A bare list of badges is accepted as well.
type file struct {
	Badges []domain.Badge `yaml:"badges"`
}

// Load reads badge definitions from path. An empty path yields no badges.
// JSON files parse as YAML.
func Load(path string) ([]domain.Badge, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read badge file %s", path)
	}

	defs, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse badge file %s", path)
	}
	return defs, nil
}

// Parse decodes and validates badge definitions, keeping their order.
func Parse(data []byte) ([]domain.Badge, error) {
	var defs []domain.Badge

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "invalid badge document")
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Content[0].Decode(&defs); err != nil {
			return nil, errors.Wrap(err, "invalid badge list")
		}
	case yaml.MappingNode:
		var f file
		if err := node.Content[0].Decode(&f); err != nil {
			return nil, errors.Wrap(err, "invalid badge file")
		}
		defs = f.Badges
	default:
		return nil, errors.New("badge document must be a list or a mapping with a badges key")
	}

	if err := Validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// Validate checks names are present and unique and thresholds are positive.
// A metric outside the known counters is allowed; it always reads as zero, so
// such a badge can never be earned and is only logged.
func Validate(defs []domain.Badge) error {
	seen := make(map[string]struct{}, len(defs))
	for i, b := range defs {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return errors.Errorf("badge %d: name is required", i+1)
		}
		if _, dup := seen[name]; dup {
			return errors.Errorf("badge %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		if b.Threshold <= 0 {
			return errors.Errorf("badge %q: threshold must be positive", name)
		}
		if !domain.Counter(b.Metric).Valid() {
			slog.Warn("badge uses unknown metric",
				slog.String("badge", name),
				slog.String("metric", b.Metric))
		}
	}
	return nil
}
