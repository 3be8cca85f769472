package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bandlife/internal/core"
)

// File is the YAML form of a seed. Either Rows spells out the whole grid or
// Side plus Alive lists the live cells as [row, col] pairs.
type File struct {
	Side  int      `yaml:"side"`
	Rows  []string `yaml:"rows"`
	Alive [][2]int `yaml:"alive"`
}

// Decode builds a grid from YAML data.
func Decode(data []byte) (*core.Grid, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if len(f.Rows) > 0 {
		g, err := ParseRows(f.Rows)
		if err != nil {
			return nil, err
		}
		if f.Side != 0 && f.Side != g.Side {
			return nil, fmt.Errorf("seed: side %d does not match %d rows", f.Side, g.Side)
		}
		return g, nil
	}
	if f.Side <= 0 {
		return nil, fmt.Errorf("seed: either rows or a positive side is required")
	}
	for _, c := range f.Alive {
		if c[0] < 0 || c[0] >= f.Side || c[1] < 0 || c[1] >= f.Side {
			return nil, fmt.Errorf("seed: cell %v outside a %dx%d grid", c, f.Side, f.Side)
		}
	}
	return place(f.Side, f.Alive), nil
}

// LoadFile reads and decodes a YAML seed file.
func LoadFile(path string) (*core.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return Decode(data)
}
