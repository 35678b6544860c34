// Package builtin embeds the stock scenarios and registers them.
// Import it for side effects.
package builtin

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/scenario"
)

//go:embed *.yaml
var files embed.FS

func init() {
	entries, err := files.ReadDir(".")
	if err != nil {
		panic(fmt.Sprintf("builtin: %v", err))
	}
	for _, e := range entries {
		name := e.Name()
		id := strings.TrimSuffix(name, path.Ext(name))
		registry.Register(id, loader(name))
	}
}

// loader parses the embedded file on every call so each caller gets its
// own scenario value.
func loader(name string) registry.Factory {
	return func() (scenario.Scenario, error) {
		data, err := files.ReadFile(name)
		if err != nil {
			return scenario.Scenario{}, err
		}
		s, err := scenario.Parse(data)
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("%s: %w", name, err)
		}
		s.FilePath = "builtin/" + name
		return s, nil
	}
}
