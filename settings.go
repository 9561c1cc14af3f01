package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/chazu/tenon/pkg/solid"
	toml "github.com/pelletier/go-toml/v2"
)

// settingsFile is looked up in the working directory at startup.
const settingsFile = "tenon.toml"

// defaultMeshCells is the marching cubes resolution used when the
// settings file does not override it.
const defaultMeshCells = 200

// Settings holds the user-tunable application configuration.
type Settings struct {
	// MeshCells is the marching cubes resolution of the sdfx kernel.
	MeshCells int `toml:"mesh_cells"`
	// Smoothness is the default fn/fa/fs applied to every evaluation.
	Smoothness solid.Smoothness `toml:"smoothness"`
}

// DefaultSettings returns the configuration used without a settings file.
func DefaultSettings() Settings {
	return Settings{
		MeshCells:  defaultMeshCells,
		Smoothness: solid.DefaultSmoothness(),
	}
}

// LoadSettings reads a TOML settings file. A missing file is not an
// error: the defaults apply. A malformed file returns the defaults
// alongside the parse error so the app can still start.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, err
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), err
	}
	if s.MeshCells <= 0 {
		s.MeshCells = defaultMeshCells
	}
	return s, nil
}
