package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestFileName is the fixed name of the run manifest inside a dataset dir.
const ManifestFileName = "manifest.json"

// Manifest records the parameters that produced a dataset, so results on
// disk can always be traced back to a reproducible run.
type Manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Seed        uint64    `json:"seed"`
	Start       string    `json:"start"`
	HorizonDays int       `json:"horizon_days"`
	Files       []string  `json:"files"`
}

// NewManifest builds a manifest for a run, stamped with the package clock.
func NewManifest(seed uint64, start time.Time, horizon int) Manifest {
	files := make([]string, 0, len(Variables()))
	for _, v := range Variables() {
		files = append(files, v.Spec().FileName)
	}
	return Manifest{
		GeneratedAt: clock.Now().UTC(),
		Seed:        seed,
		Start:       start.Format(DateLayout),
		HorizonDays: horizon,
		Files:       files,
	}
}

// WriteManifest persists the manifest into dir as indented JSON.
func WriteManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads the manifest from dir.
func ReadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
