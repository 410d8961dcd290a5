package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one file in the output manifest.
type ManifestEntry struct {
	File          string     `json:"file"`
	Format        string     `json:"format,omitempty"`
	TriangleCount int        `json:"triangle_count"`
	BoundsMin     [3]float32 `json:"bounds_min"`
	BoundsMax     [3]float32 `json:"bounds_max"`
	HasWarnings   bool       `json:"has_warnings"`
	Error         string     `json:"error,omitempty"`
}

// WriteManifest writes a JSON manifest of scan results to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			File:  filepath.Base(r.Path),
			Error: r.Error,
		}
		if r.Success {
			entries[i].Format = r.Summary.Format
			entries[i].TriangleCount = r.Summary.TriangleCount
			entries[i].BoundsMin = [3]float32(r.Summary.Bounds.Min)
			entries[i].BoundsMax = [3]float32(r.Summary.Bounds.Max)
			entries[i].HasWarnings = r.Summary.HasWarnings
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
