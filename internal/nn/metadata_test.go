package nn

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMetadataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write metadata file: %v", err)
	}
	return path
}

func TestLoadMetadata(t *testing.T) {
	path := writeMetadataFile(t, `{
		"input_axes": ["r", "p", "b2"],
		"output_axes": ["g_entangled", "g_phantom", "w_dangling", "w_soluble"],
		"feature_scaler": {
			"scale_indices": [0, 1, 2],
			"means": [1, 0.9, 0.95],
			"scales": [0.1, 0.05, 0.1]
		},
		"target_scaler": {
			"log_indices": [0, 1],
			"means": [0, 0, 0, 0],
			"scales": [1, 1, 1, 1]
		}
	}`)

	meta, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}
	if len(meta.InputAxes) != 3 {
		t.Errorf("Expected 3 input axes, got %d", len(meta.InputAxes))
	}
	if meta.OutputAxes[0] != "g_entangled" {
		t.Errorf("Expected first output axis 'g_entangled', got %q", meta.OutputAxes[0])
	}
	if len(meta.FeatureScaler.Means) != 3 {
		t.Errorf("Expected 3 feature means, got %d", len(meta.FeatureScaler.Means))
	}
}

func TestLoadMetadataRejectsIncomplete(t *testing.T) {
	cases := []struct {
		name, content string
	}{
		{"no input axes", `{"output_axes": ["a"]}`},
		{"no output axes", `{"input_axes": ["a"]}`},
		{"bad feature scaler", `{
			"input_axes": ["a"], "output_axes": ["b"],
			"feature_scaler": {"scale_indices": [0], "means": [], "scales": []}
		}`},
		{"not json", `weights go here`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadMetadata(writeMetadataFile(t, tc.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadMetadataMissingFile(t *testing.T) {
	if _, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
