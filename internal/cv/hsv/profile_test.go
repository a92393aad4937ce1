package hsv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blue.yaml")
	data := `profile:
  name: blue
  bands:
    - name: standard
      lower: {h: 100, s: 50, v: 50}
      upper: {h: 130, s: 255, v: 255}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}

	if profile.Name != "blue" {
		t.Errorf("Expected name 'blue', got '%s'", profile.Name)
	}
	if len(profile.Bands) != 1 {
		t.Fatalf("Expected 1 band, got %d", len(profile.Bands))
	}
	if profile.Bands[0].Lower.H != 100 || profile.Bands[0].Upper.H != 130 {
		t.Errorf("Unexpected band: %+v", profile.Bands[0])
	}
	// not present in file, default kept
	if profile.KernelSize != 3 {
		t.Errorf("Expected default kernel size 3, got %d", profile.KernelSize)
	}
}

func TestParseProfileRejectsInvertedBand(t *testing.T) {
	data := `profile:
  bands:
    - name: broken
      lower: {h: 90, s: 0, v: 0}
      upper: {h: 30, s: 255, v: 255}
`
	if _, err := ParseProfile([]byte(data)); err == nil {
		t.Error("Expected error for lower bound above upper bound")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
