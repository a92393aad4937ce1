package hsv

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// profileFile is the on-disk layout of a color profile
type profileFile struct {
	Profile Profile `yaml:"profile"`
}

// LoadProfile reads a color profile from a YAML file.
// Fields left out of the file keep their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML color profile
func ParseProfile(data []byte) (Profile, error) {
	file := profileFile{Profile: DefaultProfile()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Profile{}, fmt.Errorf("failed to unmarshal profile YAML: %w", err)
	}
	if err := file.Profile.Validate(); err != nil {
		return Profile{}, err
	}
	return file.Profile, nil
}
