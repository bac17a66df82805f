package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SquareFill/internal/model"
)

// DefaultProfilesPath returns the default file path for custom profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.yaml")
}

// SaveCustomProfiles saves custom profiles to a YAML file.
func SaveCustomProfiles(path string, profiles []model.Profile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a YAML file.
// Returns an empty slice if the file does not exist. Fields a profile
// leaves out keep their DefaultSettings value.
func LoadCustomProfiles(path string) ([]model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Profile{}, nil
		}
		return nil, err
	}

	var raw []yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	profiles := make([]model.Profile, 0, len(raw))
	for i := range raw {
		p, err := decodeProfile(&raw[i])
		if err != nil {
			return nil, fmt.Errorf("%s: profile %d: %w", filepath.Base(path), i+1, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// decodeProfile decodes over a default profile so partial settings work.
func decodeProfile(node *yaml.Node) (model.Profile, error) {
	profile := model.Profile{Settings: model.DefaultSettings()}
	if err := node.Decode(&profile); err != nil {
		return model.Profile{}, err
	}
	// Ensure loaded profiles are not marked as built-in
	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.Profile{}, errors.New("profile has no name")
	}
	return profile, nil
}

// LoadCustomProfilesFromDefault loads custom profiles from the default path
// and registers them with the model.
func LoadCustomProfilesFromDefault() ([]model.Profile, error) {
	profiles, err := LoadCustomProfiles(DefaultProfilesPath())
	if err != nil {
		return nil, err
	}
	model.CustomProfiles = profiles
	return profiles, nil
}

// SaveCustomProfilesToDefault saves custom profiles to the default path.
func SaveCustomProfilesToDefault(profiles []model.Profile) error {
	return SaveCustomProfiles(DefaultProfilesPath(), profiles)
}

// ExportProfile exports a single profile to a YAML file (for sharing).
func ExportProfile(path string, profile model.Profile) error {
	profile.IsBuiltIn = false
	data, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a YAML file.
func ImportProfile(path string) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return model.Profile{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(node.Content) == 0 {
		return model.Profile{}, errors.New("imported profile is empty")
	}
	profile, err := decodeProfile(node.Content[0])
	if err != nil {
		return model.Profile{}, fmt.Errorf("imported profile: %w", err)
	}
	return profile, nil
}
