// Package config - Profile management
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Profile is a named set of filter settings merged over the config file.
// On disk it is a partial config document, so it may also override
// provider, log or ui keys.
type Profile struct {
	Name        string       `yaml:"-"`
	Description string       `yaml:"description,omitempty"`
	Filter      FilterConfig `yaml:"filter"`
}

func profilePath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(GetConfigPaths().ProfileDir, name+".yaml"), nil
}

// ListProfiles returns all available profile names
func ListProfiles() ([]string, error) {
	entries, err := os.ReadDir(GetConfigPaths().ProfileDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var profiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			profiles = append(profiles, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	sort.Strings(profiles)
	return profiles, nil
}

// GetProfile loads a profile by name
func GetProfile(name string) (*Profile, error) {
	path, err := profilePath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	profile := &Profile{Name: name}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile, nil
}

// SaveProfile writes a profile, replacing any existing one with that name
func SaveProfile(profile *Profile) error {
	path, err := profilePath(profile.Name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DeleteProfile removes a profile
func DeleteProfile(name string) error {
	path, err := profilePath(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// ProfileExists checks if a profile exists
func ProfileExists(name string) bool {
	path, err := profilePath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// mergeProfile layers the named profile over what v already holds
func mergeProfile(v *viper.Viper, name string) error {
	path, err := profilePath(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile '%s' not found", name)
		}
		return fmt.Errorf("failed to read profile %s: %w", name, err)
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse profile %s: %w", name, err)
	}
	return nil
}
