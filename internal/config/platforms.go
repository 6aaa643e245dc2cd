package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Platform is a target platform for generated content. Empty instructions
// select the built-in prompt for the platform name.
type Platform struct {
	Name         string `yaml:"name"`
	Instructions string `yaml:"instructions"`
	MaxTokens    int    `yaml:"max_tokens"`
}

// platformsFile is the on-disk layout of PLATFORMS_FILE.
type platformsFile struct {
	Platforms []Platform `yaml:"platforms"`
}

// ErrNoPlatforms is returned when a platforms file lists nothing.
var ErrNoPlatforms = errors.New("platforms file lists no platforms")

// ParsePlatforms parses a comma-separated list of platform names.
func ParsePlatforms(s string) []Platform {
	names := splitList(s)
	platforms := make([]Platform, 0, len(names))
	for _, name := range names {
		platforms = append(platforms, Platform{Name: strings.ToLower(name)})
	}
	return platforms
}

// LoadPlatformsFile reads per-platform prompts from a YAML file.
func LoadPlatformsFile(path string) ([]Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platforms file: %w", err)
	}
	return ParsePlatformsYAML(data)
}

// ParsePlatformsYAML decodes the platforms file format:
//
//	platforms:
//	  - name: linkedin
//	    instructions: Write a professional post.
//	    max_tokens: 400
func ParsePlatformsYAML(data []byte) ([]Platform, error) {
	var file platformsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse platforms file: %w", err)
	}

	seen := make(map[string]bool, len(file.Platforms))
	platforms := make([]Platform, 0, len(file.Platforms))
	for i, p := range file.Platforms {
		p.Name = strings.ToLower(strings.TrimSpace(p.Name))
		if p.Name == "" {
			return nil, fmt.Errorf("parse platforms file: entry %d has no name", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("parse platforms file: duplicate platform %q", p.Name)
		}
		if p.MaxTokens < 0 {
			return nil, fmt.Errorf("parse platforms file: %s: max_tokens must not be negative", p.Name)
		}
		seen[p.Name] = true
		p.Instructions = strings.TrimSpace(p.Instructions)
		platforms = append(platforms, p)
	}
	if len(platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	return platforms, nil
}
