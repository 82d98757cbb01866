package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the operational field configuration: which season's object set is
// in play, where game pieces start, and which simulated opponents to run.
// Swapping seasons (different game pieces per year) is a config change, not a
// code change.
type Config struct {
	Version     string             `yaml:"version" json:"version"`
	ConfigID    string             `yaml:"config_id" json:"config_id"`
	LastUpdated string             `yaml:"lastUpdated" json:"lastUpdated"`
	RobotID     string             `yaml:"robot_id" json:"robot_id"`
	Season      string             `yaml:"season" json:"season"`
	Field       FieldDimensions    `yaml:"field" json:"field"`
	RobotStart  PoseConfig         `yaml:"robot_start" json:"robot_start"`
	ObjectTypes []ObjectTypeConfig `yaml:"object_types" json:"object_types"`
	GamePieces  []PlacementConfig  `yaml:"game_pieces" json:"game_pieces"`
	Opponents   []OpponentConfig   `yaml:"opponents" json:"opponents"`
	Defaults    DefaultsConfig     `yaml:"defaults" json:"defaults"`
}

// FieldDimensions describes the playing field, in meters.
type FieldDimensions struct {
	Length float64 `yaml:"length" json:"length"`
	Width  float64 `yaml:"width" json:"width"`
}

// PoseConfig is a planar pose in config form. Theta is in radians.
type PoseConfig struct {
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y" json:"y"`
	Theta float64 `yaml:"theta" json:"theta"`
}

// ObjectTypeConfig declares one trackable object category for the season.
type ObjectTypeConfig struct {
	Name     string `yaml:"name" json:"name"`
	Color    string `yaml:"color,omitempty" json:"color,omitempty"`
	MaxCount int    `yaml:"max_count,omitempty" json:"max_count,omitempty"`
}

// PlacementConfig is one game piece's starting position.
type PlacementConfig struct {
	Type string     `yaml:"type" json:"type"`
	Pose PoseConfig `yaml:"pose" json:"pose"`
}

// OpponentConfig declares one simulated opponent robot.
type OpponentConfig struct {
	ID           string     `yaml:"id" json:"id"`
	Start        PoseConfig `yaml:"start" json:"start"`
	PatrolRadius float64    `yaml:"patrol_radius" json:"patrol_radius"`
	SpeedMps     float64    `yaml:"speed_mps" json:"speed_mps"`
}

// DefaultsConfig holds fallback values applied to object types.
type DefaultsConfig struct {
	Color    string `yaml:"color" json:"color"`
	MaxCount int    `yaml:"max_count" json:"max_count"`
}

// LoadConfig loads the operational field configuration from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

// GetObjectType returns the declared object type with defaults applied.
func (c *Config) GetObjectType(name string) (ObjectTypeConfig, bool) {
	for _, objectType := range c.ObjectTypes {
		if objectType.Name == name {
			return applyDefaults(objectType, c.Defaults), true
		}
	}
	return ObjectTypeConfig{}, false
}

// ObjectTypeNames returns the declared type names in config order.
func (c *Config) ObjectTypeNames() []string {
	names := make([]string, 0, len(c.ObjectTypes))
	for _, objectType := range c.ObjectTypes {
		names = append(names, objectType.Name)
	}
	return names
}

// PlacementsByType returns the starting placements for one object type.
func (c *Config) PlacementsByType(typeName string) []PlacementConfig {
	var result []PlacementConfig
	for _, placement := range c.GamePieces {
		if placement.Type == typeName {
			result = append(result, placement)
		}
	}
	return result
}

// applyDefaults merges default values into an object type where fields are empty
func applyDefaults(objectType ObjectTypeConfig, defaults DefaultsConfig) ObjectTypeConfig {
	result := objectType

	if result.Color == "" {
		result.Color = defaults.Color
	}
	if result.MaxCount == 0 {
		result.MaxCount = defaults.MaxCount
	}

	return result
}
