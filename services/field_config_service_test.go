package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

const validFieldConfig = `
version: "1.0"
config_id: "initial"
robot_id: "robot-5516"
season: "Crescendo2024"
object_types:
  - name: "Note"
    color: "orange"
game_pieces:
  - type: "Note"
    pose: {x: 2.9, y: 7.0, theta: 0.0}
`

func writeFieldConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "field_config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write field config: %v", err)
	}
	return path
}

func TestFieldConfigServiceLoad(t *testing.T) {
	path := writeFieldConfig(t, validFieldConfig)

	service, err := NewFieldConfigService(path, customlog.NewNopLogger())
	if err != nil {
		t.Fatalf("NewFieldConfigService failed: %v", err)
	}

	cfg := service.GetCurrentConfig()
	if cfg == nil {
		t.Fatalf("No config loaded")
	}
	if cfg.Season != "Crescendo2024" {
		t.Errorf("Expected season Crescendo2024, got %s", cfg.Season)
	}
}

func TestFieldConfigServiceUpdateStampsRevision(t *testing.T) {
	path := writeFieldConfig(t, validFieldConfig)
	service, err := NewFieldConfigService(path, customlog.NewNopLogger())
	if err != nil {
		t.Fatalf("NewFieldConfigService failed: %v", err)
	}

	updated := strings.Replace(validFieldConfig, "Crescendo2024", "Reefscape2025", 1)
	if err := service.UpdateConfig([]byte(updated)); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	cfg := service.GetCurrentConfig()
	if cfg.Season != "Reefscape2025" {
		t.Errorf("Expected updated season, got %s", cfg.Season)
	}
	if cfg.ConfigID == "initial" || cfg.ConfigID == "" {
		t.Errorf("Update did not stamp a fresh config ID: %q", cfg.ConfigID)
	}

	// The stamped revision must be what landed on disk.
	persisted, err := service.GetCurrentConfigYAML()
	if err != nil {
		t.Fatalf("GetCurrentConfigYAML failed: %v", err)
	}
	if !strings.Contains(string(persisted), cfg.ConfigID) {
		t.Errorf("Persisted config does not contain the stamped ID %s", cfg.ConfigID)
	}
}

func TestFieldConfigServiceRejectsInvalidUpdates(t *testing.T) {
	path := writeFieldConfig(t, validFieldConfig)
	service, err := NewFieldConfigService(path, customlog.NewNopLogger())
	if err != nil {
		t.Fatalf("NewFieldConfigService failed: %v", err)
	}

	cases := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", ": not yaml ["},
		{"missing season", "robot_id: robot-5516\n"},
		{"undeclared piece type", `
robot_id: "robot-5516"
season: "Crescendo2024"
game_pieces:
  - type: "Cargo"
    pose: {x: 1.0, y: 1.0, theta: 0.0}
`},
	}

	for _, tc := range cases {
		err := service.UpdateConfig([]byte(tc.yaml))
		if err == nil {
			t.Errorf("%s: UpdateConfig accepted an invalid config", tc.name)
			continue
		}
		if !IsValidationError(err) {
			t.Errorf("%s: expected a validation error, got %v", tc.name, err)
		}
	}

	// The valid config survives every rejected update.
	if got := service.GetCurrentConfig().Season; got != "Crescendo2024" {
		t.Errorf("Rejected update replaced the active config: season = %s", got)
	}
}
