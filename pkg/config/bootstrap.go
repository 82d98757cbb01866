package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BootstrapConfig holds the process-level configuration loaded from
// controller_config.yaml before anything else starts.
type BootstrapConfig struct {
	Logging LoggingConfig   `yaml:"logging"`
	Server  ServerConfig    `yaml:"server"`
	ZeroMQ  ZeroMQBootstrap `yaml:"zeromq"`
	Loop    LoopConfig      `yaml:"loop"`
	Data    DataConfig      `yaml:"data"`
}

// LoggingConfig holds logging settings from bootstrap
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path,omitempty"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// ZeroMQBootstrap holds the ZeroMQ socket settings
type ZeroMQBootstrap struct {
	RequestBindAddress  string `yaml:"request_bind_address"`
	PublishBindAddress  string `yaml:"publish_bind_address"`
	VisionSubscribeAddr string `yaml:"vision_subscribe_address,omitempty"`
	RecordQueueSize     int    `yaml:"record_queue_size"`
}

// LoopConfig holds the control cycle settings
type LoopConfig struct {
	PeriodMs int `yaml:"period_ms"`
}

// DataConfig holds data directory settings
type DataConfig struct {
	Directory       string `yaml:"directory"`
	FieldConfigFile string `yaml:"field_config_file"`
}

// LoadBootstrapConfig loads the bootstrap configuration from
// controller_config.yaml in the given directory.
func LoadBootstrapConfig(configDir string) (*BootstrapConfig, error) {
	bootstrapConfigPath := filepath.Join(configDir, "controller_config.yaml")

	data, err := os.ReadFile(bootstrapConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	var bootstrapCfg BootstrapConfig
	if err := yaml.Unmarshal(data, &bootstrapCfg); err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	if bootstrapCfg.ZeroMQ.RequestBindAddress == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: zeromq.request_bind_address")
	}
	if bootstrapCfg.ZeroMQ.PublishBindAddress == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: zeromq.publish_bind_address")
	}
	if bootstrapCfg.Data.Directory == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: data.directory")
	}
	if bootstrapCfg.Data.FieldConfigFile == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: data.field_config_file")
	}
	if bootstrapCfg.Loop.PeriodMs <= 0 {
		bootstrapCfg.Loop.PeriodMs = 20 // Standard 50 Hz control cycle
	}

	return &bootstrapCfg, nil
}
