package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	serverDefaultHost = ""
	serverDefaultPort = 5003

	// PortEnv overrides the configured API port.
	PortEnv = "BT_HWCONTROL_SERVER_PORT"
)

type Config struct {
	ServerConfig *ServerConfig `json:"server" yaml:"server"`
}

type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int32  `json:"port" yaml:"port"`
}

func (sc *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}

func Default() *Config {
	return &Config{
		ServerConfig: &ServerConfig{
			Host: serverDefaultHost,
			Port: serverDefaultPort,
		},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// skips the file. The port env variable wins over both.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config from %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("error parsing config from %s: %w", path, err)
		}

		if c.ServerConfig == nil {
			c.ServerConfig = Default().ServerConfig
		}
	}

	if port := os.Getenv(PortEnv); port != "" {
		p, err := strconv.ParseInt(port, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", PortEnv, port, err)
		}
		c.ServerConfig.Port = int32(p)
	}

	if c.ServerConfig.Port <= 0 || c.ServerConfig.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", c.ServerConfig.Port)
	}

	return c, nil
}
