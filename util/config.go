package util

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const Name = "bnotas"
const ConfigFileName = "config.yaml"

// DefaultApiUrl is used when neither the config file nor the environment
// names a backend.
const DefaultApiUrl = "http://127.0.0.1:4040/api"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		ApiUrl         string `yaml:"apiUrl"`
		Host           string
		SshPort        int    `yaml:"sshPort"`
		HttpPort       int    `yaml:"httpPort"`
		PublicUrl      string `yaml:"publicUrl"`
		Database       string
		LogFile        string `yaml:"logFile"`
		RequestTimeout int    `yaml:"requestTimeout"`
	}
}

// Timeout is the per-request deadline for calls to the notes API.
func (c *AppConfig) Timeout() time.Duration {
	if c.Conf.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Conf.RequestTimeout) * time.Second
}

// BaseURL is where the companion web server is reachable, used in feed links.
func (c *AppConfig) BaseURL() string {
	if c.Conf.PublicUrl != "" {
		return strings.TrimRight(c.Conf.PublicUrl, "/")
	}
	return fmt.Sprintf("http://%s:%d", c.Conf.Host, c.Conf.HttpPort)
}

func ReadConf() (*AppConfig, error) {

	// .env is optional, real environment variables win over it
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	c := &AppConfig{}

	configPath := ResolveFilePath(ConfigFileName)

	buf, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Config file not found at %s, using embedded defaults", configPath)
		buf = embeddedConfig

		configDir, dirErr := GetConfigDir()
		if dirErr == nil {
			userConfigPath := configDir + "/" + ConfigFileName
			writeErr := os.WriteFile(userConfigPath, embeddedConfig, 0644)
			if writeErr != nil {
				log.Printf("Warning: could not write default config to %s: %v", userConfigPath, writeErr)
			} else {
				log.Printf("Created default config file at %s", userConfigPath)
			}
		}
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	if v := os.Getenv("BNOTAS_API_URL"); v != "" {
		c.Conf.ApiUrl = v
	}
	if v := os.Getenv("BNOTAS_HOST"); v != "" {
		c.Conf.Host = v
	}
	if v := os.Getenv("BNOTAS_PUBLIC_URL"); v != "" {
		c.Conf.PublicUrl = v
	}
	if v := os.Getenv("BNOTAS_DATABASE"); v != "" {
		c.Conf.Database = v
	}
	if v := os.Getenv("BNOTAS_LOGFILE"); v != "" {
		c.Conf.LogFile = v
	}
	envInt("BNOTAS_SSHPORT", &c.Conf.SshPort)
	envInt("BNOTAS_HTTPPORT", &c.Conf.HttpPort)
	envInt("BNOTAS_TIMEOUT", &c.Conf.RequestTimeout)

	if c.Conf.ApiUrl == "" {
		c.Conf.ApiUrl = DefaultApiUrl
	}
	c.Conf.ApiUrl = strings.TrimRight(c.Conf.ApiUrl, "/")
	if c.Conf.Database == "" {
		c.Conf.Database = "bnotas.db"
	}

	return c, nil
}

// envInt overrides target with an integer environment variable. Values that
// do not parse are logged and ignored.
func envInt(key string, target *int) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, raw, err)
		return
	}
	*target = v
}
