package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
)

// Config holds the osconnect service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	OpenSearch OpenSearchConfig `yaml:"opensearch"`
	Search     SearchConfig     `yaml:"search"`
	Export     ExportConfig     `yaml:"export"`
	UI         UIConfig         `yaml:"ui"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	// File enables a size-rotated log file next to stderr output.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AuthConfig holds the optional basic-auth gate in front of the UI and API.
// Both fields empty disables it.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Realm    string `yaml:"realm"`
}

// Enabled reports whether basic auth is configured.
func (a AuthConfig) Enabled() bool {
	return a.Username != "" || a.Password != ""
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// OpenSearchConfig holds cluster connection settings.
type OpenSearchConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Index       string `yaml:"index"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	UseSSL      bool   `yaml:"use_ssl"`
	VerifyCerts bool   `yaml:"verify_certs"`
	CACerts     string `yaml:"ca_certs"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	// ReadinessTimeout bounds the startup wait for the cluster. 0 skips the wait.
	ReadinessTimeout int `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds query and projection settings.
type SearchConfig struct {
	TimeoutSec int          `yaml:"timeout_sec"`
	Columns    []string     `yaml:"columns"`
	DateFields []string     `yaml:"date_fields"`
	Fields     query.Fields `yaml:"fields"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	MaxRecords int    `yaml:"max_records"`
	Filename   string `yaml:"filename"`
}

// UIConfig holds the choices offered by the search form.
type UIConfig struct {
	Title         string   `yaml:"title"`
	Regions       []string `yaml:"regions"`
	BusinessAreas []string `yaml:"business_areas"`
	DataSources   []string `yaml:"data_sources"`
}

// Load reads configuration from a YAML file by environment name (local, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	// Searches may run up to 5 minutes.
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 310
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.OpenSearch.Port <= 0 {
		c.OpenSearch.Port = 9200
	}
	if c.OpenSearch.TimeoutSec <= 0 {
		c.OpenSearch.TimeoutSec = 30
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 300
	}
	if len(c.Search.Columns) == 0 {
		c.Search.Columns = []string{"tradeID", "tradeIdInternal", "primaryAssetClass", "sourceSystemName", "tradeDate"}
	}
	if c.Search.DateFields == nil {
		c.Search.DateFields = []string{"tradeDate"}
	}
	def := query.DefaultFields()
	if c.Search.Fields.Region == "" {
		c.Search.Fields.Region = def.Region
	}
	if c.Search.Fields.BusinessArea == "" {
		c.Search.Fields.BusinessArea = def.BusinessArea
	}
	if c.Search.Fields.EntityName == "" {
		c.Search.Fields.EntityName = def.EntityName
	}
	if c.Search.Fields.DataSource == "" {
		c.Search.Fields.DataSource = def.DataSource
	}
	if c.Search.Fields.Date == "" {
		c.Search.Fields.Date = def.Date
	}
	if c.Export.MaxRecords <= 0 {
		c.Export.MaxRecords = request.MaxPageSize
	}
	if c.Export.Filename == "" {
		c.Export.Filename = "opensearch_results.csv"
	}
	if c.Auth.Realm == "" {
		c.Auth.Realm = "osconnect"
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB <= 0 {
			c.Logging.MaxSizeMB = 100
		}
		if c.Logging.MaxBackups <= 0 {
			c.Logging.MaxBackups = 3
		}
		if c.Logging.MaxAgeDays <= 0 {
			c.Logging.MaxAgeDays = 28
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.OpenSearch.Host == "" {
		return fmt.Errorf("opensearch.host is required")
	}
	if c.OpenSearch.Port <= 0 || c.OpenSearch.Port > 65535 {
		return fmt.Errorf("opensearch.port must be between 1 and 65535, got %d", c.OpenSearch.Port)
	}
	if c.OpenSearch.Index == "" {
		return fmt.Errorf("opensearch.index is required")
	}
	if c.OpenSearch.Username == "" || c.OpenSearch.Password == "" {
		return fmt.Errorf("opensearch.username and opensearch.password are required")
	}
	if c.Export.MaxRecords > request.MaxPageSize {
		return fmt.Errorf("export.max_records must not exceed %d, got %d", request.MaxPageSize, c.Export.MaxRecords)
	}
	if c.Auth.Enabled() && (c.Auth.Username == "" || c.Auth.Password == "") {
		return fmt.Errorf("auth.username and auth.password must be set together")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
