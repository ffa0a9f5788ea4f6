package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Dir        string `yaml:"dir" validate:"required|unixPath"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CollaboratorConfig points at the HTTP API that resolves a platform username
// into solved-problem counts. Endpoints maps a platform name to its stats path;
// platforms without an entry are reported as unsupported.
type CollaboratorConfig struct {
	BaseURL   string            `yaml:"baseURL" validate:"required|fullUrl"`
	Timeout   time.Duration     `yaml:"timeout" validate:"required|min:1"`
	Endpoints map[string]string `yaml:"endpoints"`
	UserAgent string            `yaml:"userAgent"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver" validate:"required|in:file,redis"`
	FilePath string `yaml:"filePath"`
	RedisURL string `yaml:"redisURL"`
	Prefix   string `yaml:"prefix"`
}

type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	AppName      string
	Debug        bool
	Path         string
	WebServer    Server             `yaml:"webServer"`
	Logger       LoggerConfig       `yaml:"logger"`
	Cache        CacheConfig        `yaml:"cache"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Collaborator CollaboratorConfig `yaml:"collaborator"`
	Storage      StorageConfig      `yaml:"storage"`
	Refresh      RefreshConfig      `yaml:"refresh"`
}
