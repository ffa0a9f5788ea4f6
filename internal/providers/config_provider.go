package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cpd/internal/structures"
)

const AppName = "CodingProgressDashboard"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.dir", "./logs")
	v.SetDefault("logger.maxSizeMB", 50)
	v.SetDefault("logger.maxBackups", 3)
	v.SetDefault("collaborator.baseURL", "http://localhost:8000")
	v.SetDefault("collaborator.timeout", 5*time.Second)
	v.SetDefault("collaborator.endpoints", map[string]string{
		"leetcode": "/api/leetcode/stats",
		"gfg":      "/api/gfg/stats",
	})
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.filePath", "./data/profile.dat")
	v.SetDefault("storage.prefix", "cpd:")
	v.SetDefault("cache.ttl", 30*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if flags.EnvFile != "" {
		// A missing .env is not an error; only malformed ones are.
		if err := godotenv.Load(flags.EnvFile); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "CPD_LOG_LEVEL")
	_ = v.BindEnv("webServer.port", "CPD_PORT")
	_ = v.BindEnv("collaborator.baseURL", "CPD_API_URL")
	_ = v.BindEnv("collaborator.timeout", "CPD_API_TIMEOUT")
	_ = v.BindEnv("storage.driver", "CPD_STORAGE_DRIVER")
	_ = v.BindEnv("storage.redisURL", "CPD_REDIS_URL")
	_ = v.BindEnv("cache.enabled", "CPD_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "CPD_CACHE_SIZE")
	_ = v.BindEnv("refresh.interval", "CPD_REFRESH_INTERVAL")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
