package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	ModeDev     = "dev"
	ModeRelease = "release"
)

type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"user"`
	Password    string `yaml:"password"`
	DBName      string `yaml:"dbname"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type BootstrapAdmin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	ServiceName  string `yaml:"service_name"`
}

type Config struct {
	Version        string          `yaml:"version"`
	Mode           string          `yaml:"mode"`
	Server         ServerConfig    `yaml:"server"`
	DB             DatabaseConfig  `yaml:"database"`
	Certificate    Certs           `yaml:"certificate"`
	Auth           AuthConfig      `yaml:"auth"`
	BootstrapAdmin BootstrapAdmin  `yaml:"bootstrap_admin"`
	CORS           CORSConfig      `yaml:"cors"`
	Log            LogConfig       `yaml:"log"`
	Telemetry      TelemetryConfig `yaml:"telemetry"`
}

func Defaults() Config {
	return Config{
		Mode:   ModeDev,
		Server: ServerConfig{Addr: ":8443"},
		DB:     DatabaseConfig{Driver: DriverMySQL, Port: 3306},
		Auth:   AuthConfig{TokenTTL: 24 * time.Hour},
		Log:    LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{
			ServiceName: "itam-backend",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// 環境変数が設定ファイルより優先
func (c *Config) applyEnv() error {
	envString("ITAM_MODE", &c.Mode)
	envString("ITAM_ADDR", &c.Server.Addr)
	envString("ITAM_DB_DRIVER", &c.DB.Driver)
	envString("ITAM_DB_HOST", &c.DB.Host)
	envString("ITAM_DB_USER", &c.DB.Username)
	envString("ITAM_DB_PASSWORD", &c.DB.Password)
	envString("ITAM_DB_NAME", &c.DB.DBName)
	envString("ITAM_JWT_SECRET", &c.Auth.JWTSecret)
	envString("LOG_LEVEL", &c.Log.Level)
	envString("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Telemetry.OTLPEndpoint)

	if v := os.Getenv("ITAM_DB_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ITAM_DB_PORT が不正: %q", v)
		}
		c.DB.Port = n
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		c.Telemetry.Insecure = strings.EqualFold(v, "true")
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDev, ModeRelease:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	switch c.DB.Driver {
	case DriverMySQL:
		if c.DB.Host == "" || c.DB.DBName == "" {
			return fmt.Errorf("database.host and database.dbname are required for the mysql driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMySQL, DriverMemory, c.DB.Driver)
	}
	if c.Mode == ModeRelease && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required in release mode")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}
