package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	MOI      MOIConfig      `yaml:"moi"`
	Database DatabaseConfig `yaml:"database"`
	Summary  SummaryConfig  `yaml:"summary"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Env         string   `yaml:"env"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	Issuer        string `yaml:"issuer"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// LLMConfig points at an OpenAI-compatible chat completions endpoint.
// KeyHeader empty means "Authorization: Bearer <key>".
type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	KeyHeader      string `yaml:"key_header"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type MOIConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	CatalogID       int    `yaml:"catalog_id"`
	DatabaseID      int    `yaml:"database_id"`
	ProjectsTableID int    `yaml:"projects_table_id"`
	UpdatesTableID  int    `yaml:"updates_table_id"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type SummaryConfig struct {
	Coalesce bool `yaml:"coalesce"`
}

const defaultMOIBaseURL = "https://freetier-01.cn-hangzhou.cluster.cn-dev.matrixone.tech"

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000, Env: "development", CORSOrigins: []string{"*"}},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth:   AuthConfig{JWTSecret: "agilemate-dev-secret", Issuer: "agilemate", TokenTTLHours: 7 * 24},
		LLM: LLMConfig{
			BaseURL:        defaultMOIBaseURL + "/llm-proxy",
			Model:          "qwen-plus",
			KeyHeader:      "moi-key",
			TimeoutSeconds: 60,
		},
		MOI:      MOIConfig{BaseURL: defaultMOIBaseURL, CatalogID: 1},
		Database: DatabaseConfig{Port: 6001, Name: "agilemate", AutoMigrate: true},
		Summary:  SummaryConfig{Coalesce: true},
	}
}

// Load reads the first config file found, then .env, then individual env overrides.
// A missing file falls back to defaults; a file that does not parse is an error.
func Load(configFile string) (*Config, error) {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/agilemate/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			break
		}
	}

	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	envOverride(&c.Server.Env, "APP_ENV")
	envOverrideList(&c.Server.CORSOrigins, "CORS_ORIGINS")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.LLM.BaseURL, "LLM_BASE_URL")
	envOverride(&c.LLM.APIKey, "LLM_API_KEY")
	envOverride(&c.LLM.Model, "LLM_MODEL")
	envOverride(&c.LLM.KeyHeader, "LLM_KEY_HEADER")
	envOverride(&c.MOI.BaseURL, "MOI_BASE_URL")
	envOverride(&c.MOI.APIKey, "MOI_API_KEY")
	envOverride(&c.Database.Host, "MO_HOST")
	envOverride(&c.Database.User, "MO_USER")
	envOverride(&c.Database.Password, "MO_PASS")
	envOverride(&c.Database.Name, "MO_DB")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "MO_PORT")
	envOverrideInt(&c.Auth.TokenTTLHours, "TOKEN_TTL_HOURS")
	envOverrideInt(&c.LLM.TimeoutSeconds, "LLM_TIMEOUT_SECONDS")
	envOverrideInt(&c.MOI.CatalogID, "MOI_CATALOG_ID")
	envOverrideInt(&c.MOI.DatabaseID, "MOI_DATABASE_ID")
	envOverrideInt(&c.MOI.ProjectsTableID, "MOI_PROJECTS_TABLE_ID")
	envOverrideInt(&c.MOI.UpdatesTableID, "MOI_UPDATES_TABLE_ID")
	envOverrideBool(&c.Summary.Coalesce, "SUMMARY_COALESCE")

	return c, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// CatalogEnabled reports whether the MOI catalog mirror has enough configuration to run.
func (c *Config) CatalogEnabled() bool {
	return c.MOI.APIKey != "" && c.MOI.DatabaseID != 0 &&
		c.MOI.ProjectsTableID != 0 && c.MOI.UpdatesTableID != 0
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func (c *Config) NewRawClient() (*sdk.RawClient, error) {
	return sdk.NewRawClient(c.MOI.BaseURL, c.MOI.APIKey)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envOverrideList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}
