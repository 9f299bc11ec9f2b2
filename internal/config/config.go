package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/semmidev/zabbix-backup/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	TypeMySQL      = "mysql"
	TypePostgreSQL = "postgresql"

	CompressionGzip = "gzip"
	CompressionZstd = "zstd"

	envPrefix = "ZABBIX_BACKUP"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Schedule string         `mapstructure:"schedule"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	Quiet    bool   `mapstructure:"quiet"`
}

type DatabaseConfig struct {
	Type            string `mapstructure:"type"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	CredentialsFile string `mapstructure:"credentials_file"`
	DumpBinary      string `mapstructure:"dump_binary"`

	// PostgreSQL specific
	Schema  string `mapstructure:"schema"`
	SSLMode string `mapstructure:"ssl_mode"`
}

type BackupConfig struct {
	OutputDir     string         `mapstructure:"output_dir"`
	Retention     int            `mapstructure:"retention"`
	Compression   string         `mapstructure:"compression"`
	NoResolve     bool           `mapstructure:"no_resolve"`
	DumpTimeout   time.Duration  `mapstructure:"dump_timeout"`
	UploadTargets []UploadTarget `mapstructure:"upload_targets"`
}

type UploadTarget struct {
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`

	// Google Drive
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`

	// AWS S3
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`

	// Telegram
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	SendFile   bool   `mapstructure:"send_file"`
	NotifyOnly bool   `mapstructure:"notify_only"`
}

// NewViper returns a viper instance with defaults and environment overrides
// (ZABBIX_BACKUP_DATABASE_HOST and so on) installed.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("app.name", "zabbix-backup")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file", "")
	v.SetDefault("app.quiet", false)
	v.SetDefault("database.type", TypeMySQL)
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.username", "zabbix")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "zabbix")
	v.SetDefault("database.credentials_file", "")
	v.SetDefault("database.dump_binary", "")
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("backup.output_dir", ".")
	v.SetDefault("backup.retention", 0)
	v.SetDefault("backup.compression", CompressionGzip)
	v.SetDefault("backup.no_resolve", false)
	v.SetDefault("backup.dump_timeout", "0s")
	v.SetDefault("schedule", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

type flagBinding struct {
	key       string
	name      string
	shorthand string
	usage     string
}

var stringFlags = []flagBinding{
	{"database.host", "host", "h", "database host or IP"},
	{"database.database", "database", "d", "database name"},
	{"database.username", "user", "u", "database user"},
	{"database.password", "password", "p", `database password, "-" to prompt`},
	{"database.credentials_file", "credentials", "c", "credentials file ([client] user/password), overrides -u and -p"},
	{"database.type", "type", "t", "database engine: mysql or postgresql"},
	{"backup.output_dir", "output", "o", "output directory"},
	{"config", "config", "f", "YAML configuration file"},
}

var intFlags = []flagBinding{
	{"backup.retention", "retention", "r", "number of backups to keep, 0 keeps all"},
	{"database.port", "port", "P", "database port (default 3306 for mysql, 5432 for postgresql)"},
}

var boolFlags = []flagBinding{
	{"app.quiet", "quiet", "q", "quiet mode, only warnings and errors"},
	{"backup.no_resolve", "no-resolve", "n", "do not reverse-resolve the host name for the backup file name"},
}

// BindFlags registers the command line flags on fs and binds them to v so
// that explicitly set flags take precedence over file and environment.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, f := range stringFlags {
		fs.StringP(f.name, f.shorthand, v.GetString(f.key), f.usage)
	}
	for _, f := range intFlags {
		fs.IntP(f.name, f.shorthand, v.GetInt(f.key), f.usage)
	}
	for _, f := range boolFlags {
		fs.BoolP(f.name, f.shorthand, v.GetBool(f.key), f.usage)
	}

	for _, group := range [][]flagBinding{stringFlags, intFlags, boolFlags} {
		for _, f := range group {
			if err := v.BindPFlag(f.key, fs.Lookup(f.name)); err != nil {
				return fmt.Errorf("bind flag %s: %w", f.name, err)
			}
		}
	}

	return nil
}

// Load reads the optional YAML file, merges credentials and resolves an
// interactive password before validating the result.
func Load(v *viper.Viper, prompt PasswordPrompt) (*Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config: %v", domain.ErrConfig, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", domain.ErrConfig, err)
	}

	if cfg.Database.CredentialsFile != "" {
		creds, err := ReadCredentialsFile(cfg.Database.CredentialsFile)
		if err != nil {
			return nil, err
		}
		creds.Apply(&cfg.Database)
	}

	if cfg.Database.Password == "-" {
		if prompt == nil {
			return nil, fmt.Errorf("%w: password prompt not available", domain.ErrConfig)
		}
		label := fmt.Sprintf("Password for %s@%s: ", cfg.Database.Username, cfg.Database.Host)
		password, err := prompt(label)
		if err != nil {
			return nil, fmt.Errorf("%w: read password: %v", domain.ErrConfig, err)
		}
		cfg.Database.Password = password
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Database.Type = strings.ToLower(c.Database.Type)
	c.Backup.Compression = strings.ToLower(c.Backup.Compression)

	if c.Database.Port == 0 {
		switch c.Database.Type {
		case TypeMySQL:
			c.Database.Port = 3306
		case TypePostgreSQL:
			c.Database.Port = 5432
		}
	}
	if c.Backup.OutputDir == "" {
		c.Backup.OutputDir = "."
	}
}

func (c *Config) Validate() error {
	switch c.Database.Type {
	case TypeMySQL, TypePostgreSQL:
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port %d", c.Database.Port)
	}
	if c.Database.Username == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Password == "" && c.Database.CredentialsFile == "" {
		return fmt.Errorf("a password (-p) or credentials file (-c) is required")
	}

	if c.Backup.Retention < 0 {
		return fmt.Errorf("retention must not be negative, got %d", c.Backup.Retention)
	}
	if c.Backup.DumpTimeout < 0 {
		return fmt.Errorf("dump timeout must not be negative")
	}

	switch c.Backup.Compression {
	case CompressionGzip, CompressionZstd:
	default:
		return fmt.Errorf("unsupported compression %q", c.Backup.Compression)
	}

	for i, t := range c.GetEnabledUploadTargets() {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("upload_targets[%d]: %w", i, err)
		}
	}

	return nil
}

func (t UploadTarget) Validate() error {
	switch t.Type {
	case "s3":
		if t.Bucket == "" || t.Region == "" {
			return fmt.Errorf("s3 target requires bucket and region")
		}
	case "gdrive":
		if t.CredentialsFile == "" || t.FolderID == "" {
			return fmt.Errorf("gdrive target requires credentials_file and folder_id")
		}
	case "telegram":
		if t.BotToken == "" || t.ChatID == "" {
			return fmt.Errorf("telegram target requires bot_token and chat_id")
		}
	default:
		return fmt.Errorf("unknown upload target type %q", t.Type)
	}
	return nil
}

func (c *Config) GetEnabledUploadTargets() []UploadTarget {
	var enabled []UploadTarget
	for _, target := range c.Backup.UploadTargets {
		if target.Enabled {
			enabled = append(enabled, target)
		}
	}
	return enabled
}
