package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name        string   `mapstructure:"name"`
	Env         string   `mapstructure:"env"`
	HTTP        HTTP     `mapstructure:"http"`
	Admin       HTTP     `mapstructure:"admin"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	ShutdownSec int      `mapstructure:"shutdown_sec"`
	Limits      Limits   `mapstructure:"limits"`
}

// Limits 入口保护；0 表示用中间件默认值
type Limits struct {
	RPS         float64 `mapstructure:"rps"`
	Burst       int     `mapstructure:"burst"`
	PerIPRPS    float64 `mapstructure:"per_ip_rps"`
	PerIPBurst  int     `mapstructure:"per_ip_burst"`
	Inflight    int64   `mapstructure:"inflight"`
	QueueWaitMS int     `mapstructure:"queue_wait_ms"`
	MaxBodyKB   int64   `mapstructure:"max_body_kb"`
	TimeoutSec  int     `mapstructure:"timeout_sec"`
}

type Rotate struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	JSON   bool   `mapstructure:"json"`
	Rotate Rotate `mapstructure:"rotate"`
}

type JWT struct {
	Secret              string `mapstructure:"secret"`
	Issuer              string `mapstructure:"issuer"`
	AccessTokenTTLMin   int    `mapstructure:"access_token_ttl_min"`
	RefreshTokenTTLHour int    `mapstructure:"refresh_token_ttl_hour"`
}

type Redis struct {
	Enable      bool   `mapstructure:"enable"`
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	StatsTTLSec int    `mapstructure:"stats_ttl_sec"`
}

type DB struct {
	Driver             string `mapstructure:"driver"` // mysql | postgres | sqlite
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"` // mysql：DSN 里没带账号时补上
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

// Policy 授权策略开关
type Policy struct {
	// 供应商读取范围外的日收入时返回 404 而不是 403
	HideOutOfScopeIncomes bool `mapstructure:"hide_out_of_scope_incomes"`
}

type Audit struct {
	Buffer int `mapstructure:"buffer"`
}

type Config struct {
	App    App    `mapstructure:"app"`
	Log    Log    `mapstructure:"log"`
	JWT    JWT    `mapstructure:"jwt"`
	DB     DB     `mapstructure:"db"`
	Redis  Redis  `mapstructure:"redis"`
	Policy Policy `mapstructure:"policy"`
	Audit  Audit  `mapstructure:"audit"`
}

func (j JWT) AccessTTL() time.Duration  { return time.Duration(j.AccessTokenTTLMin) * time.Minute }
func (j JWT) RefreshTTL() time.Duration { return time.Duration(j.RefreshTokenTTLHour) * time.Hour }
func (r Redis) StatsTTL() time.Duration { return time.Duration(r.StatsTTLSec) * time.Second }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "grocery-backend")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	for _, srv := range []string{"app.http", "app.admin"} {
		v.SetDefault(srv+".read_timeout_sec", 10)
		v.SetDefault(srv+".write_timeout_sec", 15)
		v.SetDefault(srv+".idle_timeout_sec", 60)
	}
	v.SetDefault("app.shutdown_sec", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "grocery-backend")
	v.SetDefault("jwt.access_token_ttl_min", 60)
	v.SetDefault("jwt.refresh_token_ttl_hour", 24*7)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("redis.stats_ttl_sec", 30)
	v.SetDefault("audit.buffer", 256)
}

// Load 读取 YAML，APP_ 前缀的环境变量覆盖同名配置（APP_DB_DSN -> db.dsn）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	if c.Redis.Enable && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enable is true")
	}
	return nil
}
