package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
	Amap    AmapConfig    `mapstructure:"amap"`
	Render  RenderConfig  `mapstructure:"render"`
	History HistoryConfig `mapstructure:"history"`
}

// ServerConfig 本地 HTTP 服务配置（桌面端通过回环地址访问）
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig MySQL 连接配置（登录页默认值，登录时可覆盖）
type DBConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Name             string `mapstructure:"name"`
	User             string `mapstructure:"user"`
	Password         string `mapstructure:"password"`
	RememberPassword bool   `mapstructure:"remember_password"`
	Charset          string `mapstructure:"charset"`
	MaxOpenConns     int    `mapstructure:"max_open_conns"`
	MaxIdleConns     int    `mapstructure:"max_idle_conns"`
}

// DSN 生成 MySQL 连接字符串
func (c *DBConfig) DSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name, charset,
	)
}

// Addr host:port 形式的地址，用于连通性探测
func (c *DBConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig Redis 缓存配置（可选，仅用于地理编码结果缓存）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 会话令牌配置
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AmapConfig 高德地理编码服务配置
type AmapConfig struct {
	Key      string        `mapstructure:"key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RenderConfig 车票预览渲染配置
type RenderConfig struct {
	FontPath string `mapstructure:"font_path"`
}

// HistoryConfig 最近使用的数据库名历史
type HistoryConfig struct {
	Databases []string `mapstructure:"databases"`
}

// 历史记录去重后最多保留 8 条，最近使用排最前
const historyLimit = 8

// RememberDatabase 将数据库名插入历史记录头部并去重截断
func (c *Config) RememberDatabase(name string) {
	if name == "" {
		return
	}
	result := []string{name}
	for _, db := range c.History.Databases {
		if db != name {
			result = append(result, db)
		}
	}
	if len(result) > historyLimit {
		result = result[:historyLimit]
	}
	c.History.Databases = result
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save 将连接档案与历史记录写回配置文件
// 未勾选“记住密码”时密码不落盘
func Save(cfg *Config, path string) error {
	v := newViper(path)
	v.ReadInConfig() // 保留已有的其他配置项，文件不存在时忽略

	v.Set("db.host", cfg.DB.Host)
	v.Set("db.port", cfg.DB.Port)
	v.Set("db.name", cfg.DB.Name)
	v.Set("db.user", cfg.DB.User)
	v.Set("db.remember_password", cfg.DB.RememberPassword)
	if cfg.DB.RememberPassword {
		v.Set("db.password", cfg.DB.Password)
	} else {
		v.Set("db.password", "")
	}
	v.Set("history.databases", cfg.History.Databases)
	v.Set("amap.key", cfg.Amap.Key)

	if path != "" {
		return v.WriteConfigAs(path)
	}
	if err := v.WriteConfig(); err != nil {
		// 首次保存时配置文件尚不存在
		return v.WriteConfigAs("config/config.yaml")
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8520)
	v.SetDefault("server.base_url", "http://localhost:8520")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.name", "ticket_assistant")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.remember_password", false)
	v.SetDefault("db.charset", "utf8mb4")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.session_ttl", "12h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("amap.endpoint", "https://restapi.amap.com/v3/geocode/geo")
	v.SetDefault("amap.timeout", "10s")
	v.SetDefault("amap.cache_ttl", "720h")

	v.SetDefault("render.font_path", "assets/fonts/SourceHanSans.ttf")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TICKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	return nil
}
