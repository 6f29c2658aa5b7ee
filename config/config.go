// Package config loads the service settings from an optional TOML file and
// CROPSERVER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "CROPSERVER"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Image  ImageConfig  `mapstructure:"image"`
	RemBG  RemBGConfig  `mapstructure:"rembg"`
	Stats  StatsConfig  `mapstructure:"stats"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" validate:"min=1,dive,required"`
	ExposeErrors    bool          `mapstructure:"expose_errors"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Addr host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type FetchConfig struct {
	// 相对路径图片地址拼接到这个地址上
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	// 受 HTTP 客户端 30s 总超时限制
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0,lte=30s"`
	// 下载体积上限（字节），0 不限制
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gte=0"`
}

type ImageConfig struct {
	// 最长边上限，0 表示不缩放
	MaxSide int `mapstructure:"max_side" validate:"gte=0"`
	// 解码前按图片头拒绝超过该像素数的图片，0 不限制
	MaxPixels int `mapstructure:"max_pixels" validate:"gte=0"`
	// trim 时 alpha 高于该比例的像素算作主体
	AlphaThreshold float64 `mapstructure:"alpha_threshold" validate:"gte=0,lte=1"`
}

type RemBGConfig struct {
	Backend   string        `mapstructure:"backend" validate:"oneof=remote matte"`
	URL       string        `mapstructure:"url" validate:"omitempty,url"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0,lte=30s"`
	Tolerance float64       `mapstructure:"tolerance" validate:"gte=0,lte=1"`
}

type StatsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("server.expose_errors", true)
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("fetch.base_url", "http://localhost:8080")
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.max_bytes", 32<<20)

	v.SetDefault("image.max_side", 0)
	// 与 Pillow 的 MAX_IMAGE_PIXELS 一致
	v.SetDefault("image.max_pixels", 89_478_485)
	v.SetDefault("image.alpha_threshold", 0.5)

	v.SetDefault("rembg.backend", "remote")
	v.SetDefault("rembg.url", "http://127.0.0.1:7000")
	v.SetDefault("rembg.model", "u2net")
	v.SetDefault("rembg.timeout", "30s")
	v.SetDefault("rembg.tolerance", 0.12)

	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.schedule", "@every 5m")

	v.SetDefault("log.level", "info")
}

// Load 读取配置。path 为空时在当前目录查找 config.toml，找不到就只用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.RemBG.Backend == "remote" && c.RemBG.URL == "" {
		return errors.New("invalid config: rembg.url is required for the remote backend")
	}
	return nil
}
