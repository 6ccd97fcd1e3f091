package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 数据库配置，DATABASE_URL 优先于分项配置
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSSLMode   string `mapstructure:"DB_SSLMODE"`
	DBPath      string `mapstructure:"DB_PATH"`

	// Redis配置，留空则使用进程内的令牌黑名单
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// 身份提供方签发令牌使用的密钥
	JWTSecret string `mapstructure:"JWT_SECRET"`

	AppTimezone       string `mapstructure:"APP_TIMEZONE"`
	LogDir            string `mapstructure:"LOG_DIR"`
	LoaderCacheSize   int    `mapstructure:"LOADER_CACHE_SIZE"`
	InternalAuthToken string `mapstructure:"INTERNAL_AUTH_TOKEN"`
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	DefaultServerPort      = "8080"
	DefaultLogDir          = "logs"
	DefaultLoaderCacheSize = 1024
)

var configKeys = []string{
	"ENVIRONMENT", "SERVER_PORT",
	"DATABASE_URL", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_PATH",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "APP_TIMEZONE", "LOG_DIR", "LOADER_CACHE_SIZE", "INTERNAL_AUTH_TOKEN",
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_PORT", DefaultServerPort)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("LOG_DIR", DefaultLogDir)
	v.SetDefault("LOADER_CACHE_SIZE", DefaultLoaderCacheSize)

	v.AutomaticEnv()
	// Unmarshal 只认识已注册的键，逐个绑定环境变量
	for _, key := range configKeys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// Validate 启动时检查必填项，缺失即视为不可恢复的配置错误
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
		if c.DatabaseURL == "" && c.DBHost == "" {
			errs = append(errs, errors.New("DATABASE_URL or DB_HOST must be set"))
		}
		if c.DatabaseURL == "" && c.DBPassword == "" {
			errs = append(errs, errors.New("DB_PASSWORD must be set"))
		}
	case DriverSQLite:
		if c.DatabaseURL == "" && c.DBPath == "" {
			errs = append(errs, errors.New("DATABASE_URL or DB_PATH must be set for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// GetDBConnString 返回数据库连接字符串
func (c *Config) GetDBConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case DriverSQLite:
		return c.DBPath
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
}

// GetRedisConnString 返回Redis连接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// RedisEnabled 是否配置了Redis
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location 返回默认的用户时区，未配置时使用服务器本地时区
func (c *Config) Location() (*time.Location, error) {
	if c.AppTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.AppTimezone, err)
	}
	return loc, nil
}
