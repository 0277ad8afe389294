package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Timezone string `mapstructure:"TIMEZONE"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminFullName string `mapstructure:"ADMIN_FULL_NAME"`

	BrevoAPIKey     string `mapstructure:"BREVO_API_KEY"`
	EmailSender     string `mapstructure:"EMAIL_SENDER"`
	EmailSenderName string `mapstructure:"EMAIL_SENDER_NAME"`

	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	StatsCacheTTLSeconds int    `mapstructure:"STATS_CACHE_TTL_SECONDS"`

	MeetingBaseURL    string `mapstructure:"MEETING_BASE_URL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MaxSlotRangeDays  int    `mapstructure:"MAX_SLOT_RANGE_DAYS"`
}

var AppConfig Config

var keys = []string{
	"APP_PORT", "ENV", "LOG_LEVEL", "TIMEZONE",
	"DB_DRIVER", "DATABASE_URL",
	"JWT_SECRET", "JWT_TTL_HOURS",
	"ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_FULL_NAME",
	"BREVO_API_KEY", "EMAIL_SENDER", "EMAIL_SENDER_NAME",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_CACHE_DB", "STATS_CACHE_TTL_SECONDS",
	"MEETING_BASE_URL", "MAX_REQUESTS_PER_MIN", "MAX_SLOT_RANGE_DAYS",
}

// Load reads .env, an optional config.yaml and the process environment, in
// increasing order of precedence.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Africa/Nairobi")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("JWT_TTL_HOURS", 72)
	v.SetDefault("ADMIN_FULL_NAME", "Platform Administrator")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("STATS_CACHE_TTL_SECONDS", 60)
	v.SetDefault("MEETING_BASE_URL", "https://meet.jit.si")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 60)
	v.SetDefault("MAX_SLOT_RANGE_DAYS", 31)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
	return cfg
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves TIMEZONE, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func (c Config) JWTTTL() time.Duration {
	if c.JWTTTLHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}
