package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Redis      Redis      `mapstructure:",squash"`
	Apify      Apify      `mapstructure:",squash"`
	Membership Membership `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Refresh    Refresh    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Redis struct {
	URL              string        `mapstructure:"redis_url"`
	CooldownInterval time.Duration `mapstructure:"redis_cooldown_interval"`
}

// Apify holds the upstream ingestion API settings. Token is the bearer
// credential; its absence is a configuration error surfaced by the fetcher
// before any network call.
type Apify struct {
	BaseURL     string        `mapstructure:"apify_base_url"`
	ActorID     string        `mapstructure:"apify_actor_id"`
	Token       string        `mapstructure:"apify_token"`
	PollEvery   time.Duration `mapstructure:"apify_poll_interval"`
	MaxWait     time.Duration `mapstructure:"apify_max_wait"`
	MaxAttempts int           `mapstructure:"apify_max_attempts"`
}

// Membership points at the external identity/membership provider guarding the
// admin API. Verification is fully delegated; we only issue local session
// tokens after a successful check.
type Membership struct {
	URL string `mapstructure:"membership_url"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

type Refresh struct {
	CronSchedule    string   `mapstructure:"refresh_cron"`
	Enabled         bool     `mapstructure:"refresh_enabled"`
	Queries         []string `mapstructure:"refresh_queries"`
	PerQueryLimit   int      `mapstructure:"refresh_per_query_limit"`
	ClearanceTarget int      `mapstructure:"refresh_clearance_target"`
	MaxTotalDeals   int      `mapstructure:"refresh_max_total_deals"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/homedepot?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_URL", "redis://localhost:6379")
	viper.SetDefault("REDIS_COOLDOWN_INTERVAL", "60s")

	viper.SetDefault("APIFY_BASE_URL", "https://api.apify.com/v2")
	viper.SetDefault("APIFY_ACTOR_ID", "jupri~homedepot")
	viper.SetDefault("APIFY_TOKEN", "")
	viper.SetDefault("APIFY_POLL_INTERVAL", "5s")
	viper.SetDefault("APIFY_MAX_WAIT", "5m")
	viper.SetDefault("APIFY_MAX_ATTEMPTS", 3)

	viper.SetDefault("MEMBERSHIP_URL", "https://api.whop.com/api/v2")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "1h")

	// Breadth-first query strategy: no single search surfaces all markdown
	// items, so the refresh walks diverse departments until the clearance
	// target is met.
	viper.SetDefault("REFRESH_CRON", "*/30 * * * *")
	viper.SetDefault("REFRESH_ENABLED", true)
	viper.SetDefault("REFRESH_QUERIES",
		"drill,tool,power tool,saw,hammer,"+
			"screwdriver,wrench,pliers,level,tape measure,"+
			"paint,brush,roller,ladder,safety,"+
			"light,bulb,outlet,switch,wire,"+
			"pipe,fitting,valve,faucet,sink")
	viper.SetDefault("REFRESH_PER_QUERY_LIMIT", 500)
	viper.SetDefault("REFRESH_CLEARANCE_TARGET", 30)
	viper.SetDefault("REFRESH_MAX_TOTAL_DEALS", 2000)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using environment variables loaded by godotenv (viper could not read .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("loaded .env from:", location)
			return
		}
	}
}
