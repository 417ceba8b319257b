package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Report   Report   `mapstructure:",squash"`
	Currency Currency `mapstructure:",squash"`
	Ingest   Ingest   `mapstructure:",squash"`
	Catalog  Catalog  `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
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

type Report struct {
	// CommissionRate is the marketplace commission applied to net revenue.
	CommissionRate float64 `mapstructure:"report_commission_rate"`
	// UpsellRate is the upsell-services fee applied to net revenue.
	UpsellRate float64 `mapstructure:"report_upsell_rate"`
	// OutputRoot is the root folder reports are written under, mirrored as
	// <root>/<Brand>/<start - end>/.
	OutputRoot string `mapstructure:"report_output_root"`
}

type Currency struct {
	RateURL        string  `mapstructure:"currency_rate_url"`
	FallbackRate   float64 `mapstructure:"currency_fallback_rate"`
	TimeoutSeconds int     `mapstructure:"currency_timeout_seconds"`
}

type Ingest struct {
	// DataRoot is the folder export workbooks are dropped into; normalized
	// files are persisted under kind-named subfolders of it.
	DataRoot     string `mapstructure:"ingest_data_root"`
	CronSchedule string `mapstructure:"ingest_sync_cron"`
	Enabled      bool   `mapstructure:"ingest_sync_enabled"`
}

type Catalog struct {
	// ConfigDir holds per-brand product catalogs (<brand>.json).
	ConfigDir string `mapstructure:"catalog_config_dir"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/marketplace_reports")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REPORT_COMMISSION_RATE", 0.20)
	viper.SetDefault("REPORT_UPSELL_RATE", 0.05)
	viper.SetDefault("REPORT_OUTPUT_ROOT", "reports")

	viper.SetDefault("CURRENCY_RATE_URL", "https://www.nbkr.kg/XML/daily.xml")
	viper.SetDefault("CURRENCY_FALLBACK_RATE", 1.084343)
	viper.SetDefault("CURRENCY_TIMEOUT_SECONDS", 5)

	viper.SetDefault("INGEST_DATA_ROOT", "data")
	viper.SetDefault("INGEST_SYNC_CRON", "0 2 * * *")
	viper.SetDefault("INGEST_SYNC_ENABLED", true)

	viper.SetDefault("CATALOG_CONFIG_DIR", "configs")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

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
		logrus.Info("Using variables loaded by godotenv (viper could not read .env):", err)
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
		logrus.Warn("Could not determine the working directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Loaded .env from:", location)
			return
		}
	}

	logrus.Info("No .env file found, relying on OS environment variables and defaults")
}
