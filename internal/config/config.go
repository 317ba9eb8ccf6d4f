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
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Storage     Storage     `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Redis       Redis       `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	Generator   Generator   `mapstructure:",squash"`
	Forecast    Forecast    `mapstructure:",squash"`
	Insight     Insight     `mapstructure:",squash"`
	RefreshSync RefreshSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Storage selects where pipeline artifacts live. "csv" uses the three file paths,
// "postgres" and "sqlite" use the Database section.
type Storage struct {
	Driver          string `mapstructure:"storage_driver"`
	TransactionsCSV string `mapstructure:"transactions_csv"`
	ForecastCSV     string `mapstructure:"forecast_csv"`
	InsightsCSV     string `mapstructure:"insights_csv"`
}

type Database struct {
	DSN        string `mapstructure:"-"`
	Driver     string `mapstructure:"database_driver"`
	Password   string `mapstructure:"database_password"`
	URL        string `mapstructure:"database_url"`
	User       string `mapstructure:"database_user"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Redis struct {
	Enabled  bool          `mapstructure:"redis_enabled"`
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	TTL      time.Duration `mapstructure:"redis_forecast_ttl"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

type Generator struct {
	StartDate          string   `mapstructure:"generator_start_date"`
	EndDate            string   `mapstructure:"generator_end_date"`
	Seed               int64    `mapstructure:"generator_seed"`
	Regions            []string `mapstructure:"generator_regions"`
	ProductCategories  []string `mapstructure:"generator_product_categories"`
	CustomerSegments   []string `mapstructure:"generator_customer_segments"`
	MinTransactionsDay int      `mapstructure:"generator_min_transactions_per_day"`
	MaxTransactionsDay int      `mapstructure:"generator_max_transactions_per_day"`
}

type Forecast struct {
	Periods         int     `mapstructure:"forecast_periods"`
	TestSize        int     `mapstructure:"forecast_test_size"`
	MinObservations int     `mapstructure:"forecast_min_observations"`
	IntervalWidth   float64 `mapstructure:"forecast_interval_width"`
}

type Insight struct {
	TrendThreshold       float64 `mapstructure:"insight_trend_threshold"`
	UnderperformRatio    float64 `mapstructure:"insight_underperform_ratio"`
	OpportunityFloor     float64 `mapstructure:"insight_opportunity_floor"`
	ForecastThreshold    float64 `mapstructure:"insight_forecast_threshold"`
	PreferStoredInsights bool    `mapstructure:"insight_prefer_stored"`
}

type RefreshSync struct {
	CronSchedule string `mapstructure:"refresh_sync_cron"`
	Enabled      bool   `mapstructure:"refresh_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8501")

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("STORAGE_DRIVER", "csv")
	viper.SetDefault("TRANSACTIONS_CSV", "data/raw/ethiopia_sales_raw.csv")
	viper.SetDefault("FORECAST_CSV", "data/forecasts/forecast_results.csv")
	viper.SetDefault("INSIGHTS_CSV", "reports/insights.csv")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/bizpredict?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("SQLITE_PATH", "data/bizpredict.db")

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_FORECAST_TTL", "1h")

	// Empty secret leaves the job routes open (local use only)
	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("GENERATOR_START_DATE", "2020-01-01")
	viper.SetDefault("GENERATOR_END_DATE", "2024-10-31")
	viper.SetDefault("GENERATOR_SEED", 42)
	viper.SetDefault("GENERATOR_REGIONS", "Addis Ababa,Oromia,Amhara,Tigray,SNNPR,Somali,Afar,Dire Dawa")
	viper.SetDefault("GENERATOR_PRODUCT_CATEGORIES", "Coffee,Teff,Electronics,Textiles,Spices,Livestock,Vegetables,Injera,Leather Goods,Cereals")
	viper.SetDefault("GENERATOR_CUSTOMER_SEGMENTS", "Retail,Wholesale,Export,B2B,Direct Consumer")
	viper.SetDefault("GENERATOR_MIN_TRANSACTIONS_PER_DAY", 5)
	viper.SetDefault("GENERATOR_MAX_TRANSACTIONS_PER_DAY", 20)

	viper.SetDefault("FORECAST_PERIODS", 90)
	viper.SetDefault("FORECAST_TEST_SIZE", 90)
	viper.SetDefault("FORECAST_MIN_OBSERVATIONS", 30)
	viper.SetDefault("FORECAST_INTERVAL_WIDTH", 0.8)

	viper.SetDefault("INSIGHT_TREND_THRESHOLD", 5.0)
	viper.SetDefault("INSIGHT_UNDERPERFORM_RATIO", 10.0)
	viper.SetDefault("INSIGHT_OPPORTUNITY_FLOOR", 0.25)
	viper.SetDefault("INSIGHT_FORECAST_THRESHOLD", 10.0)
	viper.SetDefault("INSIGHT_PREFER_STORED", true)

	viper.SetDefault("REFRESH_SYNC_CRON", "0 2 * * *") // every day at 2am
	viper.SetDefault("REFRESH_SYNC_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("config: .env not read by viper, using environment only: ", err)
	} else {
		logrus.Info("config: .env loaded by viper")
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
		logrus.Warn("config: unable to resolve working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("config: .env loaded from ", location)
			return
		}
	}

	logrus.Debug("config: no .env file found, relying on environment variables")
}
