// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// EngineConfig holds the analytics policy knobs. The deduction weights and
// cover thresholds are tunable rather than hardcoded; defaults match the
// demo calibration.
type EngineConfig struct {
	// Forecasting
	ForecastWindowDays  int
	MinObservations     int
	DecayFactor         float64
	HourlyLookbackWeeks int
	PeakDemandUplift    float64

	// Anomaly detection
	AnomalyLookbackDays  int
	MinResidualUnits     float64
	PatternMinEvents     int
	PatternNegativeRatio float64

	// Confidence scoring
	AnomalyEventPenalty  float64
	AnomalyEventCap      float64
	MagnitudePenaltyRate float64
	MagnitudeCap         float64
	StalenessPenaltyRate float64
	StalenessCap         float64
	StalenessGraceDays   int
	NeverCountedPenalty  float64
	PerishablePenalty    float64
	PerishableRecentDays int
	PatternPenalty       float64

	// Operating calendar (store-local hours)
	OpenHour        int
	CloseHour       int
	LunchStartHour  int
	LunchEndHour    int
	DinnerStartHour int
	DinnerEndHour   int

	// Transfers
	TargetCoverDays   float64
	SafetyBufferDays  float64
	MinDonorCoverDays float64
	MinUrgency        float64
	MaxTransferDays   float64
	PerKmRate         float64
	StockoutSavings   float64

	// Prep scheduling
	PrepLeadTimeHours int
	PrepBufferPct     float64

	// Reordering
	ReorderLeadTimeDays  int
	ReorderSafetyDays    int
	ReorderServiceLevelZ float64

	// Fan-out bound for per-(store,SKU) computations
	MaxParallelComputations int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "shelfsense")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)

		viper.SetDefault("FORECAST_WINDOW_DAYS", 28)
		viper.SetDefault("FORECAST_MIN_OBSERVATIONS", 7)
		viper.SetDefault("FORECAST_DECAY_FACTOR", 0.95)
		viper.SetDefault("FORECAST_HOURLY_LOOKBACK_WEEKS", 8)
		viper.SetDefault("FORECAST_PEAK_UPLIFT", 1.15)

		viper.SetDefault("ANOMALY_LOOKBACK_DAYS", 30)
		viper.SetDefault("ANOMALY_MIN_RESIDUAL_UNITS", 5.0)
		viper.SetDefault("ANOMALY_PATTERN_MIN_EVENTS", 3)
		viper.SetDefault("ANOMALY_PATTERN_NEGATIVE_RATIO", 0.6)

		viper.SetDefault("CONFIDENCE_ANOMALY_PENALTY", 5.0)
		viper.SetDefault("CONFIDENCE_ANOMALY_CAP", 30.0)
		viper.SetDefault("CONFIDENCE_MAGNITUDE_RATE", 0.5)
		viper.SetDefault("CONFIDENCE_MAGNITUDE_CAP", 20.0)
		viper.SetDefault("CONFIDENCE_STALENESS_RATE", 0.3)
		viper.SetDefault("CONFIDENCE_STALENESS_CAP", 20.0)
		viper.SetDefault("CONFIDENCE_STALENESS_GRACE_DAYS", 14)
		viper.SetDefault("CONFIDENCE_NEVER_COUNTED_PENALTY", 30.0)
		viper.SetDefault("CONFIDENCE_PERISHABLE_PENALTY", 10.0)
		viper.SetDefault("CONFIDENCE_PERISHABLE_RECENT_DAYS", 7)
		viper.SetDefault("CONFIDENCE_PATTERN_PENALTY", 15.0)

		viper.SetDefault("CALENDAR_OPEN_HOUR", 6)
		viper.SetDefault("CALENDAR_CLOSE_HOUR", 22)
		viper.SetDefault("CALENDAR_LUNCH_START", 11)
		viper.SetDefault("CALENDAR_LUNCH_END", 14)
		viper.SetDefault("CALENDAR_DINNER_START", 17)
		viper.SetDefault("CALENDAR_DINNER_END", 20)

		viper.SetDefault("TRANSFER_TARGET_COVER_DAYS", 10.0)
		viper.SetDefault("TRANSFER_SAFETY_BUFFER_DAYS", 2.0)
		viper.SetDefault("TRANSFER_MIN_DONOR_COVER_DAYS", 3.0)
		viper.SetDefault("TRANSFER_MIN_URGENCY", 0.5)
		viper.SetDefault("TRANSFER_MAX_DAYS_SUPPLY", 7.0)
		viper.SetDefault("TRANSFER_PER_KM_RATE", 1.5)
		viper.SetDefault("TRANSFER_STOCKOUT_SAVINGS", 50.0)

		viper.SetDefault("PREP_LEAD_TIME_HOURS", 2)
		viper.SetDefault("PREP_BUFFER_PCT", 0.10)

		viper.SetDefault("REORDER_LEAD_TIME_DAYS", 3)
		viper.SetDefault("REORDER_SAFETY_DAYS", 2)
		viper.SetDefault("REORDER_SERVICE_LEVEL_Z", 1.65)

		viper.SetDefault("ENGINE_MAX_PARALLEL", 8)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				ForecastWindowDays:  viper.GetInt("FORECAST_WINDOW_DAYS"),
				MinObservations:     viper.GetInt("FORECAST_MIN_OBSERVATIONS"),
				DecayFactor:         viper.GetFloat64("FORECAST_DECAY_FACTOR"),
				HourlyLookbackWeeks: viper.GetInt("FORECAST_HOURLY_LOOKBACK_WEEKS"),
				PeakDemandUplift:    viper.GetFloat64("FORECAST_PEAK_UPLIFT"),

				AnomalyLookbackDays:  viper.GetInt("ANOMALY_LOOKBACK_DAYS"),
				MinResidualUnits:     viper.GetFloat64("ANOMALY_MIN_RESIDUAL_UNITS"),
				PatternMinEvents:     viper.GetInt("ANOMALY_PATTERN_MIN_EVENTS"),
				PatternNegativeRatio: viper.GetFloat64("ANOMALY_PATTERN_NEGATIVE_RATIO"),

				AnomalyEventPenalty:  viper.GetFloat64("CONFIDENCE_ANOMALY_PENALTY"),
				AnomalyEventCap:      viper.GetFloat64("CONFIDENCE_ANOMALY_CAP"),
				MagnitudePenaltyRate: viper.GetFloat64("CONFIDENCE_MAGNITUDE_RATE"),
				MagnitudeCap:         viper.GetFloat64("CONFIDENCE_MAGNITUDE_CAP"),
				StalenessPenaltyRate: viper.GetFloat64("CONFIDENCE_STALENESS_RATE"),
				StalenessCap:         viper.GetFloat64("CONFIDENCE_STALENESS_CAP"),
				StalenessGraceDays:   viper.GetInt("CONFIDENCE_STALENESS_GRACE_DAYS"),
				NeverCountedPenalty:  viper.GetFloat64("CONFIDENCE_NEVER_COUNTED_PENALTY"),
				PerishablePenalty:    viper.GetFloat64("CONFIDENCE_PERISHABLE_PENALTY"),
				PerishableRecentDays: viper.GetInt("CONFIDENCE_PERISHABLE_RECENT_DAYS"),
				PatternPenalty:       viper.GetFloat64("CONFIDENCE_PATTERN_PENALTY"),

				OpenHour:        viper.GetInt("CALENDAR_OPEN_HOUR"),
				CloseHour:       viper.GetInt("CALENDAR_CLOSE_HOUR"),
				LunchStartHour:  viper.GetInt("CALENDAR_LUNCH_START"),
				LunchEndHour:    viper.GetInt("CALENDAR_LUNCH_END"),
				DinnerStartHour: viper.GetInt("CALENDAR_DINNER_START"),
				DinnerEndHour:   viper.GetInt("CALENDAR_DINNER_END"),

				TargetCoverDays:   viper.GetFloat64("TRANSFER_TARGET_COVER_DAYS"),
				SafetyBufferDays:  viper.GetFloat64("TRANSFER_SAFETY_BUFFER_DAYS"),
				MinDonorCoverDays: viper.GetFloat64("TRANSFER_MIN_DONOR_COVER_DAYS"),
				MinUrgency:        viper.GetFloat64("TRANSFER_MIN_URGENCY"),
				MaxTransferDays:   viper.GetFloat64("TRANSFER_MAX_DAYS_SUPPLY"),
				PerKmRate:         viper.GetFloat64("TRANSFER_PER_KM_RATE"),
				StockoutSavings:   viper.GetFloat64("TRANSFER_STOCKOUT_SAVINGS"),

				PrepLeadTimeHours: viper.GetInt("PREP_LEAD_TIME_HOURS"),
				PrepBufferPct:     viper.GetFloat64("PREP_BUFFER_PCT"),

				ReorderLeadTimeDays:  viper.GetInt("REORDER_LEAD_TIME_DAYS"),
				ReorderSafetyDays:    viper.GetInt("REORDER_SAFETY_DAYS"),
				ReorderServiceLevelZ: viper.GetFloat64("REORDER_SERVICE_LEVEL_Z"),

				MaxParallelComputations: viper.GetInt("ENGINE_MAX_PARALLEL"),
			},
		}
	})

	return instance
}
