package configs

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Cost      CostConfig      `mapstructure:"cost" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// AnalysisConfig holds performance-analysis thresholds. The slow thresholds are
// strict greater-than boundaries in milliseconds and must be strictly increasing.
type AnalysisConfig struct {
	SlowMediumMs     int64   `mapstructure:"slow_medium_ms" validate:"required,gt=0"`
	SlowHighMs       int64   `mapstructure:"slow_high_ms" validate:"required,gtfield=SlowMediumMs"`
	SlowCriticalMs   int64   `mapstructure:"slow_critical_ms" validate:"required,gtfield=SlowHighMs"`
	SuccessRateFloor float64 `mapstructure:"success_rate_floor" validate:"gte=0,lte=1"`
	TopUserCount     int     `mapstructure:"top_user_count" validate:"required,min=1"`
}

// RateLimitConfig holds sliding-window rate-limit detection configuration.
// A non-positive window or threshold is a configuration error and is rejected
// at load time rather than producing degenerate detector output.
type RateLimitConfig struct {
	WindowSeconds     int `mapstructure:"window_seconds" validate:"required,gt=0"`
	UserThreshold     int `mapstructure:"user_threshold" validate:"required,gt=0"`
	EndpointThreshold int `mapstructure:"endpoint_threshold" validate:"required,gt=0"`
}

// CostConfig holds cost-estimation rates in USD.
type CostConfig struct {
	PerRequestUSD float64 `mapstructure:"per_request_usd" validate:"gte=0"`
	PerMsUSD      float64 `mapstructure:"per_ms_usd" validate:"gte=0"`
}
