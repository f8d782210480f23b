package main

import (
	"fmt"
	"strings"
	"synaptik/errors"
	"time"
)

type Config struct {
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=5000"`
	OpsPort         int           `env:"OPS_PORT,default=5001"`
	DebugPort       int           `env:"DEBUG_PORT,default=8081"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=168h"`

	ConnectionBufferSize int    `env:"CONNECTION_BUFFER_SIZE,default=256"`
	IndexBufferSize      int    `env:"INDEX_BUFFER_SIZE,default=1024"`
	MaxFrameSize         int64  `env:"MAX_FRAME_SIZE,default=65536"`
	MaxContentLength     int    `env:"MAX_CONTENT_LENGTH,default=5000"`
	AllowedOrigins       string `env:"ALLOWED_ORIGINS,default=*"`

	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=10"`

	UploadDir     string `env:"UPLOAD_DIR,default=uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE,default=26214400"`

	EnableModeration bool   `env:"ENABLE_MODERATION,default=true"`
	CharReplacement  string `env:"CHARACTER_REPLACEMENT,default=*"`

	RequireEmailVerification bool          `env:"REQUIRE_EMAIL_VERIFICATION,default=false"`
	OTPTTL                   time.Duration `env:"OTP_TTL,default=10m"`
	SMTPHost                 string        `env:"SMTP_HOST"`
	SMTPPort                 int           `env:"SMTP_PORT,default=587"`
	SMTPUsername             string        `env:"SMTP_USERNAME"`
	SMTPPassword             string        `env:"SMTP_PASSWORD"`
	SMTPFrom                 string        `env:"SMTP_FROM,default=no-reply@synaptik.dev"`

	RedisAddr         string        `env:"REDIS_ADDR"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RateLimitMessages int           `env:"RATE_LIMIT_MESSAGES,default=20"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,default=10s"`
}

var ErrInvalidConfig = fmt.Errorf("invalid configuration")

// Validate checks the rules a single tag cannot express.
func (c Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < 16 {
		errs = append(errs, fmt.Errorf("%w: JWT_SECRET must be at least 16 characters", ErrInvalidConfig))
	}
	if c.Port == c.OpsPort {
		errs = append(errs, fmt.Errorf("%w: PORT and OPS_PORT must differ", ErrInvalidConfig))
	}
	for name, value := range map[string]int64{
		"CONNECTION_BUFFER_SIZE": int64(c.ConnectionBufferSize),
		"INDEX_BUFFER_SIZE":      int64(c.IndexBufferSize),
		"MAX_FRAME_SIZE":         c.MaxFrameSize,
		"MAX_CONTENT_LENGTH":     int64(c.MaxContentLength),
		"MAX_UPLOAD_SIZE":        c.MaxUploadSize,
	} {
		if value <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name))
		}
	}
	if c.AuthTokenDuration <= 0 || c.RestartInterval <= 0 || c.MetricInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: durations must be positive", ErrInvalidConfig))
	}
	if c.RedisAddr != "" && (c.RateLimitMessages <= 0 || c.RateLimitWindow <= 0) {
		errs = append(errs, fmt.Errorf("%w: RATE_LIMIT_MESSAGES and RATE_LIMIT_WINDOW must be positive", ErrInvalidConfig))
	}
	if c.RequireEmailVerification && c.OTPTTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: OTP_TTL must be positive", ErrInvalidConfig))
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: CHARACTER_REPLACEMENT must be a single character, got %q", ErrInvalidConfig, str)
	}
	return r[0], nil
}
