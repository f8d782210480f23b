package main

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	var config Config
	err := env.Unmarshal(env.EnvSet{
		"BADGER_FILEPATH": t.TempDir(),
		"BLUGE_FILEPATH":  t.TempDir(),
		"JWT_SECRET":      "a-secret-of-sufficient-length",
	}, &config)
	require.NoError(t, err)
	return config
}

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	config := validConfig(t)

	req.NoError(config.Validate())
	req.Equal(5000, config.Port)
	req.Equal(168*time.Hour, config.AuthTokenDuration)
	req.Equal(int64(25<<20), config.MaxUploadSize)
	req.True(config.EnableModeration)
	req.Equal([]string{"*"}, config.Origins())
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"same ports", func(c *Config) { c.OpsPort = c.Port }},
		{"empty buffer", func(c *Config) { c.ConnectionBufferSize = 0 }},
		{"two replacement characters", func(c *Config) { c.CharReplacement = "**" }},
		{"redis without window", func(c *Config) { c.RedisAddr = "localhost:6379"; c.RateLimitWindow = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			config := validConfig(t)

			tc.mutate(&config)

			req.ErrorIs(config.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfig_Origins(t *testing.T) {
	req := require.New(t)
	config := Config{AllowedOrigins: " http://localhost:3000 , https://synaptik.dev,,"}

	req.Equal([]string{"http://localhost:3000", "https://synaptik.dev"}, config.Origins())
}
