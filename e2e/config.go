package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_ADDR is the host:port of a running server. The suites skip when it is empty.
	ServerAddr string `envconfig:"E2E_SERVER_ADDR"`
	OpsAddr    string `envconfig:"E2E_OPS_ADDR"`
	// E2E_DEBUG_JSON dumps every request and response body
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

const (
	defaultWait  = 5 * time.Second
	pollInterval = 100 * time.Millisecond
)
