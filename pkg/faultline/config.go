// config.go reads client configuration from the environment.

package faultline

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvDSN            = "FAULTLINE_DSN"
	EnvEnvironment    = "FAULTLINE_ENVIRONMENT"
	EnvServerName     = "FAULTLINE_SERVER_NAME"
	EnvRootPath       = "FAULTLINE_ROOT_PATH"
	EnvContextLines   = "FAULTLINE_CONTEXT_LINES"
	EnvMaxBreadcrumbs = "FAULTLINE_MAX_BREADCRUMBS"
	EnvScrub          = "FAULTLINE_SCRUB"
)

// OptionsFromEnv returns the DSN and the client options configured in the
// environment. Unset variables leave the defaults in place; malformed values
// are reported.
func OptionsFromEnv() (dsn string, opts []Option, err error) {
	dsn = strings.TrimSpace(os.Getenv(EnvDSN))

	if v := os.Getenv(EnvEnvironment); v != "" {
		opts = append(opts, WithEnvironment(v))
	}
	if v := os.Getenv(EnvServerName); v != "" {
		opts = append(opts, WithServerName(v))
	}
	if v := os.Getenv(EnvRootPath); v != "" {
		opts = append(opts, WithRootPath(v))
	}

	if n, ok, err := envInt(EnvContextLines); err != nil {
		return "", nil, err
	} else if ok {
		opts = append(opts, WithContextLines(n))
	}

	if n, ok, err := envInt(EnvMaxBreadcrumbs); err != nil {
		return "", nil, err
	} else if ok {
		if n < 0 {
			return "", nil, fmt.Errorf("failed to parse %s: must not be negative", EnvMaxBreadcrumbs)
		}
		opts = append(opts, WithMaxBreadcrumbs(n))
	}

	scrub := true
	if v := os.Getenv(EnvScrub); v != "" {
		scrub, err = strconv.ParseBool(v)
		if err != nil {
			return "", nil, fmt.Errorf("failed to parse %s: %w", EnvScrub, err)
		}
	}
	if scrub {
		opts = append(opts, WithDefaultScrubbing())
	}
	return dsn, opts, nil
}

// NewFromEnv creates a client configured from the environment. opts are
// applied after the environment options.
func NewFromEnv(opts ...Option) (*Client, error) {
	dsn, envOpts, err := OptionsFromEnv()
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrInvalidDSN, EnvDSN)
	}
	return New(dsn, append(envOpts, opts...)...)
}

func envInt(name string) (int, bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return n, true, nil
}
