package faultline

import (
	"errors"
	"testing"
)

func TestOptionsFromEnv_Defaults(t *testing.T) {
	for _, name := range []string{EnvDSN, EnvEnvironment, EnvServerName, EnvRootPath, EnvContextLines, EnvMaxBreadcrumbs, EnvScrub} {
		t.Setenv(name, "")
	}

	dsn, opts, err := OptionsFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if dsn != "" {
		t.Errorf("dsn = %q, want empty", dsn)
	}
	// Scrubbing is on by default.
	if len(opts) != 1 {
		t.Errorf("got %d options, want 1", len(opts))
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(EnvDSN, " "+testDSN+" ")
	t.Setenv(EnvEnvironment, "staging")
	t.Setenv(EnvServerName, "worker-3")
	t.Setenv(EnvRootPath, "/srv/app")
	t.Setenv(EnvContextLines, "3")
	t.Setenv(EnvMaxBreadcrumbs, "5")
	t.Setenv(EnvScrub, "false")

	c, err := NewFromEnv(WithTransport(&recordingTransport{}), WithoutModules())
	if err != nil {
		t.Fatal(err)
	}
	if c.environment != "staging" || c.serverName != "worker-3" {
		t.Errorf("environment/server = %q/%q", c.environment, c.serverName)
	}
	if c.maxBreadcrumbs != 5 {
		t.Errorf("maxBreadcrumbs = %d, want 5", c.maxBreadcrumbs)
	}
	if c.scrubber != nil {
		t.Error("scrubbing should be disabled")
	}
	fb := c.StackBuilder().FrameBuilder()
	if fb.rootPath != "/srv/app" || fb.contextLines != 3 {
		t.Errorf("frame builder root/lines = %q/%d", fb.rootPath, fb.contextLines)
	}
	if c.DSN().Token != "token" {
		t.Errorf("DSN = %+v", c.DSN())
	}
}

func TestNewFromEnv_MissingDSN(t *testing.T) {
	t.Setenv(EnvDSN, "")
	if _, err := NewFromEnv(); !errors.Is(err, ErrInvalidDSN) {
		t.Errorf("NewFromEnv error = %v, want ErrInvalidDSN", err)
	}
}

func TestOptionsFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{EnvContextLines, "ten"},
		{EnvMaxBreadcrumbs, "-1"},
		{EnvMaxBreadcrumbs, "many"},
		{EnvScrub, "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.name, tt.value)
			if _, _, err := OptionsFromEnv(); err == nil {
				t.Errorf("OptionsFromEnv with %s=%q should fail", tt.name, tt.value)
			}
		})
	}
}
