package faultline

import (
	"errors"
	"testing"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn      string
		endpoint string
		token    string
		port     int
	}{
		{"http://token@localhost/1", "http://localhost/api/v1/project/token/trace", "token", 80},
		{"https://abc@ingest.example.com/42", "https://ingest.example.com/api/v1/project/abc/trace", "abc", 443},
		{"https://abc@ingest.example.com:8443/sub/42", "https://ingest.example.com:8443/sub/api/v1/project/abc/trace", "abc", 8443},
		{"http://abc@127.0.0.1:80/a/b/7", "http://127.0.0.1/a/b/api/v1/project/abc/trace", "abc", 80},
		{"http://abc@localhost/", "http://localhost/api/v1/project/abc/trace", "abc", 80},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d, err := ParseDSN(tt.dsn)
			if err != nil {
				t.Fatalf("ParseDSN: %v", err)
			}
			if d.Token != tt.token || d.Port != tt.port {
				t.Errorf("DSN = %+v", d)
			}
			if got := d.EndpointURL(); got != tt.endpoint {
				t.Errorf("EndpointURL() = %q, want %q", got, tt.endpoint)
			}
			if d.String() != d.EndpointURL() {
				t.Error("String() should match EndpointURL()")
			}
		})
	}
}

func TestParseDSN_Invalid(t *testing.T) {
	tests := []string{
		"",
		"not a url",
		"ftp://token@localhost/1",
		"http://localhost/1",
		"http://token@/1",
		"http://token@localhost",
		"http://token@localhost:99999/1",
		"://token@localhost/1",
	}
	for _, dsn := range tests {
		t.Run(dsn, func(t *testing.T) {
			if _, err := ParseDSN(dsn); !errors.Is(err, ErrInvalidDSN) {
				t.Errorf("ParseDSN(%q) error = %v, want ErrInvalidDSN", dsn, err)
			}
		})
	}
}
