// dsn.go parses connection strings into ingestion endpoints.

package faultline

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidDSN is returned for malformed connection strings.
var ErrInvalidDSN = errors.New("invalid dsn")

// DSN identifies an ingestion endpoint and the project token.
// The connection string form is scheme://token@host[:port]/path/project.
type DSN struct {
	Scheme string
	Host   string
	Port   int
	Path   string
	Token  string
}

// ParseDSN parses a connection string. The scheme must be http or https and
// the host, path and token are required. The path is cut at its last slash.
func ParseDSN(raw string) (*DSN, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDSN, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidDSN, u.Scheme)
	}
	if u.Hostname() == "" || u.Path == "" || u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%w: %q must contain a token, host and path", ErrInvalidDSN, raw)
	}

	port := defaultPort(u.Scheme)
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: bad port %q", ErrInvalidDSN, p)
		}
	}

	path := u.Path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[:i]
	}

	return &DSN{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   port,
		Path:   path,
		Token:  u.User.Username(),
	}, nil
}

// EndpointURL returns scheme://host[:port]/path/api/v1/project/{token}/trace.
// The port is omitted when it is the scheme default.
func (d *DSN) EndpointURL() string {
	var sb strings.Builder
	sb.WriteString(d.Scheme)
	sb.WriteString("://")
	sb.WriteString(d.Host)
	if d.Port != defaultPort(d.Scheme) {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(d.Port))
	}
	sb.WriteString(strings.TrimRight(d.Path, "/"))
	sb.WriteString("/api/v1/project/")
	sb.WriteString(url.PathEscape(d.Token))
	sb.WriteString("/trace")
	return sb.String()
}

// String returns the endpoint URL. The token is part of the endpoint path.
func (d *DSN) String() string {
	return d.EndpointURL()
}

func defaultPort(scheme string) int {
	if scheme == "http" {
		return 80
	}
	return 443
}
