// client.go provides the Client, the explicit entry point for capturing
// events.

package faultline

import (
	"fmt"
	"maps"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strongdm/faultline/pkg/faultline/serializer"
	"github.com/strongdm/faultline/pkg/faultline/transports/httptransport"
)

const defaultMaxBreadcrumbs = 100

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	transport      Transport
	logger         *zap.Logger
	environment    string
	serverName     string
	rootPath       string
	resolver       SignatureResolver
	serializerCfg  serializer.Config
	scrubber       *Scrubber
	maxBreadcrumbs int
	tags           map[string]string
	contextLines   int
	fingerprinting bool
	modules        bool
}

// WithTransport sets the transport. The default is an HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// WithLogger sets the logger for delivery failures and diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithEnvironment sets the default environment of events.
func WithEnvironment(env string) Option {
	return func(c *clientConfig) {
		c.environment = env
	}
}

// WithServerName sets the default server name. The default is the hostname.
func WithServerName(name string) Option {
	return func(c *clientConfig) {
		c.serverName = name
	}
}

// WithRootPath sets the project root used for relative frame paths and
// anonymous class names.
func WithRootPath(root string) Option {
	return func(c *clientConfig) {
		c.rootPath = root
	}
}

// WithSignatureResolver sets the resolver for argument names.
func WithSignatureResolver(r SignatureResolver) Option {
	return func(c *clientConfig) {
		c.resolver = r
	}
}

// WithSerializerConfig sets the argument serializer bounds.
func WithSerializerConfig(cfg serializer.Config) Option {
	return func(c *clientConfig) {
		c.serializerCfg = cfg
	}
}

// WithScrubber configures the client with a custom scrubber configuration.
func WithScrubber(cfg ScrubberConfig) Option {
	return func(c *clientConfig) {
		c.scrubber = NewScrubber(cfg)
	}
}

// WithDefaultScrubbing enables scrubbing with production-safe defaults.
func WithDefaultScrubbing() Option {
	return func(c *clientConfig) {
		c.scrubber = NewScrubber(DefaultScrubberConfig())
	}
}

// WithMaxBreadcrumbs bounds the breadcrumbs kept by the client
// (default: 100). Zero disables breadcrumb recording.
func WithMaxBreadcrumbs(n int) Option {
	return func(c *clientConfig) {
		c.maxBreadcrumbs = n
	}
}

// WithDefaultTags sets tags added to every event. Event tags win on
// collision.
func WithDefaultTags(tags map[string]string) Option {
	return func(c *clientConfig) {
		c.tags = maps.Clone(tags)
	}
}

// WithContextLines sets the source window radius (default: 10). Negative
// disables source windows.
func WithContextLines(n int) Option {
	return func(c *clientConfig) {
		c.contextLines = n
	}
}

// WithFingerprinting adds a grouping fingerprint to events that have none.
func WithFingerprinting() Option {
	return func(c *clientConfig) {
		c.fingerprinting = true
	}
}

// WithoutModules disables reporting of the module versions from the build
// info.
func WithoutModules() Option {
	return func(c *clientConfig) {
		c.modules = false
	}
}

// Client captures faults and messages, and sends them to the ingestion
// endpoint. A Client is safe for concurrent use.
type Client struct {
	dsn       *DSN
	endpoint  string
	transport Transport
	logger    *zap.Logger
	stacks    *StackBuilder
	scrubber  *Scrubber
	startTime time.Time

	environment    string
	serverName     string
	tags           map[string]string
	modules        map[string]string
	fingerprinting bool

	mu             sync.Mutex
	breadcrumbs    []Breadcrumb
	maxBreadcrumbs int
}

// New creates a Client for the given DSN.
func New(dsn string, opts ...Option) (*Client, error) {
	parsed, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	cfg := &clientConfig{
		maxBreadcrumbs: defaultMaxBreadcrumbs,
		modules:        true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.transport == nil {
		t, err := httptransport.New()
		if err != nil {
			return nil, fmt.Errorf("create transport: %w", err)
		}
		cfg.transport = t
	}
	if cfg.serverName == "" {
		cfg.serverName, _ = os.Hostname() // Empty server name is acceptable
	}

	fb := NewFrameBuilder(FrameBuilderConfig{
		RootPath:     cfg.rootPath,
		ContextLines: cfg.contextLines,
		Resolver:     cfg.resolver,
		Serializer:   serializer.New(cfg.serializerCfg),
	})

	c := &Client{
		dsn:            parsed,
		endpoint:       parsed.EndpointURL(),
		transport:      cfg.transport,
		logger:         cfg.logger,
		stacks:         NewStackBuilder(fb),
		scrubber:       cfg.scrubber,
		startTime:      time.Now(),
		environment:    cfg.environment,
		serverName:     cfg.serverName,
		tags:           cfg.tags,
		fingerprinting: cfg.fingerprinting,
		maxBreadcrumbs: max(cfg.maxBreadcrumbs, 0),
	}
	if cfg.modules {
		c.modules = buildModules()
	}
	return c, nil
}

// DSN returns the parsed connection string.
func (c *Client) DSN() *DSN {
	return c.dsn
}

// StackBuilder returns the client's stack builder.
func (c *Client) StackBuilder() *StackBuilder {
	return c.stacks
}

// AddBreadcrumb records b. The oldest breadcrumb is dropped when the trail
// is full.
func (c *Client) AddBreadcrumb(b Breadcrumb) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxBreadcrumbs == 0 {
		return
	}
	if len(c.breadcrumbs) >= c.maxBreadcrumbs {
		c.breadcrumbs = append(c.breadcrumbs[:0], c.breadcrumbs[len(c.breadcrumbs)-c.maxBreadcrumbs+1:]...)
	}
	c.breadcrumbs = append(c.breadcrumbs, b)
}

// Breadcrumbs returns the recorded breadcrumbs, oldest first.
func (c *Client) Breadcrumbs() []Breadcrumb {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Breadcrumb(nil), c.breadcrumbs...)
}

// ClearBreadcrumbs drops all recorded breadcrumbs.
func (c *Client) ClearBreadcrumbs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breadcrumbs = nil
}

// Close releases the transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// buildModules reports the main module and its dependencies with versions.
func buildModules() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	modules := make(map[string]string, len(info.Deps)+1)
	if info.Main.Path != "" {
		modules[info.Main.Path] = info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		modules[dep.Path] = dep.Version
	}
	return modules
}
