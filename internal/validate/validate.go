// Package validate decides whether a submitted string is an acceptable
// absolute http(s) URL whose host resolves.
package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidURL is returned for every rejected candidate, whatever the cause.
var ErrInvalidURL = errors.New("invalid url")

// DefaultTimeout bounds a single host lookup.
const DefaultTimeout = 5 * time.Second

// Resolver looks up the addresses of a host.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// LookupObserver is notified after every host lookup.
type LookupObserver func(host string, elapsed time.Duration, err error)

// ParsedURL is a candidate that passed validation.
type ParsedURL struct {
	Raw  string
	Host string
}

// Validator checks syntax first and then host resolution.
type Validator struct {
	syntax   *validator.Validate
	resolver Resolver
	timeout  time.Duration
	observe  LookupObserver
	logger   *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithResolver replaces the system resolver.
func WithResolver(r Resolver) Option {
	return func(v *Validator) {
		v.resolver = r
	}
}

// WithTimeout sets the lookup timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithLookupObserver registers a callback run after each lookup.
func WithLookupObserver(fn LookupObserver) Option {
	return func(v *Validator) {
		v.observe = fn
	}
}

// New creates a Validator backed by net.DefaultResolver unless overridden.
func New(logger *zap.Logger, opts ...Option) *Validator {
	v := &Validator{
		syntax:   validator.New(),
		resolver: net.DefaultResolver,
		timeout:  DefaultTimeout,
		observe:  func(string, time.Duration, error) {},
		logger:   logger,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate runs the syntactic check and then resolves the host.
func (v *Validator) Validate(ctx context.Context, candidate string) (*ParsedURL, error) {
	parsed, err := v.Parse(candidate)
	if err != nil {
		return nil, err
	}

	if err = v.resolve(ctx, parsed.Host); err != nil {
		return nil, err
	}

	return parsed, nil
}

// Parse performs only the syntactic part of validation.
func (v *Validator) Parse(candidate string) (*ParsedURL, error) {
	if candidate == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	// Scheme must be spelled exactly; the tag check below is case-insensitive.
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		return nil, fmt.Errorf("%w: unsupported scheme", ErrInvalidURL)
	}

	if err := v.syntax.Var(candidate, "required,http_url"); err != nil {
		return nil, fmt.Errorf("%w: malformed", ErrInvalidURL)
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return &ParsedURL{Raw: candidate, Host: host}, nil
}

func (v *Validator) resolve(ctx context.Context, host string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	addrs, err := v.resolver.LookupHost(ctx, host)

	if err == nil && len(addrs) == 0 {
		err = fmt.Errorf("no addresses for %s", host)
	}

	v.observe(host, time.Since(start), err)

	if err != nil {
		v.logger.Info("dns lookup failed", zap.String("host", host), zap.Error(err))

		return fmt.Errorf("%w: lookup %s: %w", ErrInvalidURL, host, err)
	}

	v.logger.Debug("dns lookup succeeded", zap.String("host", host), zap.Strings("addresses", addrs))

	return nil
}
