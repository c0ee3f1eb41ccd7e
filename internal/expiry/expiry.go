package expiry

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/narayanwaraich/bookie-sub004/internal/duration"
)

// Kind identifies a token whose lifetime is configured as a duration string.
type Kind string

const (
	Access        Kind = "access"
	Refresh       Kind = "refresh"
	VerifyEmail   Kind = "verify-email"
	ResetPassword Kind = "reset-password"
)

// Kinds lists every token kind in display order.
var Kinds = []Kind{Access, Refresh, VerifyEmail, ResetPassword}

var (
	ErrUnknownKind  = errors.New("unknown token kind")
	ErrZeroLifetime = errors.New("token lifetime must be greater than zero")
)

// ParseKind validates a kind name given on the command line.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Policy holds the configured lifetime for each token kind.
type Policy map[Kind]duration.Value

// DefaultPolicy returns the lifetimes used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		Access:        "15m",
		Refresh:       "7d",
		VerifyEmail:   "24h",
		ResetPassword: "1h",
	}
}

// Calculator computes token expiry times from a Policy.
type Calculator struct {
	Policy Policy
	Parser *duration.Parser
	Now    func() time.Time
}

// NewCalculator returns a Calculator using the wall clock.
func NewCalculator(policy Policy, logger *slog.Logger) *Calculator {
	return &Calculator{
		Policy: policy,
		Parser: duration.New(logger),
		Now:    time.Now,
	}
}

// Lifetime parses the configured lifetime of kind. Configuration mistakes are
// returned as errors rather than treated as a zero lifetime.
func (c *Calculator) Lifetime(kind Kind) (time.Duration, error) {
	v, ok := c.Policy[kind]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	d, err := c.parser().Parse(string(v))
	if err != nil {
		return 0, fmt.Errorf("%s token lifetime: %w", kind, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s token lifetime %q: %w", kind, v, ErrZeroLifetime)
	}
	return d, nil
}

// ExpiresAt returns when a token of the given kind issued at issuedAt expires.
func (c *Calculator) ExpiresAt(kind Kind, issuedAt time.Time) (time.Time, error) {
	d, err := c.Lifetime(kind)
	if err != nil {
		return time.Time{}, err
	}
	return issuedAt.Add(d), nil
}

// Remaining returns how long a token issued at issuedAt stays valid, clamped
// at zero.
func (c *Calculator) Remaining(kind Kind, issuedAt time.Time) (time.Duration, error) {
	exp, err := c.ExpiresAt(kind, issuedAt)
	if err != nil {
		return 0, err
	}
	left := exp.Sub(c.now())
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

// Expired reports whether a token issued at issuedAt is no longer valid.
func (c *Calculator) Expired(kind Kind, issuedAt time.Time) (bool, error) {
	exp, err := c.ExpiresAt(kind, issuedAt)
	if err != nil {
		return false, err
	}
	return !c.now().Before(exp), nil
}

// Describe renders t relative to now, e.g. "2 hours from now".
func Describe(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func (c *Calculator) parser() *duration.Parser {
	if c.Parser == nil {
		return &duration.Parser{}
	}
	return c.Parser
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
