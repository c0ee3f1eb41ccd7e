// Package duration converts human-authored duration strings such as "1h 30m"
// or "7d" into milliseconds.
//
// A string is one or more components, each a run of digits optionally
// followed by a unit suffix, separated by optional whitespace. Components are
// added together. A component without a unit counts as milliseconds.
package duration

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	// wholePattern is the structural gate for the entire (trimmed) input.
	wholePattern = regexp.MustCompile(`^(?:[0-9]+[a-zA-Z]*\s*)+$`)
	// componentPattern finds the individual components.
	componentPattern = regexp.MustCompile(`[0-9]+[a-zA-Z]*`)
	// tokenPattern re-checks one component in isolation.
	tokenPattern = regexp.MustCompile(`^[0-9]+[a-zA-Z]*$`)
)

// Parser validates duration strings and delegates unit conversion to a
// Converter. The zero value is ready to use. A Parser holds no mutable state
// and is safe for concurrent use.
type Parser struct {
	Converter Converter
	Logger    *slog.Logger
}

// New returns a Parser using the default converter and the given logger.
func New(logger *slog.Logger) *Parser {
	return &Parser{Converter: Str2Duration{}, Logger: logger}
}

// ParseMs returns the total number of milliseconds in s. Every failure is
// reported as a *ParseError; no partial sum is ever returned.
func (p *Parser) ParseMs(s string) (int64, error) {
	ms, err := p.parse(s)
	if err != nil {
		return 0, &ParseError{Input: s, Err: err}
	}
	return ms, nil
}

// Parse is ParseMs expressed as a time.Duration.
func (p *Parser) Parse(s string) (time.Duration, error) {
	ms, err := p.ParseMs(s)
	if err != nil {
		return 0, err
	}
	if ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, &ParseError{Input: s, Err: ErrOverflow}
	}
	return msToDuration(ms), nil
}

// ToMs returns the total number of milliseconds in s, or 0 when s is empty or
// invalid. Failures are logged at warn level.
func (p *Parser) ToMs(s string) int64 {
	ms, err := p.ParseMs(s)
	if err != nil {
		p.logger().Warn("duration_parse_failed",
			"component", "duration",
			"input", s,
			"error", err,
		)
		return 0
	}
	return ms
}

// ParseDurationToMs converts s to milliseconds with a default Parser that
// logs to slog.Default(). Invalid or empty input yields 0.
func ParseDurationToMs(s string) int64 {
	return (&Parser{}).ToMs(s)
}

func (p *Parser) parse(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, ErrEmpty
	}
	if !wholePattern.MatchString(trimmed) {
		return 0, ErrSyntax
	}

	conv := p.converter()
	var total int64
	for _, token := range componentPattern.FindAllString(trimmed, -1) {
		if !tokenPattern.MatchString(token) {
			return 0, ErrSyntax
		}
		ms, err := conv.Convert(token)
		if err != nil {
			return 0, err
		}
		if ms < 0 {
			return 0, ErrOverflow
		}
		if total > math.MaxInt64-ms {
			return 0, ErrOverflow
		}
		total += ms
	}
	return total, nil
}

func (p *Parser) converter() Converter {
	if p == nil || p.Converter == nil {
		return Str2Duration{}
	}
	return p.Converter
}

func (p *Parser) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
