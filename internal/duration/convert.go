package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Converter turns a single validated component ("90m", "7d", "250") into
// milliseconds.
type Converter interface {
	Convert(token string) (int64, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(token string) (int64, error)

// Convert calls f(token).
func (f ConverterFunc) Convert(token string) (int64, error) {
	return f(token)
}

// Str2Duration is the default Converter. Supports standard Go duration units
// plus days (d) and weeks (w); a bare number is read as milliseconds.
//
// go-str2duration decides which units exist and how long one of each is.
// Units of a millisecond or more are multiplied out in int64 milliseconds, so
// a component is not limited to the range of time.Duration.
type Str2Duration struct{}

// Convert implements Converter.
func (Str2Duration) Convert(token string) (int64, error) {
	digits, unit := splitComponent(token)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, token)
	}
	if unit == "" {
		unit = "ms"
	}
	one, err := str2duration.ParseDuration("1" + unit)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrUnknownUnit, unit)
	}

	if one < time.Millisecond {
		// ns and us: the library result truncated to milliseconds.
		d, err := str2duration.ParseDuration(digits + unit)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrOverflow, token, err)
		}
		return d.Milliseconds(), nil
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, token)
	}
	mult := one.Milliseconds()
	if n > math.MaxInt64/mult {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, token)
	}
	return n * mult, nil
}

// Canonical renders ms the way go-str2duration prints durations ("1d6h30m").
func Canonical(ms int64) string {
	if ms == 0 {
		return "0s"
	}
	if ms > math.MaxInt64/int64(time.Millisecond) {
		return strconv.FormatInt(ms, 10) + "ms"
	}
	return str2duration.String(msToDuration(ms))
}

func splitComponent(token string) (digits, unit string) {
	i := strings.IndexFunc(token, func(r rune) bool { return r < '0' || r > '9' })
	if i < 0 {
		return token, ""
	}
	return token[:i], token[i:]
}
