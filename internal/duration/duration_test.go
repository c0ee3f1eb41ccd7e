package duration

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietParser() *Parser {
	return New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestToMs_SingleUnit(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"0s", 0},
		{"1s", 1000},
		{"45s", 45 * 1000},
		{"1m", 60000},
		{"30m", 30 * 60000},
		{"1h", 3600000},
		{"12h", 12 * 3600000},
		{"1d", 86400000},
		{"7d", 7 * 86400000},
		{"1w", 7 * 86400000},
		{"250ms", 250},
		{"250", 250},
		{"3000000ns", 3},
		{"500us", 0},
	}

	p := quietParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ToMs(tt.input))
		})
	}
}

func TestToMs_Composite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"hours and minutes", "1h 30m", 1*3600000 + 30*60000},
		{"days hours seconds", "2d 5h 10s", 2*86400000 + 5*3600000 + 10*1000},
		{"no separator", "5m30s", 5*60000 + 30*1000},
		{"surrounding whitespace", " 1h  30m ", 1*3600000 + 30*60000},
		{"tabs and newlines", "1h\t30m\n", 1*3600000 + 30*60000},
		{"repeated unit", "1h 1h", 2 * 3600000},
		{"bare number component", "1s 500", 1500},
		{"any order", "30m 1h", 1*3600000 + 30*60000},
	}

	p := quietParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ToMs(tt.input))
		})
	}
}

func TestToMs_InvalidReturnsZero(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"invalid",
		"10x",
		"1 hour",
		"h1",
		"-5m",
		"1.5h",
		"1h,30m",
		"5M",
		"99999999999999999999h",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var buf bytes.Buffer
			p := New(slog.New(slog.NewTextHandler(&buf, nil)))

			assert.Equal(t, int64(0), p.ToMs(input))
			assert.Contains(t, buf.String(), "duration_parse_failed")
			assert.Contains(t, buf.String(), "component=duration")
		})
	}
}

func TestToMs_LargeValues(t *testing.T) {
	p := quietParser()
	assert.Equal(t, int64(365*86400000), p.ToMs("365d"))
	assert.Equal(t, int64(52*7*86400000), p.ToMs("52w"))
}

func TestParseMs_BeyondDurationRange(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"106751d", 106751 * 86400000},
		{"106752d", 106752 * 86400000},
		{"2562048h", 2562048 * 3600000},
		{"15251w", 15251 * 7 * 86400000},
		{"9223372036854775807", math.MaxInt64},
		{"9223372036854775807ms", math.MaxInt64},
		{"106752d 1h", 106752*86400000 + 3600000},
	}

	p := quietParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.ParseMs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected, p.ToMs(tt.input))
		})
	}
}

func TestParseMs_Int64Boundary(t *testing.T) {
	p := quietParser()

	for _, input := range []string{
		"9223372036854775808",
		"106751991168d",
		"9223372036854775807 1",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := p.ParseMs(input)
			assert.ErrorIs(t, err, ErrOverflow)
			assert.Equal(t, int64(0), p.ToMs(input))
		})
	}
}

func TestToMs_Idempotent(t *testing.T) {
	p := quietParser()
	for _, input := range []string{"1h 30m", "invalid", "", "365d"} {
		assert.Equal(t, p.ToMs(input), p.ToMs(input), input)
	}
}

func TestToMs_ValidInputDoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Equal(t, int64(90*60000), p.ToMs("90m"))
	assert.Empty(t, buf.String())
}

func TestParseMs_TypedErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"invalid", ErrSyntax},
		{"1 hour", ErrSyntax},
		{"10x", ErrUnknownUnit},
		{"1h 3y", ErrUnknownUnit},
		{"99999999999999999999h", ErrOverflow},
	}

	p := quietParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ms, err := p.ParseMs(tt.input)
			require.Error(t, err)
			assert.Equal(t, int64(0), ms)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.input, perr.Input)
			assert.Contains(t, err.Error(), "invalid duration")
		})
	}
}

func TestParse_Duration(t *testing.T) {
	p := quietParser()

	d, err := p.Parse("1h 30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = p.Parse("soon")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParse_SumOverflow(t *testing.T) {
	p := &Parser{
		Converter: ConverterFunc(func(string) (int64, error) { return math.MaxInt64, nil }),
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}

	_, err := p.ParseMs("1a 1a")
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, int64(0), p.ToMs("1a 1a"))

	// Fits in int64 milliseconds but not in time.Duration.
	_, err = p.Parse("1a")
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = quietParser().Parse("106752d")
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestParser_CustomConverter(t *testing.T) {
	calls := 0
	p := &Parser{
		Converter: ConverterFunc(func(token string) (int64, error) {
			calls++
			if strings.HasSuffix(token, "t") {
				return 10, nil
			}
			return 0, ErrUnknownUnit
		}),
	}

	ms, err := p.ParseMs("1t 2t 3t")
	require.NoError(t, err)
	assert.Equal(t, int64(30), ms)
	assert.Equal(t, 3, calls)

	_, err = p.ParseMs("1h")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestParseDurationToMs_ZeroValueParser(t *testing.T) {
	assert.Equal(t, int64(3600000), ParseDurationToMs("1h"))

	var p Parser
	assert.Equal(t, int64(60000), p.ToMs("1m"))
}

func TestToMs_Concurrent(t *testing.T) {
	p := quietParser()

	var wg sync.WaitGroup
	results := make([]int64, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.ToMs("2d 5h 10s")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, int64(2*86400000+5*3600000+10*1000), got)
	}
}

func TestCanonical_RoundTrips(t *testing.T) {
	p := quietParser()
	assert.Equal(t, "0s", Canonical(0))

	for _, ms := range []int64{1, 1500, 90 * 60000, 2*86400000 + 5*3600000 + 10*1000, 365 * 86400000} {
		got, err := p.ParseMs(Canonical(ms))
		require.NoError(t, err, Canonical(ms))
		assert.Equal(t, ms, got)
	}

	for _, input := range []string{"106752d", "9223372036854775807"} {
		huge, err := p.ParseMs(input)
		require.NoError(t, err)

		canon := Canonical(huge)
		assert.Equal(t, strconv.FormatInt(huge, 10)+"ms", canon)
		got, err := p.ParseMs(canon)
		require.NoError(t, err)
		assert.Equal(t, huge, got)
	}
}
