// Package batch converts newline-separated duration lists into
// "input<TAB>milliseconds" lines.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/narayanwaraich/bookie-sub004/internal/cleanup"
	"github.com/narayanwaraich/bookie-sub004/internal/duration"
	"github.com/narayanwaraich/bookie-sub004/internal/progress"
	"github.com/narayanwaraich/bookie-sub004/internal/util"
)

const maxLineBytes = 1 << 20

// Options configures a conversion.
type Options struct {
	Strict   bool  // abort on the first invalid line instead of writing 0
	MaxBytes int64 // cap on decompressed input, 0 = unlimited
	Quiet    bool  // suppress progress logs
	Parser   *duration.Parser
	Logger   *slog.Logger
}

// Job describes where a batch is read from and written to.
type Job struct {
	Input  string // file path, or "-" for Stdin
	Output string // file path, or "" / "-" for Stdout
	Stdin  io.Reader
	Stdout io.Writer
	Options
}

// Result summarises a conversion.
type Result struct {
	Lines       int64 // non-blank, non-comment lines seen
	Converted   int64
	Invalid     int64
	Compression Compression
}

// Run opens the job's input, converts it and writes the output. File output
// is staged in a temp file tracked by tracker and renamed on success.
func Run(ctx context.Context, tracker *cleanup.Tracker, job Job) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var (
		src  io.Reader
		size int64
	)
	if job.Input == "-" || job.Input == "" {
		src = job.Stdin
	} else {
		f, err := os.Open(job.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		src = f
	}
	if src == nil {
		return nil, fmt.Errorf("no input provided")
	}

	rc, comp, err := Decompress(src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	if comp != None {
		size = 0 // compressed size says nothing about line bytes
	}

	logger := job.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("batch_input_opened", "input", job.Input, "compression", comp.String())

	counter := progress.New(size, 0, 0, logger, job.Quiet)
	counter.Start()
	defer counter.Stop()

	if job.Output == "" || job.Output == "-" {
		res, err := convert(ctx, rc, job.Stdout, job.Options, counter)
		if res != nil {
			res.Compression = comp
		}
		return res, err
	}

	if tracker == nil {
		tracker = cleanup.NewTracker(logger)
	}
	tmp, err := tracker.CreateTemp(job.Output)
	if err != nil {
		return nil, err
	}
	defer func() {
		// No-op after a successful commit.
		os.Remove(tmp.Name())
		tracker.Unregister(tmp.Name())
	}()

	res, err := convert(ctx, rc, tmp, job.Options, counter)
	if closeErr := tmp.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close output: %w", closeErr)
	}
	if err != nil {
		return nil, err
	}
	if err := tracker.Commit(tmp.Name(), job.Output); err != nil {
		return nil, err
	}
	res.Compression = comp
	return res, nil
}

// Convert reads duration strings from r, one per line, and writes
// "input<TAB>milliseconds" to w. Blank lines and lines starting with '#' are
// skipped.
func Convert(ctx context.Context, r io.Reader, w io.Writer, opts Options) (*Result, error) {
	return convert(ctx, r, w, opts, progress.New(0, 0, 0, opts.Logger, true))
}

func convert(ctx context.Context, r io.Reader, w io.Writer, opts Options, counter *progress.Counter) (*Result, error) {
	if w == nil {
		return nil, fmt.Errorf("no output provided")
	}
	parser := opts.Parser
	if parser == nil {
		parser = duration.New(opts.Logger)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cr := &countingReader{r: r}
	if opts.MaxBytes > 0 {
		cr.r = io.LimitReader(r, opts.MaxBytes+1)
	}

	sc := bufio.NewScanner(cr)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	bw := bufio.NewWriter(w)

	res := &Result{}
	var lineNo int64
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		raw := sc.Text()
		counter.Line(len(raw) + 1)
		if opts.MaxBytes > 0 && cr.n > opts.MaxBytes {
			return nil, errTooLarge(opts.MaxBytes)
		}

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		res.Lines++

		ms, err := parser.ParseMs(line)
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			logger.Warn("batch_line_invalid", "line", lineNo, "input", line, "error", err)
			res.Invalid++
			ms = 0
		} else {
			res.Converted++
		}

		if _, err := fmt.Fprintf(bw, "%s\t%d\n", line, ms); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if opts.MaxBytes > 0 && cr.n > opts.MaxBytes {
		return nil, errTooLarge(opts.MaxBytes)
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return res, nil
}

func errTooLarge(limit int64) error {
	return fmt.Errorf("batch input exceeded maximum size limit of %s", util.HumanReadableBytes(limit))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
