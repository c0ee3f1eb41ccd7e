package progress

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/narayanwaraich/bookie-sub004/internal/util"
)

// Counter emits structured progress logs while a batch is converted.
type Counter struct {
	TotalBytes     int64         // input size when known, 0 otherwise
	LineStep       int64         // log every LineStep lines
	RenderInterval time.Duration // interval for interval-based logs
	Logger         *slog.Logger
	Quiet          bool

	lines       atomic.Int64
	bytes       atomic.Int64
	nextLineLog int64
	done        chan struct{}
	stopOnce    sync.Once
	lastLines   int64
	lastTime    time.Time
}

// New creates a progress counter with sane defaults.
func New(totalBytes, lineStep int64, interval time.Duration, logger *slog.Logger, quiet bool) *Counter {
	if lineStep <= 0 {
		lineStep = 10000
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Counter{
		TotalBytes:     totalBytes,
		LineStep:       lineStep,
		RenderInterval: interval,
		Logger:         logger,
		Quiet:          quiet,
		nextLineLog:    lineStep,
		done:           make(chan struct{}),
	}
}

// Line records one processed line of n bytes. It must be called from a
// single goroutine.
func (c *Counter) Line(n int) {
	lines := c.lines.Add(1)
	c.bytes.Add(int64(n))

	if c.Quiet {
		return
	}
	for lines >= c.nextLineLog {
		c.log("batch_progress", lines, c.bytes.Load())
		c.nextLineLog += c.LineStep
	}
}

// Lines returns the number of lines recorded so far.
func (c *Counter) Lines() int64 {
	return c.lines.Load()
}

// Bytes returns the number of bytes recorded so far.
func (c *Counter) Bytes() int64 {
	return c.bytes.Load()
}

// Start begins interval-based logging in a goroutine
func (c *Counter) Start() {
	if c.Quiet || c.Logger == nil || c.RenderInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(c.RenderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.logInterval()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop ends interval-based logging. It is safe to call more than once.
func (c *Counter) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Counter) logInterval() {
	lines := c.lines.Load()
	// Throttle: only log if lines changed since last interval
	if lines == c.lastLines {
		return
	}

	now := time.Now()
	var linesPerSec int64
	if !c.lastTime.IsZero() {
		if elapsed := now.Sub(c.lastTime).Seconds(); elapsed > 0 {
			linesPerSec = int64(float64(lines-c.lastLines) / elapsed)
		}
	}
	c.log("batch_progress", lines, c.bytes.Load(), "lines_per_sec", linesPerSec)
	c.lastTime = now
	c.lastLines = lines
}

func (c *Counter) log(msg string, lines, bytes int64, extra ...any) {
	args := []any{
		"lines", lines,
		"read_bytes", bytes,
		"read", util.HumanReadableBytes(bytes),
	}
	if c.TotalBytes > 0 {
		args = append(args,
			"percent", int(c.percent(bytes)),
			"total", util.HumanReadableBytes(c.TotalBytes),
		)
	}
	c.Logger.Info(msg, append(args, extra...)...)
}

func (c *Counter) percent(bytes int64) float64 {
	if c.TotalBytes <= 0 {
		return 0
	}
	p := (float64(bytes) / float64(c.TotalBytes)) * 100
	if p > 100 {
		return 100
	}
	return p
}
