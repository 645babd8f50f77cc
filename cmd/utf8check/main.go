package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/danmuck/utf8check/internal/checker"
	"github.com/danmuck/utf8check/internal/config"
	"github.com/danmuck/utf8check/internal/logging"
	"github.com/danmuck/utf8check/internal/observability"
	"github.com/danmuck/utf8check/internal/protocol/frame"
	"github.com/danmuck/utf8check/internal/utf8check"
)

const (
	exitValid       = 0
	exitInvalid     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

const (
	sourceArgs = "args"
	sourceInts = "ints"
	sourceRaw  = "raw"
)

func main() {
	logging.ConfigureRuntime()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitValid
		}
		return exitUsage
	}

	if opts.initConfig != "" {
		if err := config.WriteTemplate(opts.initConfig, opts.force); err != nil {
			fmt.Fprintf(stderr, "utf8check: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(stderr, "utf8check: wrote config template to %s\n", opts.initConfig)
		return exitValid
	}

	cfg, err := resolveConfig(opts, fs)
	if err != nil {
		fmt.Fprintf(stderr, "utf8check: %v\n", err)
		return exitUsage
	}
	if opts.explain && cfg.Format == config.FormatFrame {
		fmt.Fprintln(stderr, "utf8check: -explain is not supported with frame format; verdict frames carry the offset")
		return exitUsage
	}
	if cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}

	c := checker.New(checker.Config{Strict: cfg.Strict})
	code, err := dispatchUntilDone(ctx, c, cfg, fs.Args(), stdin, stdout, stderr, opts.explain)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(stderr, "utf8check: %v\n", err)
		code = exitInterrupted
	case err != nil:
		fmt.Fprintf(stderr, "utf8check: %v\n", err)
		code = exitUsage
	}

	if cfg.MetricsPath != "" {
		if err := writeMetrics(cfg.MetricsPath); err != nil {
			fmt.Fprintf(stderr, "utf8check: %v\n", err)
			return exitUsage
		}
	}
	return code
}

type dispatchResult struct {
	code int
	err  error
}

// dispatchUntilDone runs dispatch but returns as soon as ctx is done. Reads on
// stdin block without looking at ctx, so stdin is closed when it supports it
// and the reading goroutine is abandoned.
func dispatchUntilDone(
	ctx context.Context,
	c *checker.Checker,
	cfg config.Config,
	positional []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	explain bool,
) (int, error) {
	done := make(chan dispatchResult, 1)
	go func() {
		code, err := dispatch(ctx, c, cfg, positional, stdin, stdout, stderr, explain)
		done <- dispatchResult{code: code, err: err}
	}()

	select {
	case res := <-done:
		return res.code, res.err
	case <-ctx.Done():
		if closer, ok := stdin.(io.Closer); ok {
			closer.Close()
		}
		return exitInterrupted, ctx.Err()
	}
}

func dispatch(
	ctx context.Context,
	c *checker.Checker,
	cfg config.Config,
	positional []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	explain bool,
) (int, error) {
	switch cfg.Format {
	case config.FormatRaw:
		return runRaw(c, stdin, stdout, stderr, explain)
	case config.FormatFrame:
		limits := frame.DefaultLimits()
		limits.MaxPayloadBytes = cfg.MaxPayloadBytes
		stats, err := c.Serve(ctx, stdin, stdout, limits)
		if err != nil {
			return exitUsage, err
		}
		if stats.Invalid > 0 || stats.Rejected > 0 {
			return exitInvalid, nil
		}
		return exitValid, nil
	default:
		if len(positional) > 0 {
			return runInts(c, sourceArgs, strings.NewReader(strings.Join(positional, " ")), stdout, stderr, explain)
		}
		return runInts(c, sourceInts, stdin, stdout, stderr, explain)
	}
}

// runInts treats every non-empty line as one stream.
func runInts(c *checker.Checker, source string, r io.Reader, stdout, stderr io.Writer, explain bool) (int, error) {
	code := exitValid
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		data, err := parseInts(line)
		if err != nil {
			return exitUsage, fmt.Errorf("line %d: %w", lineNo, err)
		}
		offset := c.Inspect(source, data)
		fmt.Fprintln(stdout, strconv.FormatBool(offset < 0))
		if offset >= 0 {
			code = exitInvalid
			if explain {
				fmt.Fprintf(stderr, "line %d: rejected at offset %d: %s\n", lineNo, offset, utf8check.Bits(data[offset]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return exitUsage, fmt.Errorf("read input: %w", err)
	}
	return code, nil
}

func runRaw(c *checker.Checker, r io.Reader, stdout, stderr io.Writer, explain bool) (int, error) {
	p, err := io.ReadAll(r)
	if err != nil {
		return exitUsage, fmt.Errorf("read input: %w", err)
	}
	offset := c.InspectBytes(sourceRaw, p)
	fmt.Fprintln(stdout, strconv.FormatBool(offset < 0))
	if offset < 0 {
		return exitValid, nil
	}
	if explain {
		fmt.Fprintf(stderr, "rejected at offset %d: %s\n", offset, utf8check.Bits(int(p[offset])))
	}
	return exitInvalid, nil
}

func writeMetrics(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := observability.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
