package main

import (
	"flag"
	"io"
	"strings"

	"github.com/danmuck/utf8check/internal/config"
)

type options struct {
	configPath string
	format     string
	strict     bool
	metrics    string
	explain    bool
	initConfig string
	force      bool
}

func parseFlags(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("utf8check", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "toml config path")
	fs.StringVar(&opts.format, "format", "", "input format: ints|raw|frame (overrides config)")
	fs.BoolVar(&opts.strict, "strict", false, "reject values outside [0,255] instead of truncating")
	fs.StringVar(&opts.metrics, "metrics", "", "write prometheus text metrics to this path on exit")
	fs.BoolVar(&opts.explain, "explain", false, "print the first rejected byte of invalid streams to stderr")
	fs.StringVar(&opts.initConfig, "init-config", "", "write a config template to this path and exit")
	fs.BoolVar(&opts.force, "force", false, "overwrite an existing config with -init-config")
	if err := fs.Parse(args); err != nil {
		return options{}, fs, err
	}
	return opts, fs, nil
}

// resolveConfig layers flags over the config file over defaults.
func resolveConfig(opts options, fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["format"] {
		cfg.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	if set["strict"] {
		cfg.Strict = opts.strict
	}
	if set["metrics"] {
		cfg.MetricsPath = strings.TrimSpace(opts.metrics)
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
