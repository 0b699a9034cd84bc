// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package scanconfig

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/misrascan/misrascan/pkg/clex"
	"github.com/misrascan/misrascan/pkg/config"
	"github.com/misrascan/misrascan/pkg/misra"
)

func LoadData(data []byte) (*Config, error) {
	cfg := defaultValues()
	if err := config.LoadData(data, cfg); err != nil {
		return nil, err
	}
	if err := Complete(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(filename string) (*Config, error) {
	cfg := defaultValues()
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	if err := Complete(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a complete config with all built-in rules.
func Default() *Config {
	cfg := defaultValues()
	if err := Complete(cfg); err != nil {
		panic(fmt.Sprintf("default config is broken: %v", err))
	}
	return cfg
}

func defaultValues() *Config {
	return &Config{
		Extensions: []string{".c", ".h"},
		Procs:      runtime.NumCPU(),
	}
}

// Complete checks the config and resolves the rule selection.
// It can be called again after fields were changed (e.g. by command line flags).
func Complete(cfg *Config) error {
	if cfg.Procs < 1 || cfg.Procs > 1024 {
		return fmt.Errorf("bad config param procs: %v, want [1, 1024]", cfg.Procs)
	}
	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("config param extensions is empty")
	}
	for i, ext := range cfg.Extensions {
		if ext == "" || strings.ContainsAny(ext, "/\\") {
			return fmt.Errorf("bad config param extensions: %q", ext)
		}
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}
	cfg.matchTimeout = 0
	if cfg.MatchTimeout != "" {
		timeout, err := time.ParseDuration(cfg.MatchTimeout)
		if err != nil {
			return fmt.Errorf("bad config param match_timeout: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("bad config param match_timeout: %v, want positive", cfg.MatchTimeout)
		}
		cfg.matchTimeout = timeout
	}
	for _, kw := range cfg.Keywords {
		if !isIdent(kw) {
			return fmt.Errorf("bad config param keywords: %q is not an identifier", kw)
		}
	}
	cat, err := misra.DefaultCatalog().Extend(cfg.Rules)
	if err != nil {
		return fmt.Errorf("bad config param rules: %w", err)
	}
	if cat, err = cat.Select(cfg.Enable, cfg.Disable); err != nil {
		return err
	}
	cfg.Catalog = cat
	return nil
}

// Engine creates a rule engine for a completed config.
func (cfg *Config) Engine() (*misra.Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("config is not completed")
	}
	opts := misra.Options{
		Precise:      cfg.Precise,
		MatchTimeout: cfg.matchTimeout,
	}
	if len(cfg.Keywords) != 0 {
		opts.Keywords = clex.NewKeywords(cfg.Keywords...)
	}
	return misra.NewEngine(cfg.Catalog, opts)
}

func isIdent(s string) bool {
	for i, c := range s {
		switch {
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case i != 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return s != ""
}
