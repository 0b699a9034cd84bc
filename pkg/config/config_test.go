// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testConfig struct {
	Procs   int      `json:"procs" yaml:"procs"`
	Precise bool     `json:"precise" yaml:"precise"`
	Disable []string `json:"disable" yaml:"disable"`
	Nested  *struct {
		Name string `json:"name" yaml:"name"`
	} `json:"nested" yaml:"nested"`
}

func TestLoadData(t *testing.T) {
	tests := []struct {
		input  string
		output testConfig
		err    bool
	}{
		{`{"procs": 4}`, testConfig{Procs: 4}, false},
		{"# comment\n{\n\t# another\n\t\"precise\": true\n}", testConfig{Precise: true}, false},
		{`{"disable": ["2.3", "19.1"]}`, testConfig{Disable: []string{"2.3", "19.1"}}, false},
		{`{"foobar": 42}`, testConfig{}, true},
		{`{"procs": "many"}`, testConfig{}, true},
	}
	for _, test := range tests {
		var cfg testConfig
		err := LoadData([]byte(test.input), &cfg)
		if test.err != (err != nil) {
			t.Errorf("%q: want error %v, got %v", test.input, test.err, err)
			continue
		}
		if err != nil {
			continue
		}
		if diff := cmp.Diff(test.output, cfg); diff != "" {
			t.Errorf("%q:\n%v", test.input, diff)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	var cfg testConfig
	input := "procs: 2\ndisable:\n  - \"2.3\"\nnested:\n  name: x\n"
	if err := LoadYAML([]byte(input), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Procs != 2 || len(cfg.Disable) != 1 || cfg.Nested == nil || cfg.Nested.Name != "x" {
		t.Fatalf("bad config: %+v", cfg)
	}
	if err := LoadYAML([]byte("unknown: 1\n"), &cfg); err == nil {
		t.Fatalf("unknown field is accepted")
	}
	if err := LoadYAML(nil, &cfg); err != nil {
		t.Fatalf("empty config: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "cfg.json")
	yamlFile := filepath.Join(dir, "cfg.yml")
	if err := os.WriteFile(jsonFile, []byte(`{"procs": 3}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlFile, []byte("procs: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	if err := LoadFile(jsonFile, &cfg); err != nil || cfg.Procs != 3 {
		t.Fatalf("json: %v %+v", err, cfg)
	}
	if err := LoadFile(yamlFile, &cfg); err != nil || cfg.Procs != 5 {
		t.Fatalf("yaml: %v %+v", err, cfg)
	}
	if err := LoadFile("", &cfg); err == nil {
		t.Fatalf("empty file name is accepted")
	}
	if err := LoadFile(filepath.Join(dir, "missing.json"), &cfg); err == nil {
		t.Fatalf("missing file is accepted")
	}
}
