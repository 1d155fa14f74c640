// Copyright (c) 2022 Cisco Systems, Inc. and its affiliates
// All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestInitLogger(t *testing.T) {
	cases := []struct {
		verbosity     int
		wantLevel     zerolog.Level
		wantVerbosity int
	}{
		{verbosity: 0, wantLevel: zerolog.DebugLevel, wantVerbosity: 0},
		{verbosity: 1, wantLevel: zerolog.InfoLevel, wantVerbosity: 1},
		{verbosity: 2, wantLevel: zerolog.ErrorLevel, wantVerbosity: 2},
		{verbosity: 3, wantLevel: zerolog.InfoLevel, wantVerbosity: defaultVerbosity},
		{verbosity: -1, wantLevel: zerolog.InfoLevel, wantVerbosity: defaultVerbosity},
	}

	for _, tc := range cases {
		verbosity := tc.verbosity
		opts := &Options{Verbosity: &verbosity}
		log := initLogger(opts)

		if log.GetLevel() != tc.wantLevel {
			t.Errorf("verbosity %d: level = %s, want %s", tc.verbosity, log.GetLevel(), tc.wantLevel)
		}
		if *opts.Verbosity != tc.wantVerbosity {
			t.Errorf("verbosity %d: corrected to %d, want %d", tc.verbosity, *opts.Verbosity, tc.wantVerbosity)
		}
	}

	opts := &Options{}
	if log := initLogger(opts); log.GetLevel() != zerolog.InfoLevel || *opts.Verbosity != defaultVerbosity {
		t.Errorf("unset verbosity: level = %s", log.GetLevel())
	}
}

func TestMergeOptionsVerbosity(t *testing.T) {
	zero, two := 0, 2

	cases := []struct {
		id       string
		fileOpts *Options
		args     []string
		want     int
	}{
		{
			id:       "neither file nor flag",
			fileOpts: &Options{Spectre: &SpectreOptions{}},
			want:     defaultVerbosity,
		},
		{
			id:       "file without verbosity",
			fileOpts: &Options{Spectre: &SpectreOptions{}, Output: outputJSON},
			want:     defaultVerbosity,
		},
		{
			id:       "file sets debug",
			fileOpts: &Options{Spectre: &SpectreOptions{}, Verbosity: &zero},
			want:     0,
		},
		{
			id:       "flag overrides file",
			fileOpts: &Options{Spectre: &SpectreOptions{}, Verbosity: &zero},
			args:     []string{"--verbosity", "2"},
			want:     2,
		},
		{
			id:       "flag lowers file verbosity",
			fileOpts: &Options{Spectre: &SpectreOptions{}, Verbosity: &two},
			args:     []string{"--verbosity", "0"},
			want:     0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			cmd := GetRootCommand()
			if err := cmd.PersistentFlags().Parse(append([]string{"--host", "i3"}, tc.args...)); err != nil {
				t.Fatalf("cannot parse flags: %v", err)
			}

			flagVerbosity, err := cmd.PersistentFlags().GetInt("verbosity")
			if err != nil {
				t.Fatal(err)
			}
			flagOpts := &Options{
				Spectre:   &SpectreOptions{Host: "i3"},
				Verbosity: &flagVerbosity,
				Output:    outputYAML,
			}
			flagOpts.Spectre.Timeout, _ = cmd.PersistentFlags().GetDuration("timeout")
			flagOpts.Spectre.PageSize, _ = cmd.PersistentFlags().GetInt("page-size")

			opts, err := mergeOptions(cmd, tc.fileOpts, flagOpts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if opts.Verbosity == nil || *opts.Verbosity != tc.want {
				t.Fatalf("verbosity = %v, want %d", opts.Verbosity, tc.want)
			}
			if level := initLogger(opts).GetLevel(); tc.want == defaultVerbosity && level != zerolog.InfoLevel {
				t.Errorf("level = %s, want info", level)
			}
		})
	}
}

func TestGetSettingsFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "settings.yaml")
	content := `spectre:
  host: i3.example.com
  insecure: true
  timeout: 30s
  pageSize: 100
verbosity: 0
output: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	settings, err := getSettingsFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.Spectre.Host != "i3.example.com" || !settings.Spectre.Insecure {
		t.Errorf("unexpected spectre settings: %+v", settings.Spectre)
	}
	if settings.Spectre.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s", settings.Spectre.Timeout)
	}
	if settings.Spectre.PageSize != 100 {
		t.Errorf("PageSize = %d", settings.Spectre.PageSize)
	}
	if settings.Output != outputJSON || settings.Verbosity == nil || *settings.Verbosity != 0 {
		t.Errorf("unexpected settings: %+v", settings)
	}

	t.Run("api key is ignored", func(t *testing.T) {
		path := filepath.Join(dir, "key.yaml")
		if err := os.WriteFile(path, []byte("spectre:\n  apiKey: secret\n  APIKey: secret\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		settings, err := getSettingsFromFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.Spectre.APIKey != "" {
			t.Error("API key must not be read from file")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}

		settings, err := getSettingsFromFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.Spectre == nil {
			t.Error("Spectre settings should not be nil")
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := getSettingsFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
		if _, err := getSettingsFromFile(dir); err == nil {
			t.Error("expected error for directory")
		}

		bad := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(bad, []byte("spectre: [this is not"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := getSettingsFromFile(bad); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestPrintResult(t *testing.T) {
	value := struct {
		Name string `json:"name" yaml:"name"`
		ID   int    `json:"id" yaml:"id"`
	}{Name: "Default", ID: 1}

	buf := &bytes.Buffer{}
	if err := printResult(buf, outputYAML, value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "name: Default\nid: 1\n" {
		t.Errorf("yaml output = %q", got)
	}

	buf.Reset()
	if err := printResult(buf, outputJSON, value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); !strings.Contains(got, `"name": "Default"`) || !strings.Contains(got, `"id": 1`) {
		t.Errorf("json output = %q", got)
	}
}
