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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	defaultVerbosity int = 1

	outputYAML    string = "yaml"
	outputJSON    string = "json"
	defaultOutput string = outputYAML
)

func initLogger(opts *Options) (log zerolog.Logger) {
	logLevels := [3]zerolog.Level{
		zerolog.DebugLevel,
		zerolog.InfoLevel,
		zerolog.ErrorLevel,
	}

	verbosity := defaultVerbosity
	if opts.Verbosity != nil {
		verbosity = *opts.Verbosity
	}

	if verbosity < 0 || verbosity >= len(logLevels) {
		fmt.Fprintln(os.Stderr, "invalid verbosity level provided, using default...")
		verbosity = defaultVerbosity
	}
	opts.Verbosity = &verbosity

	if opts.PrettyLogs {
		log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
		})).With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	log = log.Level(logLevels[verbosity])
	return log
}

func getSettingsFromFile(settingsPath string) (*Options, error) {
	file, err := os.Open(settingsPath)
	switch {
	case err == nil:
		stat, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("could not check file path: %w", err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("provided file path is a directory")
		}
	case os.IsNotExist(err):
		return nil, fmt.Errorf("provided file path does not exist")
	default:
		return nil, fmt.Errorf("could not open file path: %w", err)
	}

	defer file.Close()

	var settings Options
	if err := yaml.NewDecoder(file).Decode(&settings); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not unmarshal settings file: %w", err)
	}

	if settings.Spectre == nil {
		settings.Spectre = &SpectreOptions{}
	}

	return &settings, nil
}

// promptAPIKey asks for the API key, without echoing it. It fails if stdin
// is not a terminal.
func promptAPIKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no API key provided: use --api-key or %s", apiKeyEnv)
	}

	fmt.Fprint(os.Stderr, "Please enter your Spectre API key (input will be hidden): ")
	byteKey, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read API key: %w", err)
	}

	key := strings.TrimSpace(string(byteKey))
	if key == "" {
		return "", fmt.Errorf("no API key provided")
	}

	return key, nil
}

func printResult(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
