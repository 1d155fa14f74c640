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
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	spectrego "github.com/spectre-tools/spectre-go/pkg/spectre-go"
	"github.com/spf13/cobra"
)

const (
	apiKeyEnv string = "SPECTRE_API_KEY"
)

type Options struct {
	Spectre         *SpectreOptions `yaml:"spectre,omitempty"`
	Verbosity       *int            `yaml:"verbosity,omitempty"`
	PrettyLogs      bool            `yaml:"prettyLogs"`
	Output          string          `yaml:"output,omitempty"`
	MetricsTextfile string          `yaml:"metricsTextfile,omitempty"`
}

type SpectreOptions struct {
	Host string `yaml:"host"`
	// We don't support having the API key in a file because that's
	// sensitive information.
	APIKey   string        `yaml:"-"`
	Insecure bool          `yaml:"insecure"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	PageSize int           `yaml:"pageSize,omitempty"`
}

// session holds what every subcommand needs once the root command has
// parsed flags and settings.
type session struct {
	opts     *Options
	log      zerolog.Logger
	client   *spectrego.Client
	registry *prometheus.Registry
}

func GetRootCommand() *cobra.Command {
	flagOpts := &Options{Spectre: &SpectreOptions{}, Verbosity: new(int)}
	sess := &session{}
	var fileSettingsPath string

	cmd := &cobra.Command{
		Use:   "spectre info|devices|zones|collectors|cidrs|export [OPTIONS]",
		Short: "Query and configure a Lumeta Spectre Command Center.",
		Long: `Query and configure a Lumeta Spectre Command Center through its
REST API.

Requests are authenticated with an API key, which you can generate on the
Command Center CLI with "user key new <username>". The key is read from
--api-key, from the ` + apiKeyEnv + ` environment variable or, when running
in a terminal, asked interactively.`,
		Example:       "spectre devices --host i3 --zone 4 --all",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			fileOpts := &Options{Spectre: &SpectreOptions{}}
			if fileSettingsPath != "" {
				f, err := getSettingsFromFile(fileSettingsPath)
				if err != nil {
					return err
				}
				fileOpts = f
			}

			opts, err := mergeOptions(cmd, fileOpts, flagOpts)
			if err != nil {
				return err
			}

			if opts.Spectre.APIKey == "" {
				opts.Spectre.APIKey, err = getAPIKey()
				if err != nil {
					return err
				}
			}

			sess.opts = opts
			sess.log = initLogger(opts)

			clientOpts := []spectrego.ClientOption{
				spectrego.WithLogger(sess.log),
				spectrego.WithTimeout(opts.Spectre.Timeout),
				spectrego.WithPageSize(opts.Spectre.PageSize),
			}
			if opts.Spectre.Insecure {
				sess.log.Warn().Msg("server certificate will not be verified")
				clientOpts = append(clientOpts, spectrego.WithInsecureSkipVerify())
			}
			if opts.MetricsTextfile != "" {
				sess.registry = prometheus.NewRegistry()
				clientOpts = append(clientOpts, spectrego.WithMetrics(sess.registry))
			}

			sess.client, err = spectrego.NewClient(opts.Spectre.Host, opts.Spectre.APIKey, clientOpts...)
			if err != nil {
				return fmt.Errorf("cannot get Spectre client: %w", err)
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if sess.registry == nil {
				return nil
			}

			if err := prometheus.WriteToTextfile(sess.opts.MetricsTextfile, sess.registry); err != nil {
				return fmt.Errorf("cannot write metrics: %w", err)
			}

			sess.log.Debug().Str("path", sess.opts.MetricsTextfile).Msg("metrics written")
			return nil
		},
	}

	// Flags
	flags := cmd.PersistentFlags()
	flags.StringVarP(&flagOpts.Spectre.Host, "host", "a", "",
		"the Spectre Command Center, i.e. i3, 10.0.0.1:8443 or https://i3/api/rest.")
	flags.StringVar(&flagOpts.Spectre.APIKey, "api-key", "",
		"the API key to authenticate with. Prefer the "+apiKeyEnv+" environment variable.")
	flags.BoolVar(&flagOpts.Spectre.Insecure, "insecure", false,
		"whether to connect to Spectre ignoring self signed certificates.")
	flags.DurationVar(&flagOpts.Spectre.Timeout, "timeout", spectrego.DefaultTimeout,
		"the maximum duration of each request.")
	flags.IntVar(&flagOpts.Spectre.PageSize, "page-size", spectrego.DefaultPageSize,
		"how many results to request per page.")
	flags.StringVar(&fileSettingsPath, "settings-file", "",
		"path to the file containing settings")
	flags.IntVar(flagOpts.Verbosity, "verbosity", defaultVerbosity,
		"verbosity level, from 0 to 2.")
	flags.BoolVar(&flagOpts.PrettyLogs, "pretty-logs", false,
		"whether to log data in a slower but human readable format.")
	flags.StringVarP(&flagOpts.Output, "output", "o", defaultOutput,
		"output format, either yaml or json.")
	flags.StringVar(&flagOpts.MetricsTextfile, "metrics-textfile", "",
		"if set, request metrics are written to this file in the Prometheus text format.")

	// Commands
	cmd.AddCommand(
		getInfoCommand(sess),
		getDevicesCommand(sess),
		getZonesCommand(sess),
		getCollectorsCommand(sess),
		getCIDRsCommand(sess),
		getExportCommand(sess),
	)

	return cmd
}

// mergeOptions returns the settings from the file, overridden by the flags
// that were explicitly set.
func mergeOptions(cmd *cobra.Command, fileOpts, flagOpts *Options) (*Options, error) {
	opts := *fileOpts
	spectreOpts := SpectreOptions{}
	if fileOpts.Spectre != nil {
		spectreOpts = *fileOpts.Spectre
	}
	opts.Spectre = &spectreOpts

	// The API key never comes from the file.
	opts.Spectre.APIKey = flagOpts.Spectre.APIKey

	if flagOpts.Spectre.Host != "" {
		opts.Spectre.Host = flagOpts.Spectre.Host
	}
	if opts.Spectre.Host == "" {
		return nil, fmt.Errorf("no host provided")
	}

	if cmd.Flag("insecure").Changed {
		opts.Spectre.Insecure = flagOpts.Spectre.Insecure
	}

	if cmd.Flag("timeout").Changed || opts.Spectre.Timeout == 0 {
		opts.Spectre.Timeout = flagOpts.Spectre.Timeout
	}
	if opts.Spectre.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout provided")
	}

	if cmd.Flag("page-size").Changed || opts.Spectre.PageSize == 0 {
		opts.Spectre.PageSize = flagOpts.Spectre.PageSize
	}
	if opts.Spectre.PageSize <= 0 {
		return nil, fmt.Errorf("invalid page size provided")
	}

	if cmd.Flag("verbosity").Changed || opts.Verbosity == nil {
		verbosity := *flagOpts.Verbosity
		opts.Verbosity = &verbosity
	}

	if cmd.Flag("pretty-logs").Changed {
		opts.PrettyLogs = flagOpts.PrettyLogs
	}

	if cmd.Flag("output").Changed || opts.Output == "" {
		opts.Output = flagOpts.Output
	}
	if opts.Output != outputYAML && opts.Output != outputJSON {
		return nil, fmt.Errorf("invalid output format %q, must be %s or %s",
			opts.Output, outputYAML, outputJSON)
	}

	if flagOpts.MetricsTextfile != "" {
		opts.MetricsTextfile = flagOpts.MetricsTextfile
	}

	return &opts, nil
}

func getAPIKey() (string, error) {
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key, nil
	}

	return promptAPIKey()
}
