//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/markkurossi/beaver/env"
	"sigs.k8s.io/yaml"
)

// runConfig holds the settings shared by all commands. The values
// can be loaded from a YAML file and overridden with flags.
type runConfig struct {
	Dealer    string `json:"dealer,omitempty"`
	Listen    string `json:"listen,omitempty"`
	Peer      string `json:"peer,omitempty"`
	Seed      string `json:"seed,omitempty"`
	Verbosity int    `json:"verbosity,omitempty"`
}

func defaultConfig() *runConfig {
	return &runConfig{
		Dealer: "localhost:9000",
		Listen: ":8080",
		Peer:   "localhost:8080",
	}
}

// loadConfig reads the YAML run configuration from file on top of
// the default configuration.
func loadConfig(file string) (*runConfig, error) {
	config := defaultConfig()
	if len(file) == 0 {
		return config, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return config, nil
}

// configFile returns the value of the -config argument. It is looked
// up before the command flags are parsed so that the flags override
// the file.
func configFile(args []string) string {
	for i, arg := range args {
		switch arg {
		case "-config", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		for _, prefix := range []string{"-config=", "--config="} {
			if strings.HasPrefix(arg, prefix) {
				return arg[len(prefix):]
			}
		}
	}
	return ""
}

// commonFlags implements the flags shared by all commands.
type commonFlags struct {
	config *runConfig
	err    error
}

func (c *commonFlags) setFlags(f *flag.FlagSet) {
	c.config, c.err = loadConfig(configFile(os.Args[1:]))
	if c.err != nil {
		c.config = defaultConfig()
	}
	// The file is loaded above, before the other flags are parsed.
	f.String("config", "", "YAML run configuration file")
	f.StringVar(&c.config.Dealer, "dealer", c.config.Dealer, "dealer address")
	f.StringVar(&c.config.Listen, "listen", c.config.Listen, "listen address")
	f.StringVar(&c.config.Peer, "peer", c.config.Peer, "peer address")
	f.StringVar(&c.config.Seed, "seed", c.config.Seed,
		"deterministic randomness seed (testing only)")
	f.IntVar(&c.config.Verbosity, "v", c.config.Verbosity,
		"log verbosity [0...2]")
}

// setup creates the protocol configuration and a context carrying a
// run logger. The label names the process (dealer, Alice, Bob) so
// that processes started with the same seed get independent random
// streams.
func (c *commonFlags) setup(ctx context.Context, label string) (
	context.Context, *env.Config, error) {

	if c.err != nil {
		return ctx, nil, c.err
	}
	logger := env.NewLogger(c.config.Verbosity).
		WithValues("run", uuid.NewString())

	config := &env.Config{
		Logger: logger,
	}
	if len(c.config.Seed) > 0 {
		logger.Info("using deterministic randomness", "label", label)
		config.Rand = env.DerivePRG([]byte(c.config.Seed), label)
	}
	return logr.NewContext(ctx, logger), config, nil
}
