//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the Beaver
// protocol: the source of entropy and the logger.
package env

import (
	"crypto/rand"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Config defines the global system configuration. It configures
// system operation for the dealer, the parties, and the drivers.
// Config must not be modified after being passed to any module. It
// is safe for concurrent use by multiple modules as they do not
// modify it.
type Config struct {
	Rand   io.Reader
	Logger logr.Logger
}

// GetRandom returns the source of entropy for secret sharing and
// Beaver triple generation.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetLogger returns the configured logger or a logger that discards
// all messages.
func (config *Config) GetLogger() logr.Logger {
	if config != nil && config.Logger.GetSink() != nil {
		return config.Logger
	}
	return logr.Discard()
}

// NewLogger creates a stdr based logger with the verbosity v. The
// verbosity 0 prints info messages, 1 protocol phases, and 2 every
// round. Other values fall back to 0.
func NewLogger(v int) logr.Logger {
	logger := stdr.New(nil).WithName("beaver")
	if v > 2 || v < 0 {
		v = 0
		logger.Info("Invalid verbosity, using info level")
	}
	stdr.SetVerbosity(v)

	return logger
}
