// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import "time"

// Config represents the application configuration
type Config struct {
	Version       string
	Host          string `toml:"host" mapstructure:"host"`
	Port          int    `toml:"port" mapstructure:"port"`
	BaseURL       string `toml:"baseUrl" mapstructure:"baseUrl"`
	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`
	PprofEnabled  bool   `toml:"pprofEnabled" mapstructure:"pprofEnabled"`

	MetricsEnabled bool   `toml:"metricsEnabled" mapstructure:"metricsEnabled"`
	MetricsHost    string `toml:"metricsHost" mapstructure:"metricsHost"`
	MetricsPort    int    `toml:"metricsPort" mapstructure:"metricsPort"`

	// Engine connection. LocalFilesystemAccess declares that the engine's
	// download paths are mounted in this process's filesystem namespace,
	// which enables the free-space capability.
	EngineURL             string        `toml:"engineUrl" mapstructure:"engineUrl"`
	EngineUsername        string        `toml:"engineUsername" mapstructure:"engineUsername"`
	EnginePassword        string        `toml:"enginePassword" mapstructure:"enginePassword"`
	EngineTLSSkipVerify   bool          `toml:"engineTlsSkipVerify" mapstructure:"engineTlsSkipVerify"`
	EngineTimeout         time.Duration `toml:"engineTimeout" mapstructure:"engineTimeout"`
	LocalFilesystemAccess bool          `toml:"localFilesystemAccess" mapstructure:"localFilesystemAccess"`

	// Recovery engine tuning.
	RecoveryPollInterval  time.Duration `toml:"recoveryPollInterval" mapstructure:"recoveryPollInterval"`
	RecoveryVerifyTimeout time.Duration `toml:"recoveryVerifyTimeout" mapstructure:"recoveryVerifyTimeout"`
	RecoveryProbeAttempts uint          `toml:"recoveryProbeAttempts" mapstructure:"recoveryProbeAttempts"`
	RecoveryProbeDelay    time.Duration `toml:"recoveryProbeDelay" mapstructure:"recoveryProbeDelay"`
	RecoveryHistorySize   int           `toml:"recoveryHistorySize" mapstructure:"recoveryHistorySize"`
}
