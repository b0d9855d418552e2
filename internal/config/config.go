// Package config loads and validates the single ambient configuration
// object threaded explicitly through every orchestrator component,
// following the teacher's YAML-plus-env-expansion-plus-ordered-validator
// shape (pkg/config/config.go, loader.go, envexpand.go, validator.go).
package config

import "github.com/codeready-toolchain/tarsy/internal/contracts"

// ConnectorMode selects whether connectors hit simulated, seeded data
// generators or real upstream APIs.
type ConnectorMode string

const (
	ConnectorModeSimulated ConnectorMode = "simulated"
	ConnectorModeLive      ConnectorMode = "live"
)

// CredentialEnv names the environment variables holding upstream
// credentials. The config layer never reads secret values itself — it
// only carries variable *names*, resolved lazily by the connector that
// needs them, so a fingerprint taken of the config never captures a
// secret.
type CredentialEnv struct {
	GA4APIKeyEnv        string `yaml:"ga4_api_key_env"`
	GoogleAdsTokenEnv   string `yaml:"google_ads_token_env"`
	WixAPITokenEnv      string `yaml:"wix_api_token_env"`
}

// AttestationConfig controls how (and whether) run artifacts are
// signed.
type AttestationConfig struct {
	Enabled        bool   `yaml:"enabled"`
	KeyringJSONEnv string `yaml:"keyring_json_env"`
}

// BudgetConfig seeds the envelope defaults and where the daily
// hard-cap ledger is persisted.
type BudgetConfig struct {
	Envelope   contracts.BudgetEnvelope `yaml:"envelope"`
	LedgerPath string                   `yaml:"ledger_path"`
}

// TelemetryConfig controls optional otel export.
type TelemetryConfig struct {
	Enabled          bool   `yaml:"enabled"`
	ServiceName      string `yaml:"service_name"`
	ExporterEndpoint string `yaml:"exporter_endpoint,omitempty"`
}

// FeatureFlags toggles optional modules independently of connector mode.
type FeatureFlags struct {
	TextWorkflowsEnabled bool `yaml:"text_workflows_enabled"`
	PipelinesEnabled     bool `yaml:"pipelines_enabled"`
	HistoryReaderEnabled bool `yaml:"history_reader_enabled"`
}

// Config is the single object constructed once at the program
// entrypoint and threaded explicitly through every component — no
// package-scoped mutable globals.
type Config struct {
	ConnectorMode ConnectorMode      `yaml:"connector_mode"`
	Credentials   CredentialEnv      `yaml:"credentials"`
	Attestation   AttestationConfig  `yaml:"attestation"`
	Budget        BudgetConfig       `yaml:"budget"`
	Telemetry     TelemetryConfig    `yaml:"telemetry"`
	Features      FeatureFlags       `yaml:"features"`
}

// Defaults returns the baseline configuration merged under whatever a
// loaded YAML document supplies, mirroring the teacher's merge-over-
// defaults loader shape.
func Defaults() *Config {
	return &Config{
		ConnectorMode: ConnectorModeSimulated,
		Attestation: AttestationConfig{
			Enabled:        false,
			KeyringJSONEnv: "ATTESTATION_KEYRING_JSON",
		},
		Budget: BudgetConfig{
			Envelope:   contracts.DefaultBudgetEnvelope(),
			LedgerPath: "./data/budget-ledger.json",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "marketing-analytics-orchestrator",
		},
		Features: FeatureFlags{
			TextWorkflowsEnabled: true,
			PipelinesEnabled:     true,
			HistoryReaderEnabled: true,
		},
	}
}
