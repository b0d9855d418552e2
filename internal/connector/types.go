// Package connector defines the analytics source contract (GA4, Google
// Ads, Wix) and a deterministic simulated implementation, grounded on
// the original connector_v2 trait and its seeded data generators.
package connector

import (
	"context"
	"time"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/codeready-toolchain/tarsy/internal/ingest"
)

const ContractVersion = "analytics_connector_contract.v2"

// SourceCapability describes one upstream source a connector can
// serve.
type SourceCapability struct {
	SourceSystem string
	Granularity  []string
	ReadMode     string
}

// Capabilities is the connector's published capability contract, used
// for orchestration and UI discoverability.
type Capabilities struct {
	ConnectorID        string
	ContractVersion    string
	SupportsHealthcheck bool
	Sources            []SourceCapability
}

// SourceConfig toggles one source and names the environment variables
// its real-mode credentials live in (config never holds secret values).
type SourceConfig struct {
	Enabled          bool
	RequiredEnvNames []string
}

// Config is the connector-level configuration: mode plus per-source
// enable/credential settings.
type Config struct {
	Mode ConnectorMode
	GA4  SourceConfig
	Ads  SourceConfig
	Wix  SourceConfig
}

// ConnectorMode mirrors internal/config.ConnectorMode without an import
// cycle; callers construct it from the resolved config value.
type ConnectorMode string

const (
	ModeSimulated       ConnectorMode = "simulated"
	ModeObservedReadOnly ConnectorMode = "observed_read_only"
)

// SourceHealth is one source's preflight health result.
type SourceHealth struct {
	SourceSystem       string
	Enabled            bool
	CredentialsPresent bool
	BlockingReasons    []string
	WarningReasons     []string
}

// HealthStatus is the connector's full preflight report.
type HealthStatus struct {
	ConnectorID     string
	OK              bool
	Mode            string
	SourceStatus    []SourceHealth
	BlockingReasons []string
	WarningReasons  []string
}

// Connector is the analytics source contract every implementation
// (simulated or live) satisfies.
type Connector interface {
	Capabilities() Capabilities
	Healthcheck(ctx context.Context, cfg Config) (HealthStatus, *contracts.ContractError)
	FetchGA4Events(ctx context.Context, cfg Config, start, end time.Time, seed uint64) ([]ingest.GA4EventRaw, *contracts.ContractError)
	FetchGoogleAdsRows(ctx context.Context, cfg Config, req contracts.RunRequest, start, end time.Time, seed uint64) ([]ingest.GoogleAdsRowRaw, *contracts.ContractError)
	FetchWixOrders(ctx context.Context, cfg Config, start, end time.Time, seed uint64) ([]ingest.WixOrderRaw, *contracts.ContractError)
	FetchWixSessions(ctx context.Context, cfg Config, start, end time.Time, seed uint64) ([]ingest.WixSessionRaw, *contracts.ContractError)
}
