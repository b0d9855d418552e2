package connector

import (
	"os"
	"strings"
)

func sourceHealth(sourceSystem string, cfg SourceConfig) SourceHealth {
	if !cfg.Enabled {
		return SourceHealth{
			SourceSystem:   sourceSystem,
			Enabled:        false,
			WarningReasons: []string{"source disabled in connector config"},
		}
	}

	var missing []string
	for _, name := range cfg.RequiredEnvNames {
		if !credentialPresent(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return SourceHealth{SourceSystem: sourceSystem, Enabled: true, CredentialsPresent: true}
	}
	return SourceHealth{
		SourceSystem:    sourceSystem,
		Enabled:         true,
		WarningReasons:  []string{"missing env vars: " + strings.Join(missing, ", ")},
	}
}

func credentialPresent(envName string) bool {
	return strings.TrimSpace(os.Getenv(envName)) != ""
}

// healthcheck runs the shared preflight logic any Connector
// implementation can reuse: observed_read_only mode blocks on any
// enabled source missing credentials, simulated mode never blocks.
func healthcheck(connectorID string, cfg Config) HealthStatus {
	sources := []SourceHealth{
		sourceHealth("ga4", cfg.GA4),
		sourceHealth("google_ads", cfg.Ads),
		sourceHealth("wix_storefront", cfg.Wix),
	}

	var blocking, warning []string
	for _, s := range sources {
		if cfg.Mode == ModeObservedReadOnly && s.Enabled && !s.CredentialsPresent {
			blocking = append(blocking, s.SourceSystem+" credentials missing for observed_read_only mode")
		}
		warning = append(warning, s.WarningReasons...)
	}

	return HealthStatus{
		ConnectorID:     connectorID,
		OK:              len(blocking) == 0,
		Mode:            string(cfg.Mode),
		SourceStatus:    sources,
		BlockingReasons: blocking,
		WarningReasons:  warning,
	}
}
