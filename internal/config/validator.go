package config

import (
	"fmt"
)

// Validator validates configuration comprehensively with clear,
// field-scoped error messages.
type Validator struct {
	cfg *Config
}

func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll validates in dependency order — connector mode first
// since it governs whether credentials are required at all — and
// fails fast at the first defect, exactly as config.Validator.ValidateAll
// does in the teacher.
func (v *Validator) ValidateAll() error {
	if err := v.validateConnectorMode(); err != nil {
		return fmt.Errorf("connector mode validation failed: %w", err)
	}
	if err := v.validateCredentials(); err != nil {
		return fmt.Errorf("credential validation failed: %w", err)
	}
	if err := v.validateAttestation(); err != nil {
		return fmt.Errorf("attestation validation failed: %w", err)
	}
	if err := v.validateBudget(); err != nil {
		return fmt.Errorf("budget validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateConnectorMode() error {
	switch v.cfg.ConnectorMode {
	case ConnectorModeSimulated, ConnectorModeLive:
		return nil
	default:
		return NewValidationError("connector", "connector_mode", fmt.Errorf("unknown mode %q", v.cfg.ConnectorMode))
	}
}

func (v *Validator) validateCredentials() error {
	if v.cfg.ConnectorMode != ConnectorModeLive {
		return nil
	}
	c := v.cfg.Credentials
	if c.GA4APIKeyEnv == "" || c.GoogleAdsTokenEnv == "" || c.WixAPITokenEnv == "" {
		return NewValidationError("credentials", "*_env", fmt.Errorf("live connector mode requires all three credential env-var names to be set"))
	}
	return nil
}

func (v *Validator) validateAttestation() error {
	a := v.cfg.Attestation
	if a.Enabled && a.KeyringJSONEnv == "" {
		return NewValidationError("attestation", "keyring_json_env", fmt.Errorf("signing is enabled but no keyring env var name was configured"))
	}
	return nil
}

func (v *Validator) validateBudget() error {
	env := v.cfg.Budget.Envelope
	if env.MaxRetrievalUnits <= 0 || env.MaxAnalysisUnits <= 0 || env.MaxLLMTokensIn <= 0 || env.MaxLLMTokensOut <= 0 || env.MaxTotalCostMicros <= 0 {
		return NewValidationError("budget", "envelope", fmt.Errorf("every envelope cap must be positive"))
	}
	if v.cfg.Budget.LedgerPath == "" {
		return NewValidationError("budget", "ledger_path", fmt.Errorf("ledger_path is required"))
	}
	return nil
}
