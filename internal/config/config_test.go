package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsValidDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ConnectorModeSimulated, cfg.ConnectorMode)
	assert.True(t, cfg.Features.TextWorkflowsEnabled)
}

func TestValidateAll_RejectsLiveModeWithoutCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.ConnectorMode = ConnectorModeLive
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateAll_RejectsNonPositiveEnvelopeCap(t *testing.T) {
	cfg := Defaults()
	cfg.Budget.Envelope.MaxRetrievalUnits = 0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateAll_RejectsAttestationEnabledWithoutKeyringEnv(t *testing.T) {
	cfg := Defaults()
	cfg.Attestation.Enabled = true
	cfg.Attestation.KeyringJSONEnv = ""
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestExpandEnv_ExpandsBraceAndBareForm(t *testing.T) {
	t.Setenv("TEST_CONFIG_VAR", "expanded")
	out := ExpandEnv([]byte("value: ${TEST_CONFIG_VAR}/$TEST_CONFIG_VAR"))
	assert.Equal(t, "value: expanded/expanded", string(out))
}
