package connector

import (
	"context"
	"testing"
	"time"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities_PublishesContractMetadata(t *testing.T) {
	c := NewSimulated()
	caps := c.Capabilities()
	assert.Equal(t, ContractVersion, caps.ContractVersion)
	assert.Len(t, caps.Sources, 3)
	assert.True(t, caps.SupportsHealthcheck)
}

func TestHealthcheck_BlocksObservedModeWhenCredentialsMissing(t *testing.T) {
	c := NewSimulated()
	cfg := Config{
		Mode: ModeObservedReadOnly,
		GA4:  SourceConfig{Enabled: true, RequiredEnvNames: []string{"GA4_MISSING_SECRET"}},
		Ads:  SourceConfig{Enabled: true, RequiredEnvNames: []string{"ADS_MISSING_TOKEN"}},
		Wix:  SourceConfig{Enabled: true, RequiredEnvNames: []string{"WIX_MISSING_TOKEN"}},
	}
	status, err := c.Healthcheck(context.Background(), cfg)
	require.Nil(t, err)
	assert.False(t, status.OK)
	assert.NotEmpty(t, status.BlockingReasons)
}

func TestFetchGoogleAdsRows_SeedStable(t *testing.T) {
	c := NewSimulated()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	req := contracts.RunRequest{ProfileID: "stable"}

	a, err := c.FetchGoogleAdsRows(context.Background(), Config{}, req, start, end, 42)
	require.Nil(t, err)
	b, err := c.FetchGoogleAdsRows(context.Background(), Config{}, req, start, end, 42)
	require.Nil(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i], b[i])
	}
}

func TestFetchGoogleAdsRows_FiltersByCampaignName(t *testing.T) {
	c := NewSimulated()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	filter := "Senior Dog"
	req := contracts.RunRequest{ProfileID: "filtered", CampaignFilter: &filter}

	rows, err := c.FetchGoogleAdsRows(context.Background(), Config{}, req, start, start, 7)
	require.Nil(t, err)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.Contains(t, r.CampaignName, "Senior Dog")
	}
}
