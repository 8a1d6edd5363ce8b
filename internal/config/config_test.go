package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:51234", cfg.LedgerRPCURL)
	assert.Equal(t, 30*time.Second, cfg.CollectionFrequency)
	assert.Equal(t, 300*time.Second, cfg.UserConfigRefreshInterval)
	assert.Nil(t, cfg.SourceTagPtr())
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("LEDGER_RPC_URL", "http://node.example.com:51234")
	t.Setenv("COLLECTION_FREQUENCY", "15")
	t.Setenv("SOURCE_TAG", "12345")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://node.example.com:51234", cfg.LedgerRPCURL)
	assert.Equal(t, 15*time.Second, cfg.CollectionFrequency)
	require.NotNil(t, cfg.SourceTagPtr())
	assert.EqualValues(t, 12345, *cfg.SourceTagPtr())
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())
}
