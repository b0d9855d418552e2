package attestation

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *KeyRegistry {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_ = pub
	doc := map[string]any{
		"active_key_id": "k1",
		"keys": []map[string]string{
			{"key_id": "k1", "private_key_b64": base64.StdEncoding.EncodeToString(priv)},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	reg, rerr := NewKeyRegistryFromJSON(raw)
	require.Nil(t, rerr)
	return reg
}

func TestBuildAndVerify_RoundTrips(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := Build("run-1", "art-1", "simulated", map[string]string{"b": "2", "a": "1"}, "salt-1", "2026-07-31T00:00:00Z", "v1.0.0", reg)
	require.Nil(t, err)
	require.NotNil(t, a.FingerprintSignature)

	verr := VerifyAttestation("run-1", "art-1", a, reg)
	assert.Nil(t, verr)
}

func TestVerifyAttestation_RejectsUnknownKeyID(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := Build("run-1", "art-1", "simulated", map[string]string{"a": "1"}, "", "2026-07-31T00:00:00Z", "v1.0.0", reg)
	require.Nil(t, err)
	bogus := "bogus-key"
	a.FingerprintKeyID = &bogus

	verr := VerifyAttestation("run-1", "art-1", a, reg)
	require.NotNil(t, verr)
	assert.Equal(t, "attestation_unknown_key_id", verr.Code)
}

func TestVerifyAttestation_RejectsTamperedPayload(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := Build("run-1", "art-1", "simulated", map[string]string{"a": "1"}, "", "2026-07-31T00:00:00Z", "v1.0.0", reg)
	require.Nil(t, err)

	verr := VerifyAttestation("run-1", "art-DIFFERENT", a, reg)
	require.NotNil(t, verr)
	assert.Equal(t, "attestation_signature_invalid", verr.Code)
}

func TestComputeFingerprint_OrderIndependent(t *testing.T) {
	f1 := ComputeFingerprint(map[string]string{"a": "1", "b": "2"}, "salt")
	f2 := ComputeFingerprint(map[string]string{"b": "2", "a": "1"}, "salt")
	assert.Equal(t, f1, f2)
}

func TestBuild_UnsignedWithoutRegistry(t *testing.T) {
	a, err := Build("run-1", "art-1", "simulated", map[string]string{"a": "1"}, "", "2026-07-31T00:00:00Z", "v1.0.0", nil)
	require.Nil(t, err)
	assert.Nil(t, a.FingerprintSignature)
	assert.Nil(t, a.FingerprintKeyID)
}
