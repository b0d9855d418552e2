// Package attestation builds the canonical payload, signs and verifies
// it with Ed25519, and resolves keys through a rotation-aware registry,
// grounded verbatim on the original implementation's field order and
// error codes.
package attestation

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

const (
	SignaturePrefix    = "ed25519:"
	PayloadSchemaV1    = "attestation-v1"
)

// Error is the structured diagnostic attestation operations return.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// CanonicalPayload builds the exact newline-separated payload spec.md
// §4.8 describes. Every value is pre-trimmed; a missing created_at is a
// fatal error.
func CanonicalPayload(runID, artifactID string, a contracts.Attestation) (string, *Error) {
	createdAt := strings.TrimSpace(a.FingerprintCreatedAt)
	if createdAt == "" {
		return "", &Error{Code: "attestation_created_at_missing", Message: "fingerprint_created_at is required"}
	}

	lines := []string{
		PayloadSchemaV1,
		"run_id=" + strings.TrimSpace(runID),
		"artifact_id=" + strings.TrimSpace(artifactID),
		"created_at=" + createdAt,
		"mode=" + strings.TrimSpace(a.ConnectorModeEffective),
		"fingerprint_alg=" + strings.TrimSpace(a.FingerprintAlg),
		"fingerprint_schema=" + strings.TrimSpace(a.FingerprintInputSchema),
		"fingerprint=" + strings.TrimSpace(a.ConnectorConfigFingerprint),
		"runtime_build=" + strings.TrimSpace(a.RuntimeBuild),
	}
	return strings.Join(lines, "\n"), nil
}

// Sign signs the canonical payload with an Ed25519 private key (a
// 32-byte seed or a 64-byte keypair) and returns the
// "ed25519:"-prefixed unpadded-base64 signature.
func Sign(payload string, privateKey ed25519.PrivateKey) string {
	if len(privateKey) == ed25519.SeedSize {
		privateKey = ed25519.NewKeyFromSeed(privateKey)
	}
	sig := ed25519.Sign(privateKey, []byte(payload))
	return SignaturePrefix + base64.RawStdEncoding.EncodeToString(sig)
}

// DecodePrivateKey accepts either a 32-byte seed or a 64-byte keypair,
// both base64-encoded, matching ATTESTATION_ED25519_PRIVATE_KEY's
// documented shapes.
func DecodePrivateKey(b64 string) (ed25519.PrivateKey, *Error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(b64)
	}
	if err != nil {
		return nil, &Error{Code: "attestation_private_key_invalid", Message: "private key is not valid base64"}
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, &Error{Code: "attestation_private_key_invalid", Message: "private key must be a 32-byte seed or 64-byte keypair"}
	}
}

// Verify decodes the "ed25519:"-prefixed signature and verifies it
// against the canonical payload using the supplied public key.
func Verify(payload string, signature string, publicKey ed25519.PublicKey) *Error {
	if !strings.HasPrefix(signature, SignaturePrefix) {
		return &Error{Code: "attestation_signature_invalid", Message: "signature missing ed25519: prefix"}
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(signature, SignaturePrefix))
	if err != nil {
		return &Error{Code: "attestation_signature_invalid", Message: "signature is not valid base64"}
	}
	if !ed25519.Verify(publicKey, []byte(payload), raw) {
		return &Error{Code: "attestation_signature_invalid", Message: "signature does not verify against payload"}
	}
	return nil
}
