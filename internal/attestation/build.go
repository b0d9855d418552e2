package attestation

import "github.com/codeready-toolchain/tarsy/internal/contracts"

// Build produces a fully populated Attestation for a run: it computes
// the configuration fingerprint, assembles the canonical payload, and
// signs it when a key registry is supplied. A nil registry yields an
// unsigned attestation (fingerprint + provenance fields only, no
// signature) which is valid for local/dev runs per spec.md §4.8.
func Build(runID, artifactID string, connectorMode string, connectorConfig map[string]string, saltID, createdAt, runtimeBuild string, registry *KeyRegistry) (contracts.Attestation, *Error) {
	fp := ComputeFingerprint(connectorConfig, saltID)

	a := contracts.Attestation{
		ConnectorModeEffective:     connectorMode,
		ConnectorConfigFingerprint: fp,
		FingerprintAlg:             FingerprintAlgSHA256,
		FingerprintInputSchema:     FingerprintInputSchemaV1,
		FingerprintCreatedAt:       createdAt,
		RuntimeBuild:               runtimeBuild,
	}
	if saltID != "" {
		a.FingerprintSaltID = &saltID
	}

	if registry == nil {
		return a, nil
	}

	payload, perr := CanonicalPayload(runID, artifactID, a)
	if perr != nil {
		return contracts.Attestation{}, perr
	}
	sig, keyID := registry.SignWithActiveKey(payload)
	a.FingerprintSignature = &sig
	a.FingerprintKeyID = &keyID
	return a, nil
}

// VerifyAttestation recomputes the canonical payload for a completed
// attestation and checks its signature, rejecting unsigned
// attestations as a distinct case from a bad signature.
func VerifyAttestation(runID, artifactID string, a contracts.Attestation, registry *KeyRegistry) *Error {
	if a.FingerprintSignature == nil || a.FingerprintKeyID == nil {
		return &Error{Code: "attestation_signature_invalid", Message: "attestation carries no signature"}
	}
	payload, perr := CanonicalPayload(runID, artifactID, a)
	if perr != nil {
		return perr
	}
	return registry.VerifyWithKeyID(payload, *a.FingerprintSignature, *a.FingerprintKeyID)
}
