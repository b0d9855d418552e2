package attestation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	FingerprintAlgSHA256  = "sha256"
	FingerprintInputSchemaV1 = "connector_config.v1"
)

// ComputeFingerprint hashes the connector's effective configuration
// after sorting keys, so the digest is stable regardless of map
// iteration order. Secret values must already be redacted by the
// caller; fingerprinting never sees raw credentials.
func ComputeFingerprint(config map[string]string, saltID string) string {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(FingerprintInputSchemaV1)
	b.WriteByte('\n')
	if saltID != "" {
		fmt.Fprintf(&b, "salt_id=%s\n", saltID)
	}
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, config[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
