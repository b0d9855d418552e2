package attestation

import (
	"crypto/ed25519"
	"encoding/json"
)

// KeyEntry is one rotation-eligible signing key: a base64 Ed25519
// private key plus the key_id attached to every signature it produces.
type KeyEntry struct {
	KeyID      string `json:"key_id"`
	PrivateKey string `json:"private_key_b64"`
}

// KeyRegistry resolves a signing key by id, supporting rotation: the
// active key signs new attestations, but any registered key can still
// verify attestations signed before rotation.
type KeyRegistry struct {
	activeKeyID string
	keys        map[string]ed25519.PrivateKey
}

// NewKeyRegistryFromJSON parses the ATTESTATION_KEYRING_JSON shape:
// {"active_key_id": "...", "keys": [{"key_id": "...", "private_key_b64": "..."}]}
func NewKeyRegistryFromJSON(raw []byte) (*KeyRegistry, *Error) {
	var doc struct {
		ActiveKeyID string     `json:"active_key_id"`
		Keys        []KeyEntry `json:"keys"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Code: "attestation_keyring_invalid", Message: "keyring JSON could not be parsed"}
	}
	if doc.ActiveKeyID == "" {
		return nil, &Error{Code: "attestation_key_id_missing", Message: "active_key_id is required"}
	}

	keys := make(map[string]ed25519.PrivateKey, len(doc.Keys))
	for _, e := range doc.Keys {
		if e.KeyID == "" {
			return nil, &Error{Code: "attestation_key_id_missing", Message: "keyring entry missing key_id"}
		}
		priv, kerr := DecodePrivateKey(e.PrivateKey)
		if kerr != nil {
			return nil, kerr
		}
		keys[e.KeyID] = priv
	}
	if _, ok := keys[doc.ActiveKeyID]; !ok {
		return nil, &Error{Code: "attestation_unknown_key_id", Message: "active_key_id does not match any registered key"}
	}
	return &KeyRegistry{activeKeyID: doc.ActiveKeyID, keys: keys}, nil
}

// ActiveKeyID returns the key_id that SignWithActiveKey attaches.
func (r *KeyRegistry) ActiveKeyID() string { return r.activeKeyID }

// SignWithActiveKey signs the payload with the registry's active key
// and returns the signature plus the key_id to embed alongside it.
func (r *KeyRegistry) SignWithActiveKey(payload string) (signature, keyID string) {
	return Sign(payload, r.keys[r.activeKeyID]), r.activeKeyID
}

// VerifyWithKeyID looks up keyID in the registry and verifies the
// signature against it, rejecting keys the registry has never seen.
func (r *KeyRegistry) VerifyWithKeyID(payload, signature, keyID string) *Error {
	priv, ok := r.keys[keyID]
	if !ok {
		return &Error{Code: "attestation_unknown_key_id", Message: "signature references an unregistered key_id"}
	}
	pub := priv.Public().(ed25519.PublicKey)
	return Verify(payload, signature, pub)
}
