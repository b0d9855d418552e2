package analytics

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

const runIDPrefix = "mockrun-"
const runIDLength = 24

// resolveSeed returns the caller-supplied seed, or derives one
// deterministically from the request's identifying fields so repeated
// identical requests reproduce the same run without the caller needing
// to track a seed themselves.
func resolveSeed(req contracts.RunRequest) uint64 {
	if req.Seed != nil {
		return *req.Seed
	}
	h := sha256.New()
	h.Write([]byte(req.StartDate))
	h.Write([]byte(req.EndDate))
	h.Write([]byte(req.ProfileID))
	if req.CampaignFilter != nil {
		h.Write([]byte(*req.CampaignFilter))
	}
	if req.AdGroupFilter != nil {
		h.Write([]byte(*req.AdGroupFilter))
	}
	if req.IncludeNarratives {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	digest := h.Sum(nil)
	return binary.LittleEndian.Uint64(digest[:8])
}

// deterministicRunID derives a stable run ID from the schema version,
// the request's JSON shape, and the resolved seed, so the same request
// and seed always produce the same run ID.
func deterministicRunID(req contracts.RunRequest, seed uint64) string {
	serialized, err := json.Marshal(req)
	if err != nil {
		serialized = []byte("{}")
	}
	h := sha256.New()
	h.Write([]byte(contracts.SchemaVersionV1))
	h.Write(serialized)
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	h.Write(seedBytes[:])
	digest := hex.EncodeToString(h.Sum(nil))

	id := runIDPrefix + digest
	if len(id) > runIDLength {
		id = id[:runIDLength]
	}
	return id
}
