package predict

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

// Cache stores successful responses keyed by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (dal.PredictionResponse, bool, error)
	Set(ctx context.Context, key string, resp dal.PredictionResponse) error
}

// CacheKey derives a stable key from a validated input, the currency the
// response is rendered in and the fingerprint of the models that produced it.
func CacheKey(in dal.RawInput, currency, fingerprint string) string {
	// RawInput only holds strings, numbers and pointers to them
	data, _ := json.Marshal(in)
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(currency))
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	return "autoprix:predict:" + hex.EncodeToString(h.Sum(nil))
}
