package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
)

// DeriveKey builds a deterministic server-side key for callers that cannot
// supply their own: a hash of the operation tag, the normalized content
// fields, and a coarse time bucket (calendar day, UTC). Two submissions of
// the same content within the bucket collapse onto one key.
func DeriveKey(op domain.Operation, at time.Time, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(op))
	for _, part := range parts {
		h.Write([]byte{'\n'})
		h.Write([]byte(strings.TrimSpace(part)))
	}
	h.Write([]byte{'\n'})
	h.Write([]byte(at.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))
}
