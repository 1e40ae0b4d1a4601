package media

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// UploadSignature authorizes one direct browser upload against the media
// host, so admin clients can push files without proxying the bytes through
// this service.
type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// Signer produces upload signatures using the media host's request-signing
// scheme: parameters sorted by key, joined as a query string, concatenated
// with the API secret, and SHA-1 hashed.
type Signer struct {
	secret string
	preset string
}

// NewSigner creates a Signer for the configured upload preset
func NewSigner(apiSecret, uploadPreset string) *Signer {
	return &Signer{secret: apiSecret, preset: uploadPreset}
}

// Sign produces a signature for an upload at the given timestamp
func (s *Signer) Sign(timestamp int64) UploadSignature {
	params := map[string]string{
		"timestamp":     fmt.Sprintf("%d", timestamp),
		"upload_preset": s.preset,
	}

	return UploadSignature{
		Timestamp: timestamp,
		Signature: signParams(params, s.secret),
	}
}

// SignNow produces a signature stamped with the current time
func (s *Signer) SignNow() UploadSignature {
	return s.Sign(time.Now().Unix())
}

func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
