package media

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSignerSign(t *testing.T) {
	signer := NewSigner("secret", "mine-art")

	sig := signer.Sign(1700000000)

	// timestamp sorts before upload_preset
	sum := sha1.Sum([]byte("timestamp=1700000000&upload_preset=mine-art" + "secret"))
	want := hex.EncodeToString(sum[:])

	if sig.Signature != want {
		t.Errorf("Sign() signature = %s, want %s", sig.Signature, want)
	}
	if sig.Timestamp != 1700000000 {
		t.Errorf("Sign() timestamp = %d, want 1700000000", sig.Timestamp)
	}
}

func TestSignNowStampsCurrentTime(t *testing.T) {
	signer := NewSigner("secret", "mine-art")

	sig := signer.SignNow()
	if sig.Timestamp == 0 {
		t.Error("SignNow() returned zero timestamp")
	}
	if len(sig.Signature) != 40 {
		t.Errorf("SignNow() signature length = %d, want 40 hex chars", len(sig.Signature))
	}
}

func TestProperty_SignaturesAreDeterministicPerTimestamp(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("same timestamp and secret produce the same signature", prop.ForAll(
		func(secret string, timestamp int64) bool {
			a := NewSigner(secret, "mine-art").Sign(timestamp)
			b := NewSigner(secret, "mine-art").Sign(timestamp)
			return a == b
		},
		gen.AlphaString(),
		gen.Int64Range(0, 1<<40),
	))

	properties.Property("different secrets produce different signatures", prop.ForAll(
		func(secret string, timestamp int64) bool {
			a := NewSigner(secret, "mine-art").Sign(timestamp)
			b := NewSigner(secret+"x", "mine-art").Sign(timestamp)
			return a.Signature != b.Signature
		},
		gen.AlphaString(),
		gen.Int64Range(0, 1<<40),
	))

	properties.TestingRun(t)
}
