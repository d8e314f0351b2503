package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"
)

// Signer produces the authentication headers a live venue's REST API
// expects on a mutating request.
//
// Grounded on the teacher's Auth.L2Headers (internal/exchange/auth.go):
// same "timestamp + method + path + body" HMAC-SHA256 construction and
// header-map return shape. The teacher's L1 (EIP-712 wallet) flow used to
// derive L2 credentials is venue-specific and out of spec.md's core
// scope (§1, §6); Signer only implements the generic L2-equivalent
// scheme, configured directly with an API key/secret pair instead of
// derived from a wallet.
type Signer struct {
	apiKey string
	secret []byte
}

// NewSigner creates a Signer from a pre-provisioned API key/secret pair.
func NewSigner(apiKey, secret string) *Signer {
	return &Signer{apiKey: apiKey, secret: []byte(secret)}
}

// Headers returns the signed headers for method+path+body.
func (s *Signer) Headers(method, path, body string) map[string]string {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(timestamp + method + path + body))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"X-API-KEY":   s.apiKey,
		"X-SIGNATURE": sig,
		"X-TIMESTAMP": timestamp,
	}
}
