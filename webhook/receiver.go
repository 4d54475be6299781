// Package webhook validates and parses inbound XChain webhook
// notifications.
//
// Every notification envelope carries the consumer's API token, a
// JSON-encoded payload string, and a lowercase hex HMAC-SHA256 signature of
// that payload computed with the consumer's API secret. Validation failures
// surface as *AuthorizationError.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/tokenly/xchain-go/types"
)

// AuthorizationError is returned when an inbound notification fails
// validation.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func authErrorf(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// Envelope is a validated webhook notification. Payload holds the decoded
// notification body; RawPayload preserves the exact string the signature
// was computed over.
type Envelope struct {
	ID         string          `json:"id"`
	Time       string          `json:"time"`
	Attempt    int             `json:"attempt"`
	APIToken   string          `json:"apiToken"`
	APIKey     string          `json:"apiKey"`
	Signature  string          `json:"signature"`
	RawPayload string          `json:"rawPayload"`
	Payload    json.RawMessage `json:"payload"`
}

// Notification decodes the envelope payload as a payment notification.
func (e *Envelope) Notification() (*types.Notification, error) {
	var n types.Notification
	if err := json.Unmarshal(e.Payload, &n); err != nil {
		return nil, fmt.Errorf("decoding notification payload: %w", err)
	}
	return &n, nil
}

// token returns the API token of the envelope. Older notifications carry
// the token in the apiKey field.
func (e *Envelope) token() string {
	if e.APIToken != "" {
		return e.APIToken
	}
	return e.APIKey
}

// Receiver validates inbound webhook notifications for one API credential
// pair.
type Receiver struct {
	apiToken  string
	apiSecret string
}

// NewReceiver returns a Receiver for the given credential pair.
func NewReceiver(apiToken, apiSecret string) (*Receiver, error) {
	if apiToken == "" {
		return nil, authErrorf("API token must exist")
	}
	if apiSecret == "" {
		return nil, authErrorf("API secret must exist")
	}
	return &Receiver{apiToken: apiToken, apiSecret: apiSecret}, nil
}

// ValidateAndParse validates the raw notification body and returns the
// parsed envelope. It returns an *AuthorizationError when the body is not
// valid JSON, the token is missing or wrong, or the signature does not
// match the payload.
func (r *Receiver) ValidateAndParse(body []byte) (*Envelope, error) {
	var raw struct {
		ID        string `json:"id"`
		Time      string `json:"time"`
		Attempt   int    `json:"attempt"`
		APIToken  string `json:"apiToken"`
		APIKey    string `json:"apiKey"`
		Signature string `json:"signature"`
		Payload   string `json:"payload"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, authErrorf("invalid webhook data received")
	}

	envelope := &Envelope{
		ID:         raw.ID,
		Time:       raw.Time,
		Attempt:    raw.Attempt,
		APIToken:   raw.APIToken,
		APIKey:     raw.APIKey,
		Signature:  raw.Signature,
		RawPayload: raw.Payload,
	}

	if err := r.Validate(envelope); err != nil {
		return nil, err
	}

	envelope.Payload = json.RawMessage(raw.Payload)
	return envelope, nil
}

// Validate checks the envelope's token and signature without parsing the
// payload.
func (r *Receiver) Validate(envelope *Envelope) error {
	token := envelope.token()
	if token == "" {
		return authErrorf("API token not found")
	}
	if token != r.apiToken {
		return authErrorf("Invalid API token")
	}
	if envelope.Signature == "" {
		return authErrorf("signature not found")
	}
	if envelope.RawPayload == "" {
		return authErrorf("payload not found")
	}

	expected := Sign([]byte(envelope.RawPayload), r.apiSecret)
	if !hmac.Equal([]byte(expected), []byte(envelope.Signature)) {
		return authErrorf("Invalid signature")
	}
	return nil
}

// Sign computes the lowercase hex HMAC-SHA256 signature of payload with
// the given secret. The service signs outbound notifications the same way.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
