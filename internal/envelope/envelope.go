// Package envelope defines the JSON document that carries a signed message.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is a message together with its ed25519 signature.
type Envelope struct {
	Message    string `json:"message"`
	Signature  string `json:"signature"`
	GitHubUser string `json:"github_user,omitempty"`
}

// wireEnvelope distinguishes absent fields from empty ones during parsing.
type wireEnvelope struct {
	Message    *string `json:"message"`
	Signature  *string `json:"signature"`
	GitHubUser *string `json:"github_user"`
}

// Marshal encodes env as JSON. Pretty output is indented with two spaces;
// compact output has no insignificant whitespace.
func Marshal(env *Envelope, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	// Encoder always terminates with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Parse decodes an envelope from JSON.
// Unknown fields are ignored. message and signature are required strings;
// github_user may be absent or null.
func Parse(data []byte) (*Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &MalformedError{Reason: "invalid JSON", Err: err}
	}
	if w.Message == nil {
		return nil, &MalformedError{Reason: `missing "message" field`}
	}
	if w.Signature == nil {
		return nil, &MalformedError{Reason: `missing "signature" field`}
	}

	env := &Envelope{
		Message:   *w.Message,
		Signature: *w.Signature,
	}
	if w.GitHubUser != nil {
		env.GitHubUser = *w.GitHubUser
	}
	return env, nil
}
