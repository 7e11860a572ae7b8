// Package scancode encodes voucher codes into machine-scannable payloads
// and parses them back. The payload is base64url-encoded JSON so it fits
// in a QR code and survives URL transport unescaped.
package scancode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Version is the current payload schema version. Decoders accept any
// version up to this one.
const Version = 1

// PayloadType identifies what kind of entity a payload refers to.
const PayloadTypeVoucher = "voucher"

var (
	ErrMalformedPayload   = errors.New("scancode: malformed payload")
	ErrUnsupportedVersion = errors.New("scancode: unsupported payload version")
)

// Payload is the structured form embedded in a scan code.
type Payload struct {
	Code    string `json:"code"`
	Type    string `json:"type"`
	Version int    `json:"version"`
}

// Encode renders a voucher code as a scannable payload string.
func Encode(code string) (string, error) {
	if code == "" {
		return "", ErrMalformedPayload
	}
	raw, err := json.Marshal(Payload{
		Code:    code,
		Type:    PayloadTypeVoucher,
		Version: Version,
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a payload string back into its structured form.
func Decode(s string) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, ErrMalformedPayload
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrMalformedPayload
	}
	if p.Type != PayloadTypeVoucher || p.Code == "" {
		return nil, ErrMalformedPayload
	}
	if p.Version < 1 || p.Version > Version {
		return nil, ErrUnsupportedVersion
	}
	return &p, nil
}

// ExtractCode accepts either an encoded payload or a bare voucher code
// and returns the code. Bare codes are the fallback path for clients
// that type the code in by hand.
func ExtractCode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMalformedPayload
	}
	if p, err := Decode(s); err == nil {
		return p.Code, nil
	}
	return s, nil
}
