package scancode

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload, err := Encode("OHH-A1B2C3")
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, "OHH-A1B2C3", decoded.Code)
	assert.Equal(t, PayloadTypeVoucher, decoded.Type)
	assert.Equal(t, Version, decoded.Version)
}

func TestEncodeEmptyCode(t *testing.T) {
	_, err := Encode("")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":    "%%%%",
		"not json":      base64.RawURLEncoding.EncodeToString([]byte("hello")),
		"wrong type":    base64.RawURLEncoding.EncodeToString([]byte(`{"code":"OHH-A1B2C3","type":"ticket","version":1}`)),
		"missing code":  base64.RawURLEncoding.EncodeToString([]byte(`{"type":"voucher","version":1}`)),
		"empty payload": "",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(payload)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	future := base64.RawURLEncoding.EncodeToString([]byte(`{"code":"OHH-A1B2C3","type":"voucher","version":99}`))
	_, err := Decode(future)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	zero := base64.RawURLEncoding.EncodeToString([]byte(`{"code":"OHH-A1B2C3","type":"voucher","version":0}`))
	_, err = Decode(zero)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestExtractCodeFallsBackToBareCode(t *testing.T) {
	payload, err := Encode("OHH-A1B2C3")
	require.NoError(t, err)

	code, err := ExtractCode(payload)
	require.NoError(t, err)
	assert.Equal(t, "OHH-A1B2C3", code)

	code, err = ExtractCode("  OHH-D4E5F6  ")
	require.NoError(t, err)
	assert.Equal(t, "OHH-D4E5F6", code)

	_, err = ExtractCode("   ")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
