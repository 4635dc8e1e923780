package billing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test_signing_secret"

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()

	header := SignPayload(payload, testSecret, now)
	assert.NoError(t, VerifySignature(payload, header, testSecret, now, DefaultTolerance))
}

func TestVerifySignatureRejections(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()
	valid := SignPayload(payload, testSecret, now)

	tests := []struct {
		name    string
		payload []byte
		header  string
		secret  string
	}{
		{name: "missing header", payload: payload, header: "", secret: testSecret},
		{name: "missing secret", payload: payload, header: valid, secret: ""},
		{name: "wrong secret", payload: payload, header: SignPayload(payload, "other", now), secret: testSecret},
		{name: "tampered payload", payload: []byte(`{"type":"evil"}`), header: valid, secret: testSecret},
		{name: "garbage header", payload: payload, header: "not-a-signature", secret: testSecret},
		{name: "timestamp not a number", payload: payload, header: "t=abc,v1=00ff", secret: testSecret},
		{name: "signature missing", payload: payload, header: fmt.Sprintf("t=%d", now.Unix()), secret: testSecret},
		{name: "stale timestamp", payload: payload, header: SignPayload(payload, testSecret, now.Add(-time.Hour)), secret: testSecret},
		{name: "future timestamp", payload: payload, header: SignPayload(payload, testSecret, now.Add(time.Hour)), secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.payload, tt.header, tt.secret, now, DefaultTolerance)
			assert.Error(t, err)
			// Uniform error regardless of failure mode.
			assert.Equal(t, (&SignatureError{}).Error(), err.Error())
		})
	}
}

func TestVerifySignatureMultipleV1(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	valid := SignPayload(payload, testSecret, now)

	// Providers send extra v1 entries during secret rotation; one valid
	// signature is enough.
	header := fmt.Sprintf("t=%d,v1=deadbeef,%s", now.Unix(), valid[len(fmt.Sprintf("t=%d,", now.Unix())):])
	assert.NoError(t, VerifySignature(payload, header, testSecret, now, DefaultTolerance))
}

func TestVerifySignatureZeroToleranceSkipsSkewCheck(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	old := time.Now().Add(-24 * time.Hour)
	header := SignPayload(payload, testSecret, old)

	assert.NoError(t, VerifySignature(payload, header, testSecret, time.Now(), 0))
}
