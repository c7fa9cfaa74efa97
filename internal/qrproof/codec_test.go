package qrproof

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"temba-ticketing/internal/errs"
)

const testSecret = "test-secret-key"

func TestGenerateValidateRoundTrip(t *testing.T) {
	codec := New(testSecret)

	before := time.Now().UnixMilli()
	token, err := codec.Generate("ticket-abc")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	after := time.Now().UnixMilli()

	claims, err := codec.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "ticket-abc", claims.ID)
	assert.GreaterOrEqual(t, claims.Timestamp, before)
	assert.LessOrEqual(t, claims.Timestamp, after)
}

func TestGenerateEmptyTicketID(t *testing.T) {
	codec := New(testSecret)

	token, err := codec.Generate("")
	assert.Empty(t, token)
	assert.True(t, errs.IsKind(err, errs.KindEncoding))
}

func TestGenerateDistinctTokens(t *testing.T) {
	codec := New(testSecret)

	token1, err := codec.Generate("ticket-1")
	assert.NoError(t, err)
	token2, err := codec.Generate("ticket-2")
	assert.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

func TestValidateTamperedPayload(t *testing.T) {
	codec := New(testSecret)

	token, err := codec.Generate("ticket-abc")
	assert.NoError(t, err)

	// Swap the ticket id inside the envelope while keeping the original
	// signature attached.
	raw, err := base64.StdEncoding.DecodeString(token)
	assert.NoError(t, err)

	var env envelope
	assert.NoError(t, json.Unmarshal(raw, &env))
	env.Data.ID = "ticket-xyz"

	forged, err := json.Marshal(env)
	assert.NoError(t, err)

	_, err = codec.Validate(base64.StdEncoding.EncodeToString(forged))
	assert.True(t, errs.IsKind(err, errs.KindSignature))
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := New("secret-one").Generate("ticket-abc")
	assert.NoError(t, err)

	_, err = New("secret-two").Validate(token)
	assert.True(t, errs.IsKind(err, errs.KindSignature))
}

func TestValidateExpiredToken(t *testing.T) {
	issued := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	codec := New(testSecret)
	codec.now = func() time.Time { return issued }

	token, err := codec.Generate("ticket-abc")
	assert.NoError(t, err)

	// One millisecond inside the window still validates.
	codec.now = func() time.Time { return issued.Add(freshnessWindow - time.Millisecond) }
	claims, err := codec.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "ticket-abc", claims.ID)

	// One millisecond past it does not, signature notwithstanding.
	codec.now = func() time.Time { return issued.Add(freshnessWindow + time.Millisecond) }
	_, err = codec.Validate(token)
	assert.True(t, errs.IsKind(err, errs.KindExpired))
}

func TestValidateLegacyToken(t *testing.T) {
	codec := New(testSecret)

	p := payload{
		ID:        "legacy-ticket",
		Timestamp: time.Now().UnixMilli(),
		Version:   versionLegacy,
	}
	serialized, err := json.Marshal(p)
	assert.NoError(t, err)

	env := envelope{Data: p, Sig: legacySignature(string(serialized), testSecret)}
	wrapped, err := json.Marshal(env)
	assert.NoError(t, err)
	token := base64.StdEncoding.EncodeToString(wrapped)

	claims, err := codec.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "legacy-ticket", claims.ID)
	assert.Equal(t, p.Timestamp, claims.Timestamp)
}

func TestValidateLegacyTokenTampered(t *testing.T) {
	codec := New(testSecret)

	p := payload{
		ID:        "legacy-ticket",
		Timestamp: time.Now().UnixMilli(),
		Version:   versionLegacy,
	}
	serialized, err := json.Marshal(p)
	assert.NoError(t, err)

	env := envelope{Data: p, Sig: legacySignature(string(serialized), testSecret)}
	env.Data.ID = "someone-elses-ticket"
	wrapped, err := json.Marshal(env)
	assert.NoError(t, err)

	_, err = codec.Validate(base64.StdEncoding.EncodeToString(wrapped))
	assert.True(t, errs.IsKind(err, errs.KindSignature))
}

func TestValidateGarbage(t *testing.T) {
	codec := New(testSecret)

	_, err := codec.Validate("")
	assert.True(t, errs.IsKind(err, errs.KindEncoding))

	_, err = codec.Validate("not base64 at all!!!")
	assert.True(t, errs.IsKind(err, errs.KindEncoding))

	_, err = codec.Validate(base64.StdEncoding.EncodeToString([]byte("not json")))
	assert.True(t, errs.IsKind(err, errs.KindEncoding))
}

func TestImage(t *testing.T) {
	codec := New(testSecret)

	token, err := codec.Generate("ticket-abc")
	assert.NoError(t, err)

	png, err := Image(token)
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	_, err = Image("")
	assert.True(t, errs.IsKind(err, errs.KindEncoding))
}
