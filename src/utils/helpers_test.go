package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 32-byte hex key, AES-256.
const testSecret = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestMain(m *testing.M) {
	os.Setenv("API_QRC_SECRET", testSecret)
	os.Exit(m.Run())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := qrSecretKey()
	assert.Nil(t, err)

	encrypted, err := EncryptMessage(key, "hello world")
	assert.Nil(t, err)
	assert.NotEqual(t, "hello world", encrypted)

	decrypted, err := DecryptMessage(key, encrypted)
	assert.Nil(t, err)
	assert.Equal(t, "hello world", *decrypted)
}

func TestDecryptGarbage(t *testing.T) {
	key, err := qrSecretKey()
	assert.Nil(t, err)

	_, err = DecryptMessage(key, "not-hex")
	assert.NotNil(t, err)

	_, err = DecryptMessage(key, "deadbeef")
	assert.NotNil(t, err)
}

func TestTicketSignature(t *testing.T) {
	sig := TicketSignature(1, 2, 3)
	assert.NotEmpty(t, sig)
	assert.Equal(t, sig, TicketSignature(1, 2, 3))
	assert.NotEqual(t, sig, TicketSignature(1, 2, 4))
	assert.NotEqual(t, sig, TicketSignature(2, 2, 3))
}

func TestTicketQrRoundTrip(t *testing.T) {
	code, err := EncodeTicketQr(10, 20, 30)
	assert.Nil(t, err)

	payload, err := DecodeTicketQr(code)
	assert.Nil(t, err)
	assert.Equal(t, uint(10), payload.TicketID)
	assert.Equal(t, uint(20), payload.EventID)
	assert.Equal(t, uint(30), payload.UserID)
	assert.Equal(t, TicketSignature(10, 20, 30), payload.Hash)
}
