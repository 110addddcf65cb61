package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"etix/src/types"
)

func qrSecretKey() ([]byte, error) {
	secret := os.Getenv("API_QRC_SECRET")
	if secret == "" {
		return nil, errors.New("API_QRC_SECRET is not set")
	}
	key, err := hex.DecodeString(secret)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(cipherText) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}

// TicketSignature derives the tamper-evident hash embedded in a ticket's QR
// payload. Gates recompute it from the ticket row and compare.
func TicketSignature(ticketID, eventID, userID uint) string {
	mac := hmac.New(sha256.New, []byte(os.Getenv("API_QRC_SECRET")))
	fmt.Fprintf(mac, "%d:%d:%d", ticketID, eventID, userID)
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeTicketQr builds the encrypted payload rendered into a ticket's QR
// code.
func EncodeTicketQr(ticketID, eventID, userID uint) (string, error) {
	key, err := qrSecretKey()
	if err != nil {
		return "", err
	}
	payload := types.QrPayload{
		TicketID: ticketID,
		EventID:  eventID,
		UserID:   userID,
		Hash:     TicketSignature(ticketID, eventID, userID),
	}
	raw, err := json.Marshal(&payload)
	if err != nil {
		return "", err
	}
	return EncryptMessage(key, string(raw))
}

// DecodeTicketQr reverses EncodeTicketQr. It only decrypts and parses; the
// caller verifies the embedded hash against the ticket row.
func DecodeTicketQr(code string) (*types.QrPayload, error) {
	key, err := qrSecretKey()
	if err != nil {
		return nil, err
	}
	plaintext, err := DecryptMessage(key, code)
	if err != nil {
		return nil, err
	}
	var payload types.QrPayload
	if err := json.Unmarshal([]byte(*plaintext), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
