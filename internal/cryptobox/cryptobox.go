// Package cryptobox provides the session-scoped obfuscation primitive used
// by the secure store. Values are XOR-combined with an HKDF-expanded
// keystream and tagged so that foreign-key or corrupted input is detected.
//
// This is obfuscation against casual inspection of durable storage, not
// cryptography against an attacker with access to process memory: the key
// lives only in memory and is lost when the process ends, which is the
// point — persisted blobs become unreadable on the next session.
package cryptobox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of generated key material in bytes.
const KeySize = 32

// tagSize is the length of the integrity tag prepended to ciphertext.
const tagSize = 12

// KeyMaterial is a symmetric session key held only in memory.
type KeyMaterial []byte

// GenerateKey produces fresh random key material. Call once per process
// session and pass the result into NewBox.
func GenerateKey() (KeyMaterial, error) {
	key := make(KeyMaterial, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generating key material: %w", err)
	}
	return key, nil
}

// Box encrypts and decrypts JSON values under a fixed session key.
// It is an explicit context object so tests can inject deterministic keys.
type Box struct {
	key KeyMaterial
}

// NewBox creates a Box from existing key material.
func NewBox(key KeyMaterial) (*Box, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return &Box{key: append(KeyMaterial(nil), key...)}, nil
}

// Seal marshals v to JSON, combines it with the keystream, and returns a
// tagged base64 blob suitable for durable storage.
func (b *Box) Seal(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling value: %w", err)
	}

	pad, err := b.pad()
	if err != nil {
		return "", err
	}
	cipher := make([]byte, len(plain))
	for i := range plain {
		cipher[i] = plain[i] ^ pad[i%len(pad)]
	}

	payload := append(b.tag(cipher), cipher...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Open reverses Seal into v. It returns ErrDecrypt for anything it cannot
// verify: malformed base64, truncated payloads, blobs sealed under a
// different key, and undecodable JSON.
func (b *Box) Open(blob string, v any) error {
	payload, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(payload) < tagSize {
		return ErrDecrypt
	}

	tag, cipher := payload[:tagSize], payload[tagSize:]
	if !hmac.Equal(tag, b.tag(cipher)) {
		return ErrDecrypt
	}

	pad, err := b.pad()
	if err != nil {
		return err
	}
	plain := make([]byte, len(cipher))
	for i := range cipher {
		plain[i] = cipher[i] ^ pad[i%len(pad)]
	}

	if err := json.Unmarshal(plain, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return nil
}

// padSize is the length of the repeating keystream pad. HKDF-SHA256 output
// is bounded, so plaintext longer than the pad wraps around.
const padSize = 1024

func (b *Box) pad() ([]byte, error) {
	pad := make([]byte, padSize)
	kdf := hkdf.New(sha256.New, b.key, nil, []byte("cq.keystream"))
	if _, err := io.ReadFull(kdf, pad); err != nil {
		return nil, fmt.Errorf("expanding keystream: %w", err)
	}
	return pad, nil
}

func (b *Box) tag(cipher []byte) []byte {
	mac := hmac.New(sha256.New, b.key)
	mac.Write(cipher)
	return mac.Sum(nil)[:tagSize]
}
