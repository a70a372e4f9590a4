package util

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptAES_RoundTrip(t *testing.T) {
	key := DeriveKey("secret", []byte("0123456789abcdef"))
	plaintexts := [][]byte{
		[]byte("hello"),
		[]byte(""),
		[]byte("a bearer token with some length to it, eyJhbGciOi..."),
		bytes.Repeat([]byte{0x00, 0xff}, 512),
	}

	for _, plain := range plaintexts {
		enc, err := EncryptAES(key, plain)
		if err != nil {
			t.Fatalf("EncryptAES(%q) error = %v", plain, err)
		}
		got, err := DecryptAES(key, enc)
		if err != nil {
			t.Fatalf("DecryptAES error = %v", err)
		}
		if !bytes.Equal(got, plain) {
			t.Errorf("round trip got %q, want %q", got, plain)
		}
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	key := DeriveKey("secret", []byte("0123456789abcdef"))
	other := DeriveKey("other", []byte("0123456789abcdef"))

	enc, err := EncryptAES(key, []byte("token"))
	if err != nil {
		t.Fatalf("EncryptAES error = %v", err)
	}
	if _, err := DecryptAES(other, enc); err == nil {
		t.Error("DecryptAES with wrong key error = nil, want error")
	}
}

func TestDecryptAES_Tampered(t *testing.T) {
	key := DeriveKey("secret", []byte("0123456789abcdef"))
	enc, err := EncryptAES(key, []byte("token"))
	if err != nil {
		t.Fatalf("EncryptAES error = %v", err)
	}

	enc[len(enc)-1] ^= 0x01
	if _, err := DecryptAES(key, enc); err == nil {
		t.Error("DecryptAES of tampered data error = nil, want error")
	}
}

func TestDecryptAES_TooShort(t *testing.T) {
	key := DeriveKey("secret", []byte("salt"))
	if _, err := DecryptAES(key, []byte{0x01, 0x02}); err == nil {
		t.Error("DecryptAES of short data error = nil, want error")
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	a := DeriveKey("secret", salt)
	b := DeriveKey("secret", salt)
	if !bytes.Equal(a, b) {
		t.Error("same secret and salt derived different keys")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}

	c := DeriveKey("secret", []byte("another salt....."))
	if bytes.Equal(a, c) {
		t.Error("different salts derived the same key")
	}
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(16)
	if err != nil {
		t.Fatalf("RandomBytes error = %v", err)
	}
	if len(a) != 16 {
		t.Errorf("len = %d, want 16", len(a))
	}
	b, err := RandomBytes(16)
	if err != nil {
		t.Fatalf("RandomBytes error = %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two random draws are identical")
	}

	if _, err := RandomBytes(0); err == nil {
		t.Error("RandomBytes(0) error = nil, want error")
	}
}
