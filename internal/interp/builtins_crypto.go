package interp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hkdf"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

func cryptoModule() *Module {
	return &Module{
		Name: "crypto",
		Funcs: map[string]*Builtin{
			"hash":          {Name: "hash", Fn: cryptoHash},
			"hmac":          {Name: "hmac", Fn: cryptoHmac},
			"encrypt":       {Name: "encrypt", Fn: cryptoEncrypt},
			"decrypt":       {Name: "decrypt", Fn: cryptoDecrypt},
			"base64_encode": {Name: "base64_encode", Fn: cryptoBase64Encode},
			"base64_decode": {Name: "base64_decode", Fn: cryptoBase64Decode},
			"hex_encode":    {Name: "hex_encode", Fn: cryptoHexEncode},
			"hex_decode":    {Name: "hex_decode", Fn: cryptoHexDecode},
		},
	}
}

func cryptoHash(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.hash", args, 1); err != nil {
		return nil, err
	}
	data, err := argString("crypto.hash", args, 0)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(data))
	return String{hex.EncodeToString(sum[:])}, nil
}

func cryptoHmac(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.hmac", args, 2); err != nil {
		return nil, err
	}
	key, err := argString("crypto.hmac", args, 0)
	if err != nil {
		return nil, err
	}
	data, err := argString("crypto.hmac", args, 1)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return String{hex.EncodeToString(mac.Sum(nil))}, nil
}

// deriveKey stretches a passphrase into an AES-256 key.
func deriveKey(passphrase string) ([]byte, error) {
	return hkdf.Key(sha256.New, []byte(passphrase), nil, "ember.crypto.v1", 32)
}

func passphraseGCM(passphrase string) (cipher.AEAD, error) {
	key, err := deriveKey(passphrase)
	if err != nil {
		return nil, ioErrorf("cannot derive key: %v", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ioErrorf("cannot initialize cipher: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ioErrorf("cannot initialize cipher: %v", err)
	}
	return gcm, nil
}

// cryptoEncrypt seals plaintext with AES-256-GCM under a key derived from
// the passphrase. Output layout: base64(nonce || ciphertext).
func cryptoEncrypt(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.encrypt", args, 2); err != nil {
		return nil, err
	}
	plaintext, err := argString("crypto.encrypt", args, 0)
	if err != nil {
		return nil, err
	}
	passphrase, err := argString("crypto.encrypt", args, 1)
	if err != nil {
		return nil, err
	}
	gcm, err := passphraseGCM(passphrase)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, ioErrorf("cannot generate nonce: %v", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return String{base64.StdEncoding.EncodeToString(sealed)}, nil
}

func cryptoDecrypt(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.decrypt", args, 2); err != nil {
		return nil, err
	}
	encoded, err := argString("crypto.decrypt", args, 0)
	if err != nil {
		return nil, err
	}
	passphrase, err := argString("crypto.decrypt", args, 1)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, parseErrorf("invalid ciphertext encoding: %v", err)
	}
	gcm, err := passphraseGCM(passphrase)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, domainErrorf("ciphertext too short")
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, domainErrorf("decryption failed: wrong key or corrupted data")
	}
	return String{string(plaintext)}, nil
}

func cryptoBase64Encode(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.base64_encode", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("crypto.base64_encode", args, 0)
	if err != nil {
		return nil, err
	}
	return String{base64.StdEncoding.EncodeToString([]byte(s))}, nil
}

func cryptoBase64Decode(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.base64_decode", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("crypto.base64_decode", args, 0)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, parseErrorf("invalid base64: %v", err)
	}
	return String{string(raw)}, nil
}

func cryptoHexEncode(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.hex_encode", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("crypto.hex_encode", args, 0)
	if err != nil {
		return nil, err
	}
	return String{hex.EncodeToString([]byte(s))}, nil
}

func cryptoHexDecode(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("crypto.hex_decode", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("crypto.hex_decode", args, 0)
	if err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, parseErrorf("invalid hex: %v", err)
	}
	return String{string(raw)}, nil
}
