package mega

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// MEGA's base64 variant: URL-safe alphabet, no padding, with stray commas
// and padding characters tolerated on input.

func b64Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func b64Decode(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	s = strings.ReplaceAll(s, ",", "")
	return base64.RawURLEncoding.DecodeString(s)
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// blockEncrypt applies AES-ECB over each 16-byte block. MEGA uses ECB for
// key wrapping only, never for content.
func blockEncrypt(key, data []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("key material not block aligned: %d bytes", len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		c.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

func blockDecrypt(key, data []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("key material not block aligned: %d bytes", len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		c.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// unmergeKey folds a 32-byte file key into the 16-byte AES key used for
// attribute and content decryption. Folder keys are already 16 bytes and
// pass through unchanged.
func unmergeKey(full []byte) []byte {
	if len(full) < 32 {
		return full
	}
	k := make([]byte, 16)
	for i := range k {
		k[i] = full[i] ^ full[16+i]
	}
	return k
}

// decryptAttributes opens an "a" blob: AES-CBC with a zero IV, then the
// literal MEGA prefix followed by a JSON object.
func decryptAttributes(key, blob []byte) (*Attributes, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 || len(blob)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("attribute blob not block aligned: %d bytes", len(blob))
	}
	iv := make([]byte, aes.BlockSize)
	plain := make([]byte, len(blob))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(plain, blob)

	plain = bytes.TrimRight(plain, "\x00")
	if !bytes.HasPrefix(plain, []byte("MEGA")) {
		return nil, fmt.Errorf("attribute blob missing MEGA prefix")
	}

	var attrs Attributes
	if err := json.Unmarshal(plain[4:], &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	return &attrs, nil
}

func encryptAttributes(key []byte, attrs Attributes) ([]byte, error) {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	plain := append([]byte("MEGA"), raw...)
	if rem := len(plain) % aes.BlockSize; rem != 0 {
		plain = append(plain, make([]byte, aes.BlockSize-rem)...)
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, aes.BlockSize)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(out, plain)
	return out, nil
}

// contentCipher builds the AES-CTR stream for file content: the nonce is
// bytes 16..24 of the full node key, counter starting at zero.
func contentCipher(full []byte) (cipher.Stream, error) {
	if len(full) < 24 {
		return nil, fmt.Errorf("node key too short: %d bytes", len(full))
	}
	c, err := aes.NewCipher(unmergeKey(full))
	if err != nil {
		return nil, err
	}
	iv := make([]byte, aes.BlockSize)
	copy(iv, full[16:24])
	return cipher.NewCTR(c, iv), nil
}
