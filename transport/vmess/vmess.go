// Package vmess implements the client side of the VMess request framing:
// the AEAD variant (alterId == 0) and the legacy MD5-keyed variant
// (alterId > 0), both carried over the WebSocket byte-stream transport in
// stream.go. Response framing is not decrypted or parsed — bytes coming
// back from the server are forwarded verbatim, so this variant is
// experimental against servers that encrypt their downstream response
// (documented open question, see DESIGN.md).
package vmess

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const (
	paddingLength = 0x10
	keyLength     = 16
	ivLength      = 12
)

// Config is the immutable per-proxy VMess configuration.
type Config struct {
	UUID    [16]byte
	AlterID uint16 // 0 selects AEAD framing; >0 selects legacy framing
}

// Client drives one VMess handshake against a given Config.
type Client struct {
	config Config
}

func NewClient(config Config) *Client {
	return &Client{config: config}
}

// IsAEAD reports whether this client uses the AEAD (alterId==0) framing.
func (c *Client) IsAEAD() bool {
	return c.config.AlterID == 0
}

// requestBody builds the shared, framing-agnostic request body: version,
// options, security, address, and padding.
func requestBody(host string, port uint16) ([]byte, error) {
	if len(host) > 255 {
		return nil, fmt.Errorf("vmess: host too long: %d bytes", len(host))
	}

	padding := make([]byte, paddingLength)
	if _, err := rand.Read(padding); err != nil {
		return nil, fmt.Errorf("vmess: generate padding: %w", err)
	}

	buf := make([]byte, 0, 4+1+len(host)+2+1+paddingLength)
	buf = append(buf, 0x01, 0x01, 0x00, 0x03)
	buf = append(buf, byte(len(host)))
	buf = append(buf, host...)
	buf = append(buf, byte(port>>8), byte(port))
	buf = append(buf, paddingLength)
	buf = append(buf, padding...)
	return buf, nil
}

// AEADRequest builds the single AEAD request frame described in spec
// §4.2.3: auth_id || key || iv || be_u16(len(ciphertext)) || ciphertext.
func (c *Client) AEADRequest(host string, port uint16, now time.Time) ([]byte, error) {
	body, err := requestBody(host, port)
	if err != nil {
		return nil, err
	}

	authID, err := authID(c.config.UUID, now)
	if err != nil {
		return nil, err
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("vmess: generate key: %w", err)
	}
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("vmess: generate iv: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vmess: aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vmess: aes-gcm: %w", err)
	}
	ciphertext := aead.Seal(nil, iv, body, nil)

	frame := make([]byte, 0, len(authID)+keyLength+ivLength+2+len(ciphertext))
	frame = append(frame, authID[:]...)
	frame = append(frame, key...)
	frame = append(frame, iv...)
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(ciphertext)))
	frame = append(frame, lenBuf...)
	frame = append(frame, ciphertext...)
	return frame, nil
}

// authID computes SHA256(uuid || be_u32(unix_seconds))[:16].
func authID(uuid [16]byte, now time.Time) ([16]byte, error) {
	var out [16]byte
	h := sha256.New()
	h.Write(uuid[:])
	var ts [4]byte
	binary.BigEndian.PutUint32(ts[:], uint32(now.Unix()))
	h.Write(ts[:])
	sum := h.Sum(nil)
	copy(out[:], sum[:16])
	return out, nil
}

// LegacyRequest builds the legacy (pre-AEAD) request frame written as
// plain bytes once the wrapped stream is established: id || 01 01 00 00
// || 0x10 || 16 random bytes || 0x03 || len(host) || host || be_u16(port)
// || 0x00 || 0x01.
func (c *Client) LegacyRequest(host string, port uint16, now time.Time) ([]byte, error) {
	if len(host) > 255 {
		return nil, fmt.Errorf("vmess: host too long: %d bytes", len(host))
	}

	id := legacyID(c.config.UUID, now)

	padding := make([]byte, paddingLength)
	if _, err := rand.Read(padding); err != nil {
		return nil, fmt.Errorf("vmess: generate padding: %w", err)
	}

	buf := make([]byte, 0, len(id)+4+1+paddingLength+1+1+len(host)+2+1+1)
	buf = append(buf, id[:]...)
	buf = append(buf, 0x01, 0x01, 0x00, 0x00)
	buf = append(buf, paddingLength)
	buf = append(buf, padding...)
	buf = append(buf, 0x03, byte(len(host)))
	buf = append(buf, host...)
	buf = append(buf, byte(port>>8), byte(port))
	buf = append(buf, 0x00, 0x01)
	return buf, nil
}

// legacyID computes MD5(uuid || be_u64(unix_seconds/60)).
func legacyID(uuid [16]byte, now time.Time) [16]byte {
	h := md5.New()
	h.Write(uuid[:])
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now.Unix()/60))
	h.Write(ts[:])
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Handshake drives the request/response dance over an already-open
// byte-stream transport (a *Stream, see stream.go). Every Write on the
// stream is already exactly one Binary WebSocket message (§4.3's write
// path), so the AEAD frame and the legacy frame are both sent with a
// single Write regardless of variant; only the post-handshake drain
// differs:
//   - alterId == 0 (AEAD): after sending, read and discard one message
//     of the server's greeting.
//   - alterId  > 0 (legacy): no pre-drain.
func (c *Client) Handshake(s *Stream, host string, port uint16) error {
	now := time.Now()

	if c.IsAEAD() {
		frame, err := c.AEADRequest(host, port, now)
		if err != nil {
			return err
		}
		if _, err := s.Write(frame); err != nil {
			return fmt.Errorf("vmess: write AEAD request: %w", err)
		}

		if err := s.discardMessage(); err != nil && err != io.EOF {
			return fmt.Errorf("vmess: drain AEAD greeting: %w", err)
		}
		return nil
	}

	frame, err := c.LegacyRequest(host, port, now)
	if err != nil {
		return err
	}
	if _, err := s.Write(frame); err != nil {
		return fmt.Errorf("vmess: write legacy request: %w", err)
	}
	return nil
}
