package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LinkSigner mints and verifies time-limited download tokens for archived
// timetable documents. The token itself is the credential; download
// endpoints sit outside the JWT-guarded API group.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewLinkSigner constructs a signer. A non-positive TTL falls back to one
// hour.
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LinkSigner{secret: []byte(secret), ttl: ttl}
}

// Sign returns a token granting access to the named file until the
// expiry it also returns.
func (s *LinkSigner) Sign(name string) (string, time.Time, error) {
	if name == "" {
		return "", time.Time{}, fmt.Errorf("file name required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("link signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedName := base64.RawURLEncoding.EncodeToString([]byte(name))
	signature := s.compute(expiresAt.Unix(), encodedName)
	token := strings.Join([]string{strconv.FormatInt(expiresAt.Unix(), 10), encodedName, signature}, ".")
	return token, expiresAt, nil
}

// Verify checks a token's signature and expiry and returns the file name
// it grants.
func (s *LinkSigner) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed download token")
	}
	expUnix, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed download token expiry")
	}
	expected := s.compute(expUnix, parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return "", fmt.Errorf("invalid download token signature")
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return "", fmt.Errorf("download token expired")
	}
	name, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode download token name: %w", err)
	}
	return string(name), nil
}

func (s *LinkSigner) compute(expUnix int64, encodedName string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%s", expUnix, encodedName)
	return hex.EncodeToString(mac.Sum(nil))
}
