package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/alphauniversity/portal/core"
)

// Password-reset tokens are stateless: the signed payload embeds the email
// address and the purpose tag, so no server-side token store exists. A
// redeemed token stays structurally valid until it expires; the password
// change itself is the state mutation.

const resetTokenPurpose = "password-reset"

var (
	salt      = []byte("portal.core.user.token")
	secretKey = []byte("dev-key-123")
	nowFunc   = time.Now // mockable

	resetTokenMaxAge = core.ResetTokenMaxAge

	// errors
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SetSecretKey installs the signing key; call once at startup.
func SetSecretKey(key string) {
	secretKey = []byte(key)
}

// MakeResetToken generates a password-reset token embedding the given email.
func MakeResetToken(email string) string {
	return makeTokenWithTimestamp(email, nowFunc().Unix())
}

// VerifyResetToken checks signature, purpose and age, and returns the
// embedded email address.
func VerifyResetToken(token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}

	parts := strings.SplitN(token, ".", 3)
	if len(parts) < 3 {
		return "", ErrTokenInvalid
	}

	emailBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrTokenInvalid
	}
	email := string(emailBytes)

	tsData, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[1])
	if err != nil {
		return "", ErrTokenInvalid
	}
	ts, err := strconv.ParseInt(string(tsData), 10, 64)
	if err != nil {
		return "", ErrTokenInvalid
	}

	// check that the token has not been tampered with
	expected := makeTokenWithTimestamp(email, ts)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return "", ErrTokenInvalid
	}

	// check that the timestamp is within limit
	if time.Now().Sub(time.Unix(ts, 0)) > resetTokenMaxAge {
		return "", ErrTokenExpired
	}
	return email, nil
}

func makeTokenWithTimestamp(email string, ts int64) string {
	uid := base64.RawURLEncoding.EncodeToString([]byte(email))
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.FormatInt(ts, 10)))
	return uid + "." + tsB32 + "." + sign(hashValue(email, ts))
}

func sign(val []byte) string {
	key := sha256.Sum256(append(salt, secretKey...))
	h := hmac.New(sha256.New, key[:])
	h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func hashValue(email string, ts int64) []byte {
	var val bytes.Buffer
	val.WriteString(email)
	val.WriteByte(0)
	val.WriteString(resetTokenPurpose)
	val.WriteByte(0)
	val.WriteString(strconv.FormatInt(ts, 10))
	return val.Bytes()
}
