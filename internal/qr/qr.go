// Package qr issues and renders the entrance artifact for confirmed bookings:
// an HMAC-signed token carrying the booking and event ids, encoded as a QR
// image so a gate scanner can verify it offline with the shared key.
package qr

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Claims describes the signed QR payload.
type Claims struct {
	BookingID string `json:"booking_id"`
	EventID   string `json:"event_id"`
	jwt.RegisteredClaims
}

// Signer issues and validates entrance tokens.
type Signer struct {
	secret []byte
}

// NewSigner builds a signer over the shared key.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Issue signs an entrance token for the booking.
func (s *Signer) Issue(bookingID, eventID string) (string, error) {
	claims := &Claims{
		BookingID: bookingID,
		EventID:   eventID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  bookingID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a scanned token and returns its claims.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RenderPNG encodes the token as a QR code PNG.
func RenderPNG(token string) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, 256)
}
