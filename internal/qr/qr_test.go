package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")

	token, err := signer.Issue("booking-123", "event-456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "booking-123", claims.BookingID)
	assert.Equal(t, "event-456", claims.EventID)
	assert.Equal(t, "booking-123", claims.Subject)
}

func TestSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSigner("test-secret")

	token, err := signer.Issue("booking-123", "event-456")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = signer.Verify(tampered)
	assert.Error(t, err)
}

func TestSignerRejectsForeignKey(t *testing.T) {
	token, err := NewSigner("key-a").Issue("booking-123", "event-456")
	require.NoError(t, err)

	_, err = NewSigner("key-b").Verify(token)
	assert.Error(t, err)
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG("some-token")
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
