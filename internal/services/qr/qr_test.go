package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	issuer := NewIssuer("https://example.org")

	got, err := issuer.Issue("ADYC-2025-ABC123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/verify/ADYC-2025-ABC123", got.VerificationURL)
	require.NotEmpty(t, got.Image)

	img, err := png.Decode(bytes.NewReader(got.Image))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
}

func TestIssueTrimsTrailingSlash(t *testing.T) {
	issuer := NewIssuer("https://example.org/")
	assert.Equal(t, "https://example.org/verify/ADYC-2025-ABC123", issuer.VerificationURL("ADYC-2025-ABC123"))
}

func TestIssueIsPure(t *testing.T) {
	issuer := NewIssuer("https://example.org")

	a, err := issuer.Issue("ADYC-2025-ABC123")
	require.NoError(t, err)
	b, err := issuer.Issue("ADYC-2025-ABC123")
	require.NoError(t, err)
	assert.Equal(t, a.Image, b.Image)
}

func TestIssueRejectsEmptyID(t *testing.T) {
	_, err := NewIssuer("https://example.org").Issue("")
	assert.Error(t, err)
}
