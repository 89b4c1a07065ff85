package card

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pageObject = regexp.MustCompile(`/Type /Page[^s]`)

func sampleMember() *repository.Member {
	return &repository.Member{
		MemberID:     "ADYC-2025-ABC123",
		SerialNumber: "SN-XY12ZW90",
		FullName:     "Jane Doe",
		Email:        "a@x.org",
		State:        "Lagos",
		LGA:          "Ikeja",
		Gender:       "female",
		DateOfBirth:  time.Date(1995, 5, 1, 0, 0, 0, 0, time.UTC),
		RegisteredAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer()

	t.Run("produces a pdf document", func(t *testing.T) {
		doc, err := r.Render(sampleMember())
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
		assert.Len(t, pageObject.FindAll(doc, -1), 2)
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, err := r.Render(sampleMember())
		require.NoError(t, err)
		second, err := r.Render(sampleMember())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("missing full name", func(t *testing.T) {
		m := sampleMember()
		m.FullName = "  "

		_, err := r.Render(m)
		require.ErrorIs(t, err, ErrRender)
		assert.Contains(t, err.Error(), "full_name")
	})

	t.Run("lists every missing field", func(t *testing.T) {
		m := sampleMember()
		m.SerialNumber = ""
		m.DateOfBirth = time.Time{}

		_, err := r.Render(m)
		require.ErrorIs(t, err, ErrRender)
		assert.Contains(t, err.Error(), "serial_number")
		assert.Contains(t, err.Error(), "date_of_birth")
	})

	t.Run("nil member", func(t *testing.T) {
		_, err := r.Render(nil)
		assert.ErrorIs(t, err, ErrRender)
	})

	t.Run("long values still render", func(t *testing.T) {
		m := sampleMember()
		m.FullName = "Oluwaseun Adebayo-Okonkwo Chukwuemeka Babatunde"
		m.Email = "a.really.long.mailbox.name@some-organisation.example.org"

		doc, err := r.Render(m)
		require.NoError(t, err)
		assert.NotEmpty(t, doc)
	})
}

func TestIssueYear(t *testing.T) {
	m := sampleMember()
	assert.Equal(t, "2025", issueYear(m))

	m.MemberID = "legacy"
	assert.Equal(t, "2025", issueYear(m))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "ADYC-ID-ADYC-2025-ABC123.pdf", Filename("ADYC-2025-ABC123"))
}
