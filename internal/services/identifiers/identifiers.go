package identifiers

import (
	"fmt"
	"regexp"

	"github.com/Jidetireni/adyc-membership/internal/constants"
)

const (
	memberTokenLength = 6
	serialTokenLength = 8

	// MaxAllocationAttempts bounds insert retries after an identifier collision.
	MaxAllocationAttempts = 3
)

var (
	memberIDPattern     = regexp.MustCompile(`^` + constants.MemberIDPrefix + `-\d{4}-[A-Z0-9]{6}$`)
	serialNumberPattern = regexp.MustCompile(`^` + constants.SerialNumberPrefix + `-[A-Z0-9]{8}$`)
)

// TokenSource yields uppercase alphanumeric tokens from an unpredictable source.
type TokenSource interface {
	Token(length int) (string, error)
}

// Allocator generates identifiers without consulting the store; uniqueness is
// enforced by the store's constraints at insert time.
type Allocator struct {
	source TokenSource
}

func NewAllocator(source TokenSource) *Allocator {
	return &Allocator{source: source}
}

func (a *Allocator) MemberID(year int) (string, error) {
	if year < 1000 || year > 9999 {
		return "", fmt.Errorf("year %d is not four digits", year)
	}

	token, err := a.source.Token(memberTokenLength)
	if err != nil {
		return "", fmt.Errorf("member id token: %w", err)
	}
	return fmt.Sprintf("%s-%04d-%s", constants.MemberIDPrefix, year, token), nil
}

func (a *Allocator) SerialNumber() (string, error) {
	token, err := a.source.Token(serialTokenLength)
	if err != nil {
		return "", fmt.Errorf("serial token: %w", err)
	}
	return fmt.Sprintf("%s-%s", constants.SerialNumberPrefix, token), nil
}

func ValidMemberID(s string) bool {
	return memberIDPattern.MatchString(s)
}

func ValidSerialNumber(s string) bool {
	return serialNumberPattern.MatchString(s)
}
