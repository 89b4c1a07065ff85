package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/repository"
)

// CreateMembers inserts the sample members without photos or notification
// emails. Identifier collisions are retried like a real registration.
func (s *Seed) CreateMembers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, seedMember := range Members {
		member, err := s.createMember(ctx, seedMember)
		if err != nil {
			s.Logger.Fatal().Err(err).Str("email", seedMember.Email).Msg("failed to seed member")
		}
		s.Logger.Info().Str("member_id", member.MemberID).Str("email", member.Email).Msg("member seeded")
	}
}

func (s *Seed) createMember(ctx context.Context, seedMember SeedMember) (*repository.Member, error) {
	dob, err := time.Parse(time.DateOnly, seedMember.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("parse date of birth: %w", err)
	}

	for range 3 {
		memberID, err := s.Allocator.MemberID(time.Now().Year())
		if err != nil {
			return nil, err
		}
		serial, err := s.Allocator.SerialNumber()
		if err != nil {
			return nil, err
		}

		created, err := s.MemberRepo.Create(ctx, &repository.Member{
			MemberID:      memberID,
			SerialNumber:  serial,
			FullName:      seedMember.FullName,
			Email:         seedMember.Email,
			DateOfBirth:   dob,
			Gender:        seedMember.Gender,
			Ward:          seedMember.Ward,
			LGA:           seedMember.LGA,
			State:         seedMember.State,
			Country:       "Nigeria",
			Address:       seedMember.Address,
			MaritalStatus: sql.NullString{String: seedMember.MaritalStatus, Valid: seedMember.MaritalStatus != ""},
		})
		if err == nil {
			return created, nil
		}

		if field, ok := repository.DuplicateField(err); ok && field != "email" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("could not allocate unique identifiers for %s", seedMember.Email)
}
