package verification

import (
	"context"
	"errors"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/Jidetireni/adyc-membership/internal/services/activity"
	"github.com/Jidetireni/adyc-membership/internal/services/identifiers"
	"github.com/Jidetireni/adyc-membership/pkg/metrics"
)

var (
	_ MemberRepository = (*repository.MemberRepository)(nil)
	_ ActivityRecorder = (*activity.Log)(nil)
)

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry)
}

type Verification struct {
	MemberRepo MemberRepository
	Activity   ActivityRecorder
	Metrics    *metrics.Metrics
}

func New(memberRepo MemberRepository, recorder ActivityRecorder, m *metrics.Metrics) *Verification {
	return &Verification{
		MemberRepo: memberRepo,
		Activity:   recorder,
		Metrics:    m,
	}
}

func (v *Verification) lookup(ctx context.Context, memberID string) (*repository.Member, error) {
	if !identifiers.ValidMemberID(memberID) {
		v.Metrics.IncrementVerification("not_found")
		return nil, svc.ErrNotFound
	}

	member, err := v.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		MemberID: &memberID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			v.Metrics.IncrementVerification("not_found")
			return nil, svc.ErrNotFound
		}
		return nil, err
	}

	v.Metrics.IncrementVerification("found")
	return member, nil
}

// VerifyPublic serves an anonymous scan. The view carries member_id,
// full_name, state, lga and registered_at only; email and internal ids stay out.
// Unknown identifiers are not audited.
func (v *Verification) VerifyPublic(ctx context.Context, memberID, method string) (*dto.PublicMemberView, error) {
	member, err := v.lookup(ctx, memberID)
	if err != nil {
		return nil, err
	}

	method = constants.PublicVerificationMethod(method)
	v.Activity.Record(ctx, activity.Entry{
		ActorEmail:   member.Email,
		Action:       constants.ActivityMemberVerified,
		ResourceType: constants.ResourceMember,
		ResourceID:   member.MemberID,
		Details: map[string]any{
			"method": method,
		},
	})

	return &dto.PublicMemberView{
		MemberID:     member.MemberID,
		FullName:     member.FullName,
		State:        member.State,
		LGA:          member.LGA,
		RegisteredAt: member.RegisteredAt,
		Verified:     true,
	}, nil
}

// VerifyForStaff serves an authenticated admin. The view carries member_id,
// full_name and email.
func (v *Verification) VerifyForStaff(ctx context.Context, memberID, principalEmail string) (*dto.StaffMemberView, error) {
	member, err := v.lookup(ctx, memberID)
	if err != nil {
		return nil, err
	}

	v.Activity.Record(ctx, activity.Entry{
		ActorEmail:   member.Email,
		Action:       constants.ActivityMemberVerified,
		ResourceType: constants.ResourceMember,
		ResourceID:   member.MemberID,
		Details: map[string]any{
			"method":      constants.VerificationMethodStaffLookup,
			"verified_by": principalEmail,
		},
	})

	return &dto.StaffMemberView{
		MemberID: member.MemberID,
		FullName: member.FullName,
		Email:    member.Email,
		Verified: true,
	}, nil
}
