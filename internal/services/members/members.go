package members

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/internal/helpers"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/Jidetireni/adyc-membership/internal/services/activity"
	"github.com/Jidetireni/adyc-membership/internal/services/card"
	"github.com/Jidetireni/adyc-membership/internal/services/identifiers"
	"github.com/Jidetireni/adyc-membership/internal/services/notifications"
	"github.com/Jidetireni/adyc-membership/internal/services/qr"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/metrics"
	"github.com/Jidetireni/adyc-membership/pkg/storage"
	"github.com/samber/lo"
)

var (
	_ MemberRepository = (*repository.MemberRepository)(nil)
	_ PhotoStore       = (*storage.PhotoStore)(nil)
	_ Allocator        = (*identifiers.Allocator)(nil)
	_ CardRenderer     = (*card.Renderer)(nil)
	_ Notifier         = (*notifications.Dispatcher)(nil)
	_ QRIssuer         = (*qr.Issuer)(nil)
	_ ActivityRecorder = (*activity.Log)(nil)
)

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
	Exists(ctx context.Context, filter repository.MemberRepositoryFilter) (bool, error)
	Create(ctx context.Context, member *repository.Member) (*repository.Member, error)
	UpdatePhoto(ctx context.Context, memberID, url, photoStoreID string) (bool, error)
	MarkCardGenerated(ctx context.Context, memberID string) (bool, error)
	List(ctx context.Context, opts repository.QueryOptions) (*repository.ListResult[repository.Member], error)
}

type PhotoStore interface {
	Upload(ctx context.Context, encoded, ownerKey string) (*storage.Photo, error)
	Delete(ctx context.Context, storeID string) error
}

type Allocator interface {
	MemberID(year int) (string, error)
	SerialNumber() (string, error)
}

type CardRenderer interface {
	Render(member *repository.Member) ([]byte, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, member *repository.Member)
	SendMemberConfirmationSync(ctx context.Context, member *repository.Member) error
}

type QRIssuer interface {
	Issue(memberID string) (*dto.VerificationQR, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry)
}

type Member struct {
	MemberRepository MemberRepository
	PhotoStore       PhotoStore
	Allocator        Allocator
	Renderer         CardRenderer
	Notifier         Notifier
	QRIssuer         QRIssuer
	Activity         ActivityRecorder
	Logger           *logger.Logger
	Metrics          *metrics.Metrics
	Now              func() time.Time
}

func New(
	memberRepo MemberRepository,
	photoStore PhotoStore,
	allocator Allocator,
	renderer CardRenderer,
	notifier Notifier,
	qrIssuer QRIssuer,
	recorder ActivityRecorder,
	log *logger.Logger,
	m *metrics.Metrics,
) *Member {
	return &Member{
		MemberRepository: memberRepo,
		PhotoStore:       photoStore,
		Allocator:        allocator,
		Renderer:         renderer,
		Notifier:         notifier,
		QRIssuer:         qrIssuer,
		Activity:         recorder,
		Logger:           log,
		Metrics:          m,
		Now:              time.Now,
	}
}

var errEmailTaken = &svc.APIError{
	Status:  http.StatusConflict,
	Message: "a member with this email is already registered",
}

// Register validates, allocates identifiers, persists, audits and starts the
// notification emails. Only persistence failures fail the call.
func (m *Member) Register(ctx context.Context, input dto.RegisterMemberInput) (*dto.Member, error) {
	email := helpers.NormalizeEmail(input.Email)

	input = trimRegistration(input)
	if blank := blankRegistrationFields(input); len(blank) > 0 {
		return nil, &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: "required fields must not be blank: " + strings.Join(blank, ", "),
		}
	}

	dob, err := time.Parse(time.DateOnly, input.DateOfBirth)
	if err != nil {
		return nil, &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: "date_of_birth must be YYYY-MM-DD",
		}
	}

	emailExists, err := m.MemberRepository.Exists(ctx, repository.MemberRepositoryFilter{
		Email: &email,
	})
	if err != nil {
		return nil, err
	}
	if emailExists {
		m.Metrics.IncrementRegistration("duplicate")
		return nil, errEmailTaken
	}

	photo, err := m.uploadPhoto(ctx, input.Photo, email)
	if err != nil {
		return nil, err
	}

	record := &repository.Member{
		FullName:      input.FullName,
		Email:         email,
		PhotoURL:      repository.ToNullString(&photo.URL),
		PhotoStoreID:  repository.ToNullString(&photo.StoreID),
		DateOfBirth:   dob,
		Gender:        input.Gender,
		Ward:          input.Ward,
		LGA:           input.LGA,
		State:         input.State,
		Country:       input.Country,
		Address:       input.Address,
		Language:      repository.ToNullString(&input.Language),
		MaritalStatus: repository.ToNullString(&input.MaritalStatus),
	}

	created, err := m.insertWithFreshIdentifiers(ctx, record)
	if err != nil {
		m.discardPhoto(ctx, photo.StoreID)
		if errors.Is(err, errEmailTaken) {
			m.Metrics.IncrementRegistration("duplicate")
		} else {
			m.Metrics.IncrementRegistration("failed")
		}
		return nil, err
	}
	m.Metrics.IncrementRegistration("created")

	m.Activity.Record(ctx, activity.Entry{
		ActorEmail:   created.Email,
		Action:       constants.ActivityMemberRegistered,
		ResourceType: constants.ResourceMember,
		ResourceID:   created.MemberID,
		Details: map[string]any{
			"serial_number": created.SerialNumber,
			"state":         created.State,
			"has_photo":     created.PhotoURL.Valid,
		},
	})

	m.Notifier.Dispatch(ctx, created)

	return toDTO(created), nil
}

func trimRegistration(input dto.RegisterMemberInput) dto.RegisterMemberInput {
	input.FullName = strings.Join(strings.Fields(input.FullName), " ")
	input.Ward = strings.TrimSpace(input.Ward)
	input.LGA = strings.TrimSpace(input.LGA)
	input.State = strings.TrimSpace(input.State)
	input.Country = strings.TrimSpace(input.Country)
	input.Address = strings.TrimSpace(input.Address)
	input.Gender = strings.TrimSpace(input.Gender)
	input.Language = strings.TrimSpace(input.Language)
	input.MaritalStatus = strings.TrimSpace(input.MaritalStatus)
	return input
}

// blankRegistrationFields lists the fields the ID card prints that are empty
// after trimming.
func blankRegistrationFields(input dto.RegisterMemberInput) []string {
	fields := []lo.Tuple2[string, string]{
		lo.T2("full_name", input.FullName),
		lo.T2("gender", input.Gender),
		lo.T2("ward", input.Ward),
		lo.T2("lga", input.LGA),
		lo.T2("state", input.State),
		lo.T2("country", input.Country),
		lo.T2("address", input.Address),
	}
	return lo.FilterMap(fields, func(f lo.Tuple2[string, string], _ int) (string, bool) {
		return f.A, f.B == ""
	})
}

// uploadPhoto rejects undecodable images and tolerates an unavailable store,
// in which case the member is registered without a photo.
func (m *Member) uploadPhoto(ctx context.Context, encoded, email string) (storage.Photo, error) {
	photo, err := m.PhotoStore.Upload(ctx, encoded, helpers.HashToken(email))
	if err == nil {
		return *photo, nil
	}

	if errors.Is(err, storage.ErrInvalidImage) || errors.Is(err, storage.ErrPhotoTooLarge) {
		return storage.Photo{}, &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	m.Logger.Warn().Err(err).Msg("photo upload failed, registering without photo")
	return storage.Photo{}, nil
}

func (m *Member) discardPhoto(ctx context.Context, storeID string) {
	if storeID == "" {
		return
	}
	if err := m.PhotoStore.Delete(ctx, storeID); err != nil {
		m.Logger.Warn().Err(err).Str("photo_store_id", storeID).Msg("failed to delete orphaned photo")
	}
}

// insertWithFreshIdentifiers retries on member_id or serial_number collisions.
// An email collision means a concurrent registration won and is final.
func (m *Member) insertWithFreshIdentifiers(ctx context.Context, record *repository.Member) (*repository.Member, error) {
	year := m.Now().Year()

	for attempt := 1; attempt <= identifiers.MaxAllocationAttempts; attempt++ {
		memberID, err := m.Allocator.MemberID(year)
		if err != nil {
			return nil, err
		}
		serial, err := m.Allocator.SerialNumber()
		if err != nil {
			return nil, err
		}
		record.MemberID = memberID
		record.SerialNumber = serial

		created, err := m.MemberRepository.Create(ctx, record)
		if err == nil {
			return created, nil
		}

		field, isDuplicate := repository.DuplicateField(err)
		if !isDuplicate {
			return nil, err
		}
		if field == "email" {
			return nil, errEmailTaken
		}

		m.Logger.Warn().
			Str("field", field).
			Int("attempt", attempt).
			Msg("identifier collision, reallocating")
	}

	return nil, svc.ErrAllocationExhausted
}

func (m *Member) find(ctx context.Context, memberID string) (*repository.Member, error) {
	if !identifiers.ValidMemberID(memberID) {
		return nil, svc.ErrNotFound
	}

	member, err := m.MemberRepository.Get(ctx, repository.MemberRepositoryFilter{
		MemberID: &memberID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svc.ErrNotFound
		}
		return nil, err
	}
	return member, nil
}

// GenerateCard issues a member's card exactly once. Rendering happens before
// the flag flips so a render failure leaves the card available.
func (m *Member) GenerateCard(ctx context.Context, memberID string) (*dto.IDCard, error) {
	member, err := m.find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.CardGenerated {
		m.Metrics.IncrementCardGenerated("already_generated")
		return nil, svc.ErrAlreadyGenerated
	}

	document, err := m.render(member)
	if err != nil {
		return nil, err
	}

	flipped, err := m.MemberRepository.MarkCardGenerated(ctx, member.MemberID)
	if err != nil {
		m.Metrics.IncrementCardGenerated("failed")
		return nil, err
	}
	if !flipped {
		m.Metrics.IncrementCardGenerated("already_generated")
		return nil, svc.ErrAlreadyGenerated
	}
	m.Metrics.IncrementCardGenerated("generated")

	m.Activity.Record(ctx, activity.Entry{
		ActorEmail:   member.Email,
		Action:       constants.ActivityIDCardGenerated,
		ResourceType: constants.ResourceMember,
		ResourceID:   member.MemberID,
		Details: map[string]any{
			"serial_number": member.SerialNumber,
		},
	})

	return &dto.IDCard{
		Filename: card.Filename(member.MemberID),
		Document: document,
	}, nil
}

// ReissueCard lets an admin download a card regardless of the one-shot flag.
// The flag is still set, never cleared.
func (m *Member) ReissueCard(ctx context.Context, memberID, adminEmail string) (*dto.IDCard, error) {
	member, err := m.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	document, err := m.render(member)
	if err != nil {
		return nil, err
	}

	firstIssue, err := m.MemberRepository.MarkCardGenerated(ctx, member.MemberID)
	if err != nil {
		return nil, err
	}
	m.Metrics.IncrementCardGenerated("reissued")

	m.Activity.Record(ctx, activity.Entry{
		ActorEmail:   adminEmail,
		Action:       constants.ActivityIDCardGenerated,
		ResourceType: constants.ResourceMember,
		ResourceID:   member.MemberID,
		Details: map[string]any{
			"serial_number": member.SerialNumber,
			"override":      true,
			"first_issue":   firstIssue,
		},
	})

	return &dto.IDCard{
		Filename: card.Filename(member.MemberID),
		Document: document,
	}, nil
}

func (m *Member) render(member *repository.Member) ([]byte, error) {
	document, err := m.Renderer.Render(member)
	if err != nil {
		m.Metrics.IncrementCardGenerated("failed")
		m.Logger.Error().Err(err).Str("member_id", member.MemberID).Msg("card render failed")
		return nil, err
	}
	return document, nil
}

// IssueQR returns the verification QR for an existing member.
func (m *Member) IssueQR(ctx context.Context, memberID string) (*dto.VerificationQR, error) {
	if !identifiers.ValidMemberID(memberID) {
		return nil, svc.ErrNotFound
	}

	exists, err := m.MemberRepository.Exists(ctx, repository.MemberRepositoryFilter{
		MemberID: &memberID,
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, svc.ErrNotFound
	}

	return m.QRIssuer.Issue(memberID)
}

func (m *Member) Get(ctx context.Context, memberID string) (*dto.Member, error) {
	member, err := m.find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return toDTO(member), nil
}

func (m *Member) List(ctx context.Context, opts dto.QueryOptions) (*dto.ListResponse[dto.Member], error) {
	result, err := m.MemberRepository.List(ctx, repository.QueryOptions{
		Limit:  opts.Limit,
		Cursor: opts.Cursor,
	})
	if err != nil {
		return nil, err
	}

	return &dto.ListResponse[dto.Member]{
		Items: lo.Map(result.Items, func(member *repository.Member, _ int) dto.Member {
			return *toDTO(member)
		}),
		NextCursor: result.NextCursor,
	}, nil
}

// ReplacePhoto uploads a new photo, points the member at it and then removes
// the previous object.
func (m *Member) ReplacePhoto(ctx context.Context, memberID string, input dto.UpdatePhotoInput, adminEmail string) (*dto.Member, error) {
	member, err := m.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	photo, err := m.PhotoStore.Upload(ctx, input.Photo, helpers.HashToken(member.Email))
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) || errors.Is(err, storage.ErrPhotoTooLarge) {
			return nil, &svc.APIError{Status: http.StatusBadRequest, Message: err.Error()}
		}
		return nil, fmt.Errorf("%w: %w", svc.ErrUpstreamUnavailable, err)
	}

	updated, err := m.MemberRepository.UpdatePhoto(ctx, member.MemberID, photo.URL, photo.StoreID)
	if err != nil {
		m.discardPhoto(ctx, photo.StoreID)
		return nil, err
	}
	if !updated {
		m.discardPhoto(ctx, photo.StoreID)
		return nil, svc.ErrNotFound
	}

	m.discardPhoto(ctx, member.PhotoStoreID.String)

	m.Activity.Record(ctx, activity.Entry{
		ActorEmail:   adminEmail,
		Action:       constants.ActivityMemberPhotoUpdated,
		ResourceType: constants.ResourceMember,
		ResourceID:   member.MemberID,
	})

	member.PhotoURL = repository.ToNullString(&photo.URL)
	member.PhotoStoreID = repository.ToNullString(&photo.StoreID)
	return toDTO(member), nil
}

// SendTestEmail resends the confirmation email and waits for the result.
func (m *Member) SendTestEmail(ctx context.Context, memberID string) error {
	member, err := m.find(ctx, memberID)
	if err != nil {
		return err
	}

	if err := m.Notifier.SendMemberConfirmationSync(ctx, member); err != nil {
		return fmt.Errorf("%w: %w", svc.ErrUpstreamUnavailable, err)
	}
	return nil
}

func toDTO(member *repository.Member) *dto.Member {
	var issuedAt *time.Time
	if member.CardGeneratedAt.Valid {
		issuedAt = lo.ToPtr(member.CardGeneratedAt.Time)
	}

	return &dto.Member{
		ID:            member.ID,
		MemberID:      member.MemberID,
		SerialNumber:  member.SerialNumber,
		FullName:      member.FullName,
		Email:         member.Email,
		PhotoURL:      member.PhotoURL.String,
		DateOfBirth:   member.DateOfBirth.Format(time.DateOnly),
		Gender:        member.Gender,
		Ward:          member.Ward,
		LGA:           member.LGA,
		State:         member.State,
		Country:       member.Country,
		Address:       member.Address,
		Language:      member.Language.String,
		MaritalStatus: member.MaritalStatus.String,
		CardGenerated: member.CardGenerated,
		RegisteredAt:  member.RegisteredAt,
		CardIssuedAt:  issuedAt,
	}
}
