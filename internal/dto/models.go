package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterMemberInput struct {
	FullName      string `json:"full_name" validate:"required,notblank,min=3,max=255"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Photo         string `json:"photo" validate:"required"`
	DateOfBirth   string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender        string `json:"gender" validate:"required,oneof=male female"`
	Ward          string `json:"ward" validate:"required,notblank,max=128"`
	LGA           string `json:"lga" validate:"required,notblank,max=128"`
	State         string `json:"state" validate:"required,notblank,max=64"`
	Country       string `json:"country" validate:"required,notblank,max=64"`
	Address       string `json:"address" validate:"required,notblank"`
	Language      string `json:"language,omitempty" validate:"omitempty,max=64"`
	MaritalStatus string `json:"marital_status,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
}

type UpdatePhotoInput struct {
	Photo string `json:"photo" validate:"required"`
}

// Member is the full record as returned to the registrant and to staff.
type Member struct {
	ID            uuid.UUID  `json:"id"`
	MemberID      string     `json:"member_id"`
	SerialNumber  string     `json:"serial_number"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	DateOfBirth   string     `json:"date_of_birth"`
	Gender        string     `json:"gender"`
	Ward          string     `json:"ward"`
	LGA           string     `json:"lga"`
	State         string     `json:"state"`
	Country       string     `json:"country"`
	Address       string     `json:"address"`
	Language      string     `json:"language,omitempty"`
	MaritalStatus string     `json:"marital_status,omitempty"`
	CardGenerated bool       `json:"card_generated"`
	RegisteredAt  time.Time  `json:"registered_at"`
	CardIssuedAt  *time.Time `json:"card_generated_at,omitempty"`
}

// PublicMemberView is what an anonymous QR scan may see.
type PublicMemberView struct {
	MemberID     string    `json:"member_id"`
	FullName     string    `json:"full_name"`
	State        string    `json:"state"`
	LGA          string    `json:"lga"`
	RegisteredAt time.Time `json:"registered_at"`
	Verified     bool      `json:"verified"`
}

// StaffMemberView is what an authenticated admin sees when verifying a member.
type StaffMemberView struct {
	MemberID string `json:"member_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

type VerificationQR struct {
	Image           []byte `json:"-"`
	VerificationURL string `json:"verification_url"`
}

type IDCard struct {
	Filename string
	Document []byte
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        *AuthUser `json:"user"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
}

type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type ActivityLog struct {
	ID           uuid.UUID      `json:"id"`
	ActorEmail   string         `json:"actor_email,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ActivityLogFilters struct {
	Action     *string `json:"action,omitempty"`
	ActorEmail *string `json:"actor_email,omitempty"`
}

type CreatePostInput struct {
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
	Summary    string `json:"summary,omitempty"`
	AuthorName string `json:"author_name,omitempty" validate:"omitempty,max=255"`
	VideoURL   string `json:"video_url,omitempty" validate:"omitempty,url"`
	Published  bool   `json:"published"`
}

type UpdatePostInput struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Content   *string `json:"content,omitempty"`
	Summary   *string `json:"summary,omitempty"`
	VideoURL  *string `json:"video_url,omitempty" validate:"omitempty,url"`
	Published *bool   `json:"published,omitempty"`
}

type Post struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary,omitempty"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	VideoURL    string    `json:"video_url,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type QueryOptions struct {
	Limit  uint32  `json:"limit"`
	Cursor *string `json:"cursor,omitempty"`
}

type ListResponse[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
}
