package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Member columns map through the json tags (see database.New).
type Member struct {
	ID              uuid.UUID      `json:"id"`
	MemberID        string         `json:"member_id"`
	SerialNumber    string         `json:"serial_number"`
	FullName        string         `json:"full_name"`
	Email           string         `json:"email"`
	PhotoURL        sql.NullString `json:"photo_url"`
	PhotoStoreID    sql.NullString `json:"photo_store_id"`
	DateOfBirth     time.Time      `json:"date_of_birth"`
	Gender          string         `json:"gender"`
	Ward            string         `json:"ward"`
	LGA             string         `json:"lga"`
	State           string         `json:"state"`
	Country         string         `json:"country"`
	Address         string         `json:"address"`
	Language        sql.NullString `json:"language"`
	MaritalStatus   sql.NullString `json:"marital_status"`
	CardGenerated   bool           `json:"card_generated"`
	CardGeneratedAt sql.NullTime   `json:"card_generated_at"`
	RegisteredAt    time.Time      `json:"registered_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type ActivityLog struct {
	ID           uuid.UUID      `json:"id"`
	ActorEmail   sql.NullString `json:"actor_email"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   sql.NullString `json:"resource_id"`
	Details      types.JSONText `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

type User struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	Role         string       `json:"role"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Post struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Summary     sql.NullString `json:"summary"`
	AuthorName  string         `json:"author_name"`
	AuthorEmail string         `json:"author_email"`
	VideoURL    sql.NullString `json:"video_url"`
	Published   bool           `json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
