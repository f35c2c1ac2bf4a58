package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/disaster-relief/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type DisasterFilter struct {
	OrganiserID *int64
	Urgency     *models.UrgencyLevel
	Limit       int
	Offset      int
}

type DonationFilter struct {
	DonorID     *int64
	DisasterID  *int64
	OrganiserID *int64 // donations to any disaster owned by this organiser
}

type MessageFilter struct {
	RecipientID *int64
	SenderID    *int64
	DisasterID  *int64
}

type FeedbackFilter struct {
	DonorID     *int64
	OrganiserID *int64
	DisasterID  *int64
}

type UserRepository interface {
	AddUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type DisasterRepository interface {
	AddDisaster(ctx context.Context, d *models.Disaster) error
	GetDisaster(ctx context.Context, id int64) (*models.Disaster, error)
	// GetOwnedDisaster reports ErrNotFound both for missing disasters and for
	// disasters owned by someone else.
	GetOwnedDisaster(ctx context.Context, id, organiserID int64) (*models.Disaster, error)
	UpdateDisaster(ctx context.Context, d *models.Disaster) error
	DeleteDisaster(ctx context.Context, id, organiserID int64) error
	ListDisasters(ctx context.Context, opts DisasterFilter) ([]models.Disaster, error)
	CountDisasters(ctx context.Context, opts DisasterFilter) (int, error)
}

type DonationRepository interface {
	AddDonation(ctx context.Context, d *models.Donation) error
	ListDonations(ctx context.Context, opts DonationFilter) ([]models.Donation, error)
	CountDonations(ctx context.Context, opts DonationFilter) (int, error)
}

type MessageRepository interface {
	AddMessage(ctx context.Context, m *models.Message) error
	// ThreadMessages returns a disaster's messages oldest first.
	ThreadMessages(ctx context.Context, disasterID int64) ([]models.Message, error)
	// ListMessages returns matching messages newest first.
	ListMessages(ctx context.Context, opts MessageFilter) ([]models.Message, error)
	CountMessages(ctx context.Context, opts MessageFilter) (int, error)
}

type FeedbackRepository interface {
	AddFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context, opts FeedbackFilter) ([]models.Feedback, error)
	CountFeedback(ctx context.Context, opts FeedbackFilter) (int, error)
	// AverageRating is 0 when the organiser has no feedback.
	AverageRating(ctx context.Context, organiserID int64) (float64, error)
}

type TokenRepository interface {
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Store is the full persistence layer.
type Store interface {
	UserRepository
	DisasterRepository
	DonationRepository
	MessageRepository
	FeedbackRepository
	TokenRepository
	Close() error
}
