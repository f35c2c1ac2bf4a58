// Package campaign manages disasters posted by organisers and the feedback
// donors leave on them.
package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/repository"
	"github.com/mr1hm/disaster-relief/internal/storage"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

type Store interface {
	repository.DisasterRepository
	repository.FeedbackRepository
}

type Service struct {
	store Store
	blobs storage.Store
}

func NewService(store Store, blobs storage.Store) *Service {
	return &Service{store: store, blobs: blobs}
}

// DisasterForm is the organiser-editable part of a disaster.
type DisasterForm struct {
	Title             string        `json:"title" form:"title" validate:"required,max=100"`
	Description       string        `json:"description" form:"description" validate:"required"`
	Location          string        `json:"location" form:"location" validate:"required,max=100"`
	UrgencyLevel      string        `json:"urgency_level" form:"urgency_level" validate:"required,oneof=low medium high"`
	BankAccountName   string        `json:"bank_account_name" form:"bank_account_name" validate:"required,max=100"`
	BankAccountNumber string        `json:"bank_account_number" form:"bank_account_number" validate:"required,max=30"`
	IFSCCode          string        `json:"ifsc_code" form:"ifsc_code" validate:"required,max=15"`
	UPIID             string        `json:"upi_id" form:"upi_id" validate:"max=50"`
	Image             *storage.File `json:"-" form:"-"`
}

func (f *DisasterForm) normalize() {
	for _, s := range []*string{&f.Title, &f.Description, &f.Location, &f.UrgencyLevel,
		&f.BankAccountName, &f.BankAccountNumber, &f.IFSCCode, &f.UPIID} {
		*s = strings.TrimSpace(*s)
	}
}

func (f *DisasterForm) Validate() error {
	f.normalize()
	return validation.Struct(f).Err()
}

func (f *DisasterForm) apply(d *models.Disaster) {
	d.Title = f.Title
	d.Description = f.Description
	d.Location = f.Location
	d.UrgencyLevel = models.UrgencyLevel(f.UrgencyLevel)
	d.BankAccountName = f.BankAccountName
	d.BankAccountNumber = f.BankAccountNumber
	d.IFSCCode = f.IFSCCode
	d.UPIID = f.UPIID
}

// storeImage keeps an uploaded image. A nil object means nothing was
// uploaded.
func (s *Service) storeImage(ctx context.Context, f *storage.File) (*storage.Object, error) {
	if f == nil || f.Size == 0 {
		return nil, nil
	}
	obj, err := s.blobs.Put(ctx, storage.FolderDisasterImages, *f)
	if err != nil {
		return nil, fmt.Errorf("error storing disaster image: %w", err)
	}
	return &obj, nil
}

// dropImage removes a stored image by url. Failures are logged only, the
// disaster row is already consistent.
func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.blobs.KeyOf(url)
	if !ok {
		slog.WarnContext(ctx, "disaster image not managed by blob store", "url", url)
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "error removing disaster image", "key", key, "error", err)
	}
}

// Create posts a new disaster owned by actor.
func (s *Service) Create(ctx context.Context, actor access.Actor, form DisasterForm) (*models.Disaster, error) {
	if err := access.Require(actor, models.RoleOrganiser); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	d := &models.Disaster{OrganiserID: actor.ID}
	form.apply(d)
	image, err := s.storeImage(ctx, form.Image)
	if err != nil {
		return nil, err
	}
	if image != nil {
		d.Image = image.URL
	}

	if err := s.store.AddDisaster(ctx, d); err != nil {
		s.dropImage(ctx, d.Image)
		return nil, err
	}
	slog.InfoContext(ctx, "disaster posted", "disaster_id", d.ID, "organiser_id", actor.ID, "urgency", d.UrgencyLevel)
	return d, nil
}

// Get returns a disaster owned by actor. Disasters of other organisers are
// reported as not found.
func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*models.Disaster, error) {
	if err := access.Require(actor, models.RoleOrganiser); err != nil {
		return nil, err
	}
	return s.store.GetOwnedDisaster(ctx, id, actor.ID)
}

// Update replaces the editable fields of a disaster owned by actor. The
// image is only replaced when a new one is uploaded, and the replaced one is
// removed from the blob store once the row is saved.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, form DisasterForm) (*models.Disaster, error) {
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	form.apply(d)
	image, err := s.storeImage(ctx, form.Image)
	if err != nil {
		return nil, err
	}
	previous := d.Image
	if image != nil {
		d.Image = image.URL
	}

	if err := s.store.UpdateDisaster(ctx, d); err != nil {
		if image != nil {
			s.dropImage(ctx, image.URL)
		}
		return nil, err
	}
	if image != nil {
		s.dropImage(ctx, previous)
	}
	slog.InfoContext(ctx, "disaster updated", "disaster_id", d.ID, "organiser_id", actor.ID)
	return d, nil
}

// Delete removes a disaster owned by actor with all of its donations,
// messages and feedback.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteDisaster(ctx, id, actor.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "disaster deleted", "disaster_id", id, "organiser_id", actor.ID)
	return nil
}
