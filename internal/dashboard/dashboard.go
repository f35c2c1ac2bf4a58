// Package dashboard assembles the per-role overview pages. Every figure is
// recomputed from the store on each call.
package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/repository"
)

type Store interface {
	repository.DisasterRepository
	repository.DonationRepository
	repository.FeedbackRepository
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type Organiser struct {
	Disasters     []models.Disaster `json:"disasters"`
	TotalCount    int               `json:"total_count"`
	ActiveCount   int               `json:"active_count"`
	DonationCount int               `json:"donation_count"`
	AvgRating     float64           `json:"avg_rating"`
	Feedback      []models.Feedback `json:"feedback"`
}

type Donor struct {
	Disasters []models.Disaster `json:"disasters"`
	Donations []models.Donation `json:"donations"`
}

// Organiser summarises the disasters actor posted. Active disasters are the
// high-urgency ones.
func (s *Service) Organiser(ctx context.Context, actor access.Actor) (*Organiser, error) {
	if err := access.Require(actor, models.RoleOrganiser); err != nil {
		return nil, err
	}

	owned := repository.DisasterFilter{OrganiserID: &actor.ID}
	disasters, err := s.store.ListDisasters(ctx, owned)
	if err != nil {
		return nil, fmt.Errorf("error listing disasters: %w", err)
	}

	high := models.UrgencyHigh
	active, err := s.store.CountDisasters(ctx, repository.DisasterFilter{OrganiserID: &actor.ID, Urgency: &high})
	if err != nil {
		return nil, fmt.Errorf("error counting active disasters: %w", err)
	}

	donations, err := s.store.CountDonations(ctx, repository.DonationFilter{OrganiserID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("error counting donations: %w", err)
	}

	avg, err := s.store.AverageRating(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("error averaging ratings: %w", err)
	}

	feedback, err := s.store.ListFeedback(ctx, repository.FeedbackFilter{OrganiserID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}

	return &Organiser{
		Disasters:     disasters,
		TotalCount:    len(disasters),
		ActiveCount:   active,
		DonationCount: donations,
		AvgRating:     roundRating(avg),
		Feedback:      feedback,
	}, nil
}

// Donor lists every disaster alongside the donations actor made.
func (s *Service) Donor(ctx context.Context, actor access.Actor) (*Donor, error) {
	if err := access.Require(actor, models.RoleDonor); err != nil {
		return nil, err
	}

	disasters, err := s.store.ListDisasters(ctx, repository.DisasterFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing disasters: %w", err)
	}
	donations, err := s.store.ListDonations(ctx, repository.DonationFilter{DonorID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	return &Donor{Disasters: disasters, Donations: donations}, nil
}

type DonationList struct {
	Donations []models.Donation `json:"donations"`
	Count     int               `json:"count"`
}

// OrganiserDonations lists donations received across actor's disasters.
func (s *Service) OrganiserDonations(ctx context.Context, actor access.Actor) (*DonationList, error) {
	if err := access.Require(actor, models.RoleOrganiser); err != nil {
		return nil, err
	}
	donations, err := s.store.ListDonations(ctx, repository.DonationFilter{OrganiserID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	return &DonationList{Donations: donations, Count: len(donations)}, nil
}

func (s *Service) DonorDonations(ctx context.Context, actor access.Actor) (*DonationList, error) {
	if err := access.Require(actor, models.RoleDonor); err != nil {
		return nil, err
	}
	donations, err := s.store.ListDonations(ctx, repository.DonationFilter{DonorID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	return &DonationList{Donations: donations, Count: len(donations)}, nil
}

// Feedback lists feedback received by an organiser or given by a donor,
// newest first.
func (s *Service) Feedback(ctx context.Context, actor access.Actor, role models.Role) ([]models.Feedback, error) {
	if err := access.Require(actor, role); err != nil {
		return nil, err
	}

	var filter repository.FeedbackFilter
	switch role {
	case models.RoleOrganiser:
		filter.OrganiserID = &actor.ID
	case models.RoleDonor:
		filter.DonorID = &actor.ID
	default:
		return nil, access.ErrWrongRole
	}
	return s.store.ListFeedback(ctx, filter)
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
