package campaign

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

const AckFeedback = "Thank you for your feedback!"

type FeedbackForm struct {
	Rating  int    `json:"rating" form:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" form:"comment"`
}

func (f FeedbackForm) Validate() error {
	return validation.Struct(f).Err()
}

// SubmitFeedback records a donor's rating of the organiser running the
// disaster.
func (s *Service) SubmitFeedback(ctx context.Context, actor access.Actor, disasterID int64, form FeedbackForm) (*models.Feedback, error) {
	if err := access.Require(actor, models.RoleDonor); err != nil {
		return nil, err
	}
	disaster, err := s.store.GetDisaster(ctx, disasterID)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	fb := &models.Feedback{
		DonorID:     actor.ID,
		OrganiserID: disaster.OrganiserID,
		DisasterID:  disaster.ID,
		Rating:      form.Rating,
		Comment:     strings.TrimSpace(form.Comment),
	}
	if err := s.store.AddFeedback(ctx, fb); err != nil {
		return nil, err
	}
	fb.DisasterTitle = disaster.Title

	slog.InfoContext(ctx, "feedback submitted", "disaster_id", disaster.ID, "donor_id", actor.ID, "rating", fb.Rating)
	return fb, nil
}
