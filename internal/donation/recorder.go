package donation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/notify"
	"github.com/mr1hm/disaster-relief/internal/repository"
	"github.com/mr1hm/disaster-relief/internal/storage"
)

const (
	msgAmountInvalid     = "Enter a number."
	msgAmountNotPositive = "Ensure this value is greater than 0."
	msgAmountTooLarge    = "Ensure that there are no more than 10 digits in total."
	msgAmountPrecision   = "Ensure that there are no more than 2 decimal places."
)

const (
	AckAutomatic = "Thank you for your donation!"
	AckManual    = "Thank you! Your donation has been recorded."
)

type Store interface {
	repository.UserRepository
	repository.DisasterRepository
	repository.DonationRepository
}

type Recorder struct {
	store    Store
	blobs    storage.Store
	notifier notify.Notifier
}

func NewRecorder(store Store, blobs storage.Store, notifier notify.Notifier) *Recorder {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Recorder{store: store, blobs: blobs, notifier: notifier}
}

// Receipt is a recorded donation plus the acknowledgment shown to the donor.
type Receipt struct {
	Donation *models.Donation `json:"donation"`
	Message  string           `json:"message"`
}

// Record validates c and stores it as a donation by actor to the disaster.
// Only donors may donate. Manual proofs are stored before the record and
// removed again if the record cannot be written.
func (r *Recorder) Record(ctx context.Context, actor access.Actor, disasterID int64, c Contribution) (*Receipt, error) {
	if err := access.Require(actor, models.RoleDonor); err != nil {
		return nil, err
	}
	disaster, err := r.store.GetDisaster(ctx, disasterID)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	d := &models.Donation{
		DonorID:    actor.ID,
		DisasterID: disaster.ID,
		Method:     c.Method(),
	}
	c.apply(d)

	var stored *storage.Object
	if f := c.proof(); f != nil {
		obj, err := r.blobs.Put(ctx, storage.FolderDonationProofs, *f)
		if err != nil {
			return nil, fmt.Errorf("error storing donation proof: %w", err)
		}
		stored = &obj
		d.ProofImage = obj.URL
	}

	if err := r.store.AddDonation(ctx, d); err != nil {
		if stored != nil {
			if derr := r.blobs.Delete(ctx, stored.Key); derr != nil {
				slog.WarnContext(ctx, "error removing orphaned proof", "key", stored.Key, "error", derr)
			}
		}
		return nil, err
	}
	d.DisasterTitle = disaster.Title

	slog.InfoContext(ctx, "donation recorded",
		"donation_id", d.ID, "disaster_id", disaster.ID, "donor_id", actor.ID, "method", d.Method, "amount", d.Amount.String())
	r.notifyOrganiser(ctx, disaster, d)

	ack := AckAutomatic
	if d.Method == models.DonationManual {
		ack = AckManual
	}
	return &Receipt{Donation: d, Message: ack}, nil
}

func (r *Recorder) notifyOrganiser(ctx context.Context, disaster *models.Disaster, d *models.Donation) {
	organiser, err := r.store.GetUser(ctx, disaster.OrganiserID)
	if err != nil {
		slog.WarnContext(ctx, "error loading organiser for notification", "organiser_id", disaster.OrganiserID, "error", err)
		return
	}

	body := fmt.Sprintf("A donation of %s was made to %s.", d.Amount, disaster.Title)
	if d.Method == models.DonationManual {
		body += fmt.Sprintf("\nTransaction ID: %s\nPlease reconcile it against your bank statement.", d.TransactionID)
	}
	r.notifier.Notify(notify.Notification{
		To:      organiser.Email,
		Subject: fmt.Sprintf("New donation for %s", disaster.Title),
		Body:    body,
	})
}
