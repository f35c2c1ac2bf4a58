package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/repository"
)

type fixture struct {
	db        *repository.SQLiteDB
	svc       *Service
	organiser *models.User
	other     *models.User
	donor     *models.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := repository.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:        db,
		svc:       NewService(db),
		organiser: &models.User{Username: "org", Role: models.RoleOrganiser, PasswordHash: "x"},
		other:     &models.User{Username: "org2", Role: models.RoleOrganiser, PasswordHash: "x"},
		donor:     &models.User{Username: "donor", Role: models.RoleDonor, PasswordHash: "x"},
	}
	for _, u := range []*models.User{f.organiser, f.other, f.donor} {
		if err := db.AddUser(context.Background(), u); err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
	}
	return f
}

func (f *fixture) disaster(t *testing.T, owner *models.User, title string, urgency models.UrgencyLevel, posted time.Time) *models.Disaster {
	t.Helper()
	d := &models.Disaster{OrganiserID: owner.ID, Title: title, Description: "d", Location: "l",
		UrgencyLevel: urgency, PostedAt: posted, BankAccountName: "n", BankAccountNumber: "1", IFSCCode: "i"}
	if err := f.db.AddDisaster(context.Background(), d); err != nil {
		t.Fatalf("AddDisaster failed: %v", err)
	}
	return d
}

func (f *fixture) feedback(t *testing.T, d *models.Disaster, rating int) {
	t.Helper()
	fb := &models.Feedback{DonorID: f.donor.ID, OrganiserID: d.OrganiserID, DisasterID: d.ID, Rating: rating}
	if err := f.db.AddFeedback(context.Background(), fb); err != nil {
		t.Fatalf("AddFeedback failed: %v", err)
	}
}

func TestOrganiser_Empty(t *testing.T) {
	f := setup(t)

	got, err := f.svc.Organiser(context.Background(), access.ActorOf(f.organiser))
	if err != nil {
		t.Fatalf("Organiser failed: %v", err)
	}
	if got.AvgRating != 0 || got.TotalCount != 0 || got.DonationCount != 0 {
		t.Errorf("expected zeroed dashboard, got %+v", got)
	}
	if got.Disasters == nil || got.Feedback == nil {
		t.Error("expected empty lists rather than nil")
	}
}

func TestOrganiser_Counts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	flood := f.disaster(t, f.organiser, "Flood", models.UrgencyHigh, base)
	quake := f.disaster(t, f.organiser, "Quake", models.UrgencyHigh, base.Add(time.Hour))
	f.disaster(t, f.organiser, "Drought", models.UrgencyLow, base.Add(2*time.Hour))
	foreign := f.disaster(t, f.other, "Cyclone", models.UrgencyHigh, base)

	for _, d := range []*models.Disaster{flood, quake, foreign} {
		err := f.db.AddDonation(ctx, &models.Donation{DonorID: f.donor.ID, DisasterID: d.ID, Method: models.DonationAutomatic, Amount: 100})
		if err != nil {
			t.Fatalf("AddDonation failed: %v", err)
		}
	}
	f.feedback(t, flood, 5)
	f.feedback(t, quake, 4)
	f.feedback(t, quake, 4)
	f.feedback(t, foreign, 1)

	got, err := f.svc.Organiser(ctx, access.ActorOf(f.organiser))
	if err != nil {
		t.Fatalf("Organiser failed: %v", err)
	}
	if got.TotalCount != 3 {
		t.Errorf("expected 3 disasters, got %d", got.TotalCount)
	}
	if got.ActiveCount != 2 {
		t.Errorf("expected 2 active, got %d", got.ActiveCount)
	}
	if got.DonationCount != 2 {
		t.Errorf("expected 2 donations, got %d", got.DonationCount)
	}
	if got.AvgRating != 4.3 {
		t.Errorf("expected avg 4.3, got %v", got.AvgRating)
	}
	if len(got.Feedback) != 3 {
		t.Errorf("expected 3 feedback entries, got %d", len(got.Feedback))
	}
	if got.Disasters[0].Title != "Drought" {
		t.Errorf("expected newest disaster first, got %s", got.Disasters[0].Title)
	}
}

func TestDonor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	old := f.disaster(t, f.organiser, "Old", models.UrgencyLow, base)
	f.disaster(t, f.other, "New", models.UrgencyMedium, base.Add(time.Hour))
	if err := f.db.AddDonation(ctx, &models.Donation{DonorID: f.donor.ID, DisasterID: old.ID, Method: models.DonationAutomatic, Amount: 100}); err != nil {
		t.Fatalf("AddDonation failed: %v", err)
	}

	got, err := f.svc.Donor(ctx, access.ActorOf(f.donor))
	if err != nil {
		t.Fatalf("Donor failed: %v", err)
	}
	if len(got.Disasters) != 2 || got.Disasters[0].Title != "New" {
		t.Errorf("expected all disasters newest first, got %+v", got.Disasters)
	}
	if len(got.Donations) != 1 {
		t.Errorf("expected 1 donation, got %d", len(got.Donations))
	}
}

func TestWrongRole(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.svc.Organiser(ctx, access.ActorOf(f.donor)); !errors.Is(err, access.ErrWrongRole) {
		t.Errorf("expected ErrWrongRole, got %v", err)
	}
	if _, err := f.svc.Donor(ctx, access.ActorOf(f.organiser)); !errors.Is(err, access.ErrWrongRole) {
		t.Errorf("expected ErrWrongRole, got %v", err)
	}
	if _, err := f.svc.Feedback(ctx, access.ActorOf(f.donor), models.RoleOrganiser); !errors.Is(err, access.ErrWrongRole) {
		t.Errorf("expected ErrWrongRole, got %v", err)
	}
}

func TestListings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	d := f.disaster(t, f.organiser, "Flood", models.UrgencyHigh, time.Time{})
	if err := f.db.AddDonation(ctx, &models.Donation{DonorID: f.donor.ID, DisasterID: d.ID, Method: models.DonationAutomatic, Amount: 2500}); err != nil {
		t.Fatalf("AddDonation failed: %v", err)
	}
	f.feedback(t, d, 3)

	received, err := f.svc.OrganiserDonations(ctx, access.ActorOf(f.organiser))
	if err != nil || received.Count != 1 {
		t.Errorf("expected 1 received donation, got %+v, %v", received, err)
	}
	given, err := f.svc.DonorDonations(ctx, access.ActorOf(f.donor))
	if err != nil || given.Count != 1 {
		t.Errorf("expected 1 given donation, got %+v, %v", given, err)
	}
	fb, err := f.svc.Feedback(ctx, access.ActorOf(f.donor), models.RoleDonor)
	if err != nil || len(fb) != 1 {
		t.Errorf("expected 1 feedback given, got %v, %v", fb, err)
	}
	if fb, _ := f.svc.Feedback(ctx, access.ActorOf(f.other), models.RoleOrganiser); len(fb) != 0 {
		t.Errorf("other organiser should see no feedback, got %d", len(fb))
	}
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4.333333, 4.3},
		{4.25, 4.3},
		{3.04, 3.0},
		{5, 5},
	}
	for _, tt := range tests {
		if got := roundRating(tt.in); got != tt.want {
			t.Errorf("roundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
