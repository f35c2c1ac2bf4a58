package messaging

import (
	"errors"
	"testing"

	"github.com/mr1hm/disaster-relief/internal/models"
)

func TestResolveRecipient(t *testing.T) {
	organiser := &models.User{ID: 1, Role: models.RoleOrganiser}
	donorB := &models.User{ID: 2, Role: models.RoleDonor}
	donorC := &models.User{ID: 3, Role: models.RoleDonor}
	disaster := &models.Disaster{ID: 10, OrganiserID: organiser.ID}

	tests := []struct {
		name    string
		sender  *models.User
		history []models.Message
		want    int64
		wantErr error
	}{
		{
			name:   "donor into empty thread goes to organiser",
			sender: donorB,
			want:   organiser.ID,
		},
		{
			name:    "donor ignores history",
			sender:  donorB,
			history: []models.Message{{SenderID: donorC.ID}, {SenderID: organiser.ID}},
			want:    organiser.ID,
		},
		{
			name:    "organiser replies to the donor who wrote",
			sender:  organiser,
			history: []models.Message{{SenderID: donorB.ID}},
			want:    donorB.ID,
		},
		{
			name:    "organiser skips own trailing messages",
			sender:  organiser,
			history: []models.Message{{SenderID: donorB.ID}, {SenderID: organiser.ID}, {SenderID: organiser.ID}},
			want:    donorB.ID,
		},
		{
			name:    "organiser replies to the most recent donor",
			sender:  organiser,
			history: []models.Message{{SenderID: donorB.ID}, {SenderID: donorC.ID}, {SenderID: organiser.ID}},
			want:    donorC.ID,
		},
		{
			name:    "organiser into empty thread",
			sender:  organiser,
			wantErr: ErrRecipientUnresolved,
		},
		{
			name:    "organiser into self-only thread",
			sender:  organiser,
			history: []models.Message{{SenderID: organiser.ID}},
			wantErr: ErrRecipientUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRecipient(tt.sender, disaster, tt.history)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected recipient %d, got %d", tt.want, got)
			}
		})
	}
}

func TestResolveRecipient_UnknownRole(t *testing.T) {
	_, err := ResolveRecipient(&models.User{ID: 9, Role: "volunteer"}, &models.Disaster{OrganiserID: 1}, nil)
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	if errors.Is(err, ErrRecipientUnresolved) {
		t.Error("unknown role must not be reported as an unresolved recipient")
	}
}
