package access

import (
	"errors"
	"testing"

	"github.com/mr1hm/disaster-relief/internal/models"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		role    models.Role
		wantErr bool
	}{
		{"organiser on organiser route", Actor{ID: 1, Role: models.RoleOrganiser}, models.RoleOrganiser, false},
		{"donor on donor route", Actor{ID: 2, Role: models.RoleDonor}, models.RoleDonor, false},
		{"donor on organiser route", Actor{ID: 2, Role: models.RoleDonor}, models.RoleOrganiser, true},
		{"organiser on donor route", Actor{ID: 1, Role: models.RoleOrganiser}, models.RoleDonor, true},
		{"unknown role", Actor{ID: 3, Role: "admin"}, "admin", true},
		{"empty role", Actor{ID: 4}, models.RoleDonor, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.actor, tt.role)
			if tt.wantErr && !errors.Is(err, ErrWrongRole) {
				t.Errorf("expected ErrWrongRole, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestOwns(t *testing.T) {
	d := &models.Disaster{ID: 10, OrganiserID: 1}

	if !Owns(Actor{ID: 1, Role: models.RoleOrganiser}, d) {
		t.Error("expected owner to own disaster")
	}
	if Owns(Actor{ID: 2, Role: models.RoleOrganiser}, d) {
		t.Error("expected other organiser not to own disaster")
	}
	if Owns(Actor{ID: 1, Role: models.RoleDonor}, d) {
		t.Error("a donor never owns a disaster")
	}
}

func TestDashboardFor(t *testing.T) {
	if got := DashboardFor(models.RoleOrganiser); got != RouteOrganiserDashboard {
		t.Errorf("expected %s, got %s", RouteOrganiserDashboard, got)
	}
	if got := DashboardFor(models.RoleDonor); got != RouteDonorDashboard {
		t.Errorf("expected %s, got %s", RouteDonorDashboard, got)
	}
	if got := DashboardFor("ghost"); got != RouteLogin {
		t.Errorf("expected %s, got %s", RouteLogin, got)
	}
}
