// Package access decides whether an authenticated actor may use a route.
package access

import (
	"errors"
	"fmt"

	"github.com/mr1hm/disaster-relief/internal/models"
)

// ErrWrongRole is returned when the actor's role does not match the route.
// It is never shown to the caller; the transport redirects to the dashboard
// dispatcher instead.
var ErrWrongRole = errors.New("role not permitted for this route")

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	ID   int64
	Role models.Role
}

func ActorOf(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// Require permits the actor only when its role equals role exactly.
func Require(actor Actor, role models.Role) error {
	if !actor.Role.Valid() {
		return fmt.Errorf("actor %d has role %q: %w", actor.ID, actor.Role, ErrWrongRole)
	}
	if actor.Role != role {
		return ErrWrongRole
	}
	return nil
}

// Owns reports whether the actor is the organiser who posted d.
func Owns(actor Actor, d *models.Disaster) bool {
	return actor.Role == models.RoleOrganiser && d.OrganiserID == actor.ID
}

const (
	RouteDashboard          = "/api/dashboard"
	RouteOrganiserDashboard = "/api/organiser/dashboard"
	RouteDonorDashboard     = "/api/donor/dashboard"
	RouteChooseRole         = "/api/choose-role"
	RouteLogin              = "/api/login"
)

// DashboardFor names the dashboard route for role.
func DashboardFor(role models.Role) string {
	switch role {
	case models.RoleOrganiser:
		return RouteOrganiserDashboard
	case models.RoleDonor:
		return RouteDonorDashboard
	default:
		return RouteLogin
	}
}
