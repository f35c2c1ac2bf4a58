// Package messaging runs per-disaster message threads between donors and the
// disaster's organiser.
package messaging

import (
	"errors"
	"fmt"

	"github.com/mr1hm/disaster-relief/internal/models"
)

// ErrRecipientUnresolved is returned when an organiser posts into a thread
// nobody else has written in yet.
var ErrRecipientUnresolved = errors.New("recipient unresolved")

// ResolveRecipient picks who a new message from sender in the disaster's
// thread is addressed to. history must be in ascending timestamp order.
//
// A donor always writes to the disaster's organiser. An organiser replies to
// whoever most recently wrote in the thread other than themselves. Threads
// are not split per donor: with several donors the reply goes to the latest
// one.
func ResolveRecipient(sender *models.User, disaster *models.Disaster, history []models.Message) (int64, error) {
	switch sender.Role {
	case models.RoleDonor:
		return disaster.OrganiserID, nil
	case models.RoleOrganiser:
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].SenderID != sender.ID {
				return history[i].SenderID, nil
			}
		}
		return 0, ErrRecipientUnresolved
	default:
		return 0, fmt.Errorf("sender %d has unknown role %q", sender.ID, sender.Role)
	}
}
