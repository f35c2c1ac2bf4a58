package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/notify"
	"github.com/mr1hm/disaster-relief/internal/repository"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

type Store interface {
	repository.UserRepository
	repository.DisasterRepository
	repository.MessageRepository
}

type Service struct {
	store    Store
	hub      *Hub
	notifier notify.Notifier
}

func NewService(store Store, hub *Hub, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{store: store, hub: hub, notifier: notifier}
}

type Thread struct {
	Disaster *models.Disaster `json:"disaster"`
	Messages []models.Message `json:"messages"`
}

// openThread loads the disaster a thread belongs to. Organisers only take
// part in threads of their own disasters; anyone else's look missing.
func (s *Service) openThread(ctx context.Context, actor access.Actor, disasterID int64) (*models.Disaster, error) {
	switch actor.Role {
	case models.RoleOrganiser:
		return s.store.GetOwnedDisaster(ctx, disasterID, actor.ID)
	case models.RoleDonor:
		return s.store.GetDisaster(ctx, disasterID)
	default:
		return nil, access.ErrWrongRole
	}
}

// Thread returns the disaster and its messages oldest first.
func (s *Service) Thread(ctx context.Context, actor access.Actor, disasterID int64) (*Thread, error) {
	disaster, err := s.openThread(ctx, actor, disasterID)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.ThreadMessages(ctx, disaster.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading thread %d: %w", disaster.ID, err)
	}
	return &Thread{Disaster: disaster, Messages: messages}, nil
}

// Post writes content into the disaster's thread on behalf of actor. The
// recipient is resolved from the thread; when it cannot be, nothing is
// stored and ErrRecipientUnresolved is returned.
func (s *Service) Post(ctx context.Context, actor access.Actor, disasterID int64, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validation.Errors{"content": "This field is required."}
	}

	disaster, err := s.openThread(ctx, actor, disasterID)
	if err != nil {
		return nil, err
	}
	sender, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading sender %d: %w", actor.ID, err)
	}
	history, err := s.store.ThreadMessages(ctx, disaster.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading thread %d: %w", disaster.ID, err)
	}

	recipientID, err := ResolveRecipient(sender, disaster, history)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipientID,
		DisasterID:  disaster.ID,
		Content:     content,
	}
	if err := s.store.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	msg.SenderUsername = sender.Username
	msg.DisasterTitle = disaster.Title

	recipient, err := s.store.GetUser(ctx, recipientID)
	switch {
	case err == nil:
		msg.RecipientUsername = recipient.Username
		s.notifier.Notify(notify.Notification{
			To:      recipient.Email,
			Subject: fmt.Sprintf("New message about %s", disaster.Title),
			Body:    fmt.Sprintf("%s wrote:\n\n%s", sender.Username, content),
		})
	case errors.Is(err, repository.ErrNotFound):
	default:
		slog.WarnContext(ctx, "error loading message recipient", "recipient_id", recipientID, "error", err)
	}

	if s.hub != nil {
		s.hub.Publish(*msg)
	}

	slog.InfoContext(ctx, "message posted", "disaster_id", disaster.ID, "sender_id", sender.ID, "recipient_id", recipientID)
	return msg, nil
}

// Inbox lists messages addressed to actor, newest first.
func (s *Service) Inbox(ctx context.Context, actor access.Actor, role models.Role) ([]models.Message, error) {
	if err := access.Require(actor, role); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, repository.MessageFilter{RecipientID: &actor.ID})
}

// Subscribe opens a live feed of a thread the actor may read. The returned
// cancel func must be called when the caller stops reading.
func (s *Service) Subscribe(ctx context.Context, actor access.Actor, disasterID int64) (<-chan models.Message, func(), error) {
	disaster, err := s.openThread(ctx, actor, disasterID)
	if err != nil {
		return nil, nil, err
	}
	id, ch := s.hub.Subscribe(disaster.ID)
	return ch, func() { s.hub.Unsubscribe(id) }, nil
}
