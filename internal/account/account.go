// Package account registers users, signs them in and out, and maintains
// their profiles.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/repository"
	"github.com/mr1hm/disaster-relief/internal/storage"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const msgUsernameTaken = "A user with that username already exists."

type Store interface {
	repository.UserRepository
	repository.DisasterRepository
	repository.DonationRepository
}

type Service struct {
	store  Store
	tokens *Tokens
	blobs  storage.Store
	cost   int
}

func NewService(store Store, tokens *Tokens, blobs storage.Store) *Service {
	return &Service{store: store, tokens: tokens, blobs: blobs, cost: bcrypt.DefaultCost}
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
	Redirect  string       `json:"redirect"`
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      u,
		Redirect:  access.DashboardFor(u.Role),
	}, nil
}

// ChooseRole lists the roles a visitor can register as.
func (s *Service) ChooseRole() []models.Role {
	return models.Roles
}

type RegisterForm struct {
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" form:"phone" validate:"required,max=15"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Password1 string `json:"password1" form:"password1" validate:"required"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
	// Role is read from the body when the query string carries none.
	Role      string `json:"role" form:"role"`
}

func (f *RegisterForm) validate(role models.Role) validation.Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)

	errs := validation.Struct(f)
	if f.Username != "" {
		errs.Check("username", validation.Username(f.Username))
	}
	if f.Password1 != "" {
		errs.Check("password1", validation.OrganiserPassword(role == models.RoleOrganiser, f.Password1))
	}
	if f.Password1 != "" && f.Password2 != "" {
		errs.Check("password2", validation.PasswordsMatch(f.Password1, f.Password2))
		errs.Check("password2", validation.PasswordStrength(f.Password2))
	}
	return errs
}

// Register creates a user with role and signs them in. Nothing is stored
// when any field fails.
func (s *Service) Register(ctx context.Context, role string, form RegisterForm) (*Session, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	errs := form.validate(r)
	if _, bad := errs["username"]; !bad {
		taken, err := s.store.UsernameTaken(ctx, form.Username)
		if err != nil {
			return nil, fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			errs.Add("username", msgUsernameTaken)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	u := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		Phone:        form.Phone,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Role:         r,
		PasswordHash: string(hash),
	}
	if err := s.store.AddUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validation.Errors{"username": msgUsernameTaken}
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (s *Service) Login(ctx context.Context, form LoginForm) (*Session, error) {
	if err := validation.Struct(form).Err(); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(form.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(form.Password)); err != nil {
		slog.WarnContext(ctx, "failed login", "username", u.Username)
		return nil, ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return s.session(u)
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate turns a bearer token into the actor it speaks for. Tokens of
// deleted users are rejected.
func (s *Service) Authenticate(ctx context.Context, raw string) (access.Actor, *Claims, error) {
	claims, err := s.tokens.Parse(ctx, raw)
	if err != nil {
		return access.Actor{}, nil, err
	}
	u, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return access.Actor{}, nil, ErrInvalidToken
	}
	if err != nil {
		return access.Actor{}, nil, err
	}
	return access.ActorOf(u), claims, nil
}

// Profile is a user together with what they have posted or given.
type Profile struct {
	User      *models.User      `json:"user"`
	Disasters []models.Disaster `json:"disasters,omitempty"`
	Donations []models.Donation `json:"donations,omitempty"`
}

func (s *Service) Profile(ctx context.Context, actor access.Actor) (*Profile, error) {
	u, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: u}
	switch u.Role {
	case models.RoleOrganiser:
		p.Disasters, err = s.store.ListDisasters(ctx, repository.DisasterFilter{OrganiserID: &u.ID})
	case models.RoleDonor:
		p.Donations, err = s.store.ListDonations(ctx, repository.DonationFilter{DonorID: &u.ID})
	default:
		return nil, access.ErrWrongRole
	}
	if err != nil {
		return nil, fmt.Errorf("error loading profile of user %d: %w", u.ID, err)
	}
	return p, nil
}

type ProfileForm struct {
	FirstName string        `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string        `json:"last_name" form:"last_name" validate:"max=150"`
	Email     string        `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Phone     string        `json:"phone" form:"phone" validate:"max=15"`
	Picture   *storage.File `json:"-" form:"-"`
}

func (s *Service) UpdateProfile(ctx context.Context, actor access.Actor, form ProfileForm) (*models.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := validation.Struct(form).Err(); err != nil {
		return nil, err
	}

	u, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	u.FirstName = strings.TrimSpace(form.FirstName)
	u.LastName = strings.TrimSpace(form.LastName)
	u.Email = form.Email
	u.Phone = form.Phone

	var uploaded *storage.Object
	previous := u.ProfilePicture
	if form.Picture != nil && form.Picture.Size > 0 {
		obj, err := s.blobs.Put(ctx, storage.FolderProfilePictures, *form.Picture)
		if err != nil {
			return nil, fmt.Errorf("error storing profile picture: %w", err)
		}
		uploaded = &obj
		u.ProfilePicture = obj.URL
	}

	if err := s.store.UpdateProfile(ctx, u); err != nil {
		if uploaded != nil {
			if derr := s.blobs.Delete(ctx, uploaded.Key); derr != nil {
				slog.WarnContext(ctx, "error removing orphaned profile picture", "key", uploaded.Key, "error", derr)
			}
		}
		return nil, err
	}
	if uploaded != nil && previous != "" {
		if key, ok := s.blobs.KeyOf(previous); ok {
			if err := s.blobs.Delete(ctx, key); err != nil {
				slog.WarnContext(ctx, "error removing replaced profile picture", "key", key, "error", err)
			}
		}
	}
	slog.InfoContext(ctx, "profile updated", "user_id", u.ID)
	return u, nil
}
