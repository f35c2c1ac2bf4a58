package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/mr1hm/disaster-relief/internal/models"
)

const userColumns = `id, username, email, first_name, last_name, phone, role, profile_picture, password_hash, date_joined`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.ProfilePicture, &u.PasswordHash, &u.DateJoined)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *SQLiteDB) AddUser(ctx context.Context, u *models.User) error {
	u.DateJoined = stamp(u.DateJoined)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, first_name, last_name, phone, role, profile_picture, password_hash, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, strings.ToLower(u.Email), u.FirstName, u.LastName, u.Phone,
		u.Role, u.ProfilePicture, u.PasswordHash, u.DateJoined)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", u.Username, ErrDuplicate)
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteDB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *SQLiteDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *SQLiteDB) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile writes the editable profile fields. Role and username are
// never changed after registration.
func (s *SQLiteDB) UpdateProfile(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET first_name = ?, last_name = ?, email = ?, phone = ?, profile_picture = ?
		WHERE id = ?`,
		u.FirstName, u.LastName, strings.ToLower(u.Email), u.Phone, u.ProfilePicture, u.ID)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return expectRow(res)
}

func (s *SQLiteDB) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return expectRow(res)
}
