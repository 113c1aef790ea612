package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT id, password_hash, role, status FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.PasswordHash, &creds.Role, &creds.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetSessionUser(userID int64) (*auth.SessionUser, error) {
	var u auth.SessionUser
	query := `SELECT id, first_name, last_name, email, role, status FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) CreateUser(firstName, lastName, email, passwordHash, role, status string) (int64, error) {
	var id int64
	query := `INSERT INTO users (first_name, last_name, email, password_hash, role, status, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, now(), now()) RETURNING id`

	row := r.db.Raw(query, firstName, lastName, email, passwordHash, role, status).Row()
	if err := row.Scan(&id); err != nil {
		// two concurrent registrations can both pass the existence check
		if isUniqueViolation(err) {
			return 0, internal.NewConflictError("email is already in use", internal.ErrCodeEmailTaken)
		}
		return 0, err
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Raw(`SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
