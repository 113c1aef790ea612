package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByRole(role string) ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("role = ?", role).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateProfile(u *user.User) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"email":      u.Email,
			"updated_at": time.Now(),
		}).Error
}

func (r *UserRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// DeleteCascade removes a user together with every dependent record in a
// single transaction so a partial failure never leaves orphans behind.
func (r *UserRepository) DeleteCascade(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM assignment_answers WHERE assignment_id IN (SELECT id FROM test_assignments WHERE user_id = ?)`, id).Error; err != nil {
			return err
		}
		for _, stmt := range []string{
			`DELETE FROM test_assignments WHERE user_id = ?`,
			`DELETE FROM training_progress WHERE user_id = ?`,
			`DELETE FROM documents WHERE user_id = ?`,
			`DELETE FROM complaints WHERE user_id = ?`,
			`DELETE FROM job_applications WHERE user_id = ?`,
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec(`DELETE FROM messages WHERE sender_id = ? OR receiver_id = ?`, id, id).Error; err != nil {
			return err
		}
		return tx.Delete(&user.User{}, id).Error
	})
}
