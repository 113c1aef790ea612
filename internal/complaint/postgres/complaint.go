package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/complaint"
	"gorm.io/gorm"
)

// ComplaintRepository implements the complaint.Repository interface using GORM
type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) complaint.Repository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(c *complaint.Complaint) error {
	return r.db.Create(c).Error
}

func (r *ComplaintRepository) GetByID(id int64) (*complaint.Complaint, error) {
	var c complaint.Complaint
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, complaint.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepository) ListByUser(userID int64) ([]*complaint.Complaint, error) {
	var complaints []*complaint.Complaint
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

func (r *ComplaintRepository) ListAll() ([]complaint.ComplaintView, error) {
	var views []complaint.ComplaintView
	err := r.db.Raw(`
SELECT
	c.id          AS id,
	c.subject     AS subject,
	c.content     AS content,
	c.status      AS status,
	c.response    AS response,
	u.id          AS worker_id,
	u.first_name  AS first_name,
	u.last_name   AS last_name,
	u.email       AS email,
	c.created_at  AS created_at,
	c.resolved_at AS resolved_at
FROM complaints c
JOIN users u ON u.id = c.user_id
ORDER BY c.created_at DESC`).Scan(&views).Error
	return views, err
}

func (r *ComplaintRepository) Update(c *complaint.Complaint) error {
	return r.db.Model(&complaint.Complaint{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"status":      c.Status,
			"response":    c.Response,
			"resolved_by": c.ResolvedBy,
			"resolved_at": c.ResolvedAt,
			"updated_at":  time.Now(),
		}).Error
}
