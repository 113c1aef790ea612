package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements the document.Repository interface using GORM
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(d *document.Document) error {
	return r.db.Create(d).Error
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	var d document.Document
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) ListByUser(userID int64) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.Where("user_id = ?", userID).Order("uploaded_at DESC").Find(&docs).Error
	return docs, err
}

const documentViewQuery = `
SELECT
	d.id          AS id,
	d.title       AS title,
	d.file_name   AS file_name,
	d.status      AS status,
	d.note        AS note,
	u.id          AS worker_id,
	u.first_name  AS first_name,
	u.last_name   AS last_name,
	u.email       AS email,
	d.uploaded_at AS uploaded_at,
	d.verified_at AS verified_at
FROM documents d
JOIN users u ON u.id = d.user_id`

func (r *DocumentRepository) ListAll() ([]document.DocumentView, error) {
	var views []document.DocumentView
	err := r.db.Raw(documentViewQuery + ` ORDER BY d.uploaded_at DESC`).Scan(&views).Error
	return views, err
}

func (r *DocumentRepository) ListPending() ([]document.DocumentView, error) {
	var views []document.DocumentView
	err := r.db.Raw(documentViewQuery+` WHERE d.status = ? ORDER BY d.uploaded_at ASC`, document.StatusPending).
		Scan(&views).Error
	return views, err
}

func (r *DocumentRepository) UpdateVerdict(d *document.Document) error {
	return r.db.Model(&document.Document{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"status":      d.Status,
			"note":        d.Note,
			"verified_by": d.VerifiedBy,
			"verified_at": d.VerifiedAt,
			"updated_at":  time.Now(),
		}).Error
}

func (r *DocumentRepository) Delete(id int64) error {
	return r.db.Delete(&document.Document{}, id).Error
}
