package postgres

import (
	"github.com/frahmantamala/recruitment-management/internal/stats"
	"gorm.io/gorm"
)

// StatsRepository implements the stats.Repository interface using GORM
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) stats.Repository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) AdminDashboard() (*stats.AdminDashboard, error) {
	var d stats.AdminDashboard
	err := r.db.Raw(`
SELECT
	(SELECT COUNT(*) FROM users)                                    AS total_users,
	(SELECT COUNT(*) FROM users WHERE role = 'worker')              AS workers,
	(SELECT COUNT(*) FROM users WHERE role = 'responsable')         AS responsables,
	(SELECT COUNT(*) FROM users WHERE status = 'pending')           AS pending_accounts,
	(SELECT COUNT(*) FROM jobs WHERE status = 'open')               AS open_jobs,
	(SELECT COUNT(*) FROM job_applications)                         AS total_applications,
	(SELECT COUNT(*) FROM complaints WHERE status = 'pending')      AS pending_complaints,
	(SELECT COUNT(*) FROM tests)                                    AS total_tests,
	(SELECT COUNT(*) FROM test_assignments WHERE status = 'completed') AS completed_tests,
	COALESCE((SELECT AVG(CASE WHEN passed THEN 100.0 ELSE 0.0 END)
		FROM test_assignments WHERE status = 'completed'), 0)       AS pass_rate,
	COALESCE((SELECT AVG(score * 1.0)
		FROM test_assignments WHERE status = 'completed'), 0)       AS average_score`).
		Scan(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Statistics builds the grouped rollup for the admin statistics page.
func (r *StatsRepository) Statistics() (*stats.Statistics, error) {
	var st stats.Statistics

	err := r.db.Raw(`
SELECT role, status, COUNT(*) AS count
FROM users
GROUP BY role, status
ORDER BY role, status`).Scan(&st.Users).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
SELECT
	COUNT(*)                                        AS completed,
	COUNT(CASE WHEN passed THEN 1 END)              AS passed,
	COUNT(CASE WHEN NOT passed THEN 1 END)          AS failed,
	COALESCE(AVG(score * 1.0), 0)                   AS average_score
FROM test_assignments
WHERE status = 'completed'`).Scan(&st.Tests).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
SELECT
	COUNT(*)                               AS enrollments,
	COUNT(CASE WHEN completed THEN 1 END)  AS completed,
	COALESCE(AVG(percent * 1.0), 0)        AS average_progress
FROM training_progress`).Scan(&st.Trainings).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
SELECT status, COUNT(*) AS count
FROM complaints
GROUP BY status
ORDER BY status`).Scan(&st.Complaints).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
SELECT status, COUNT(*) AS count
FROM documents
GROUP BY status
ORDER BY status`).Scan(&st.Documents).Error
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func (r *StatsRepository) ResponsableDashboard(responsableID int64) (*stats.ResponsableDashboard, error) {
	var d stats.ResponsableDashboard
	err := r.db.Raw(`
SELECT
	(SELECT COUNT(*) FROM tests WHERE created_by = @id)             AS my_tests,
	(SELECT COUNT(*) FROM test_assignments ta
		JOIN tests t ON t.id = ta.test_id
		WHERE t.created_by = @id AND ta.status <> 'completed')       AS open_assignments,
	(SELECT COUNT(*) FROM test_assignments ta
		JOIN tests t ON t.id = ta.test_id
		WHERE t.created_by = @id AND ta.status = 'completed')        AS completed_tests,
	COALESCE((SELECT AVG(CASE WHEN ta.passed THEN 100.0 ELSE 0.0 END)
		FROM test_assignments ta
		JOIN tests t ON t.id = ta.test_id
		WHERE t.created_by = @id AND ta.status = 'completed'), 0)    AS pass_rate,
	COALESCE((SELECT AVG(ta.score * 1.0)
		FROM test_assignments ta
		JOIN tests t ON t.id = ta.test_id
		WHERE t.created_by = @id AND ta.status = 'completed'), 0)    AS average_score,
	(SELECT COUNT(*) FROM trainings WHERE created_by = @id)         AS my_trainings,
	(SELECT COUNT(DISTINCT tp.user_id) FROM training_progress tp
		JOIN trainings tr ON tr.id = tp.training_id
		WHERE tr.created_by = @id)                                   AS active_learners,
	(SELECT COUNT(*) FROM documents WHERE status = 'pending')       AS pending_documents`,
		map[string]interface{}{"id": responsableID}).
		Scan(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *StatsRepository) WorkerDashboard(workerID int64) (*stats.WorkerDashboard, error) {
	var d stats.WorkerDashboard
	err := r.db.Raw(`
SELECT
	(SELECT COUNT(*) FROM documents WHERE user_id = @id AND status = 'approved') AS documents_approved,
	(SELECT COUNT(*) FROM documents WHERE user_id = @id AND status = 'pending')  AS documents_pending,
	(SELECT COUNT(*) FROM test_assignments WHERE user_id = @id AND status = 'completed') AS tests_completed,
	(SELECT COUNT(*) FROM test_assignments WHERE user_id = @id AND status = 'completed' AND passed) AS tests_passed,
	(SELECT COUNT(*) FROM training_progress WHERE user_id = @id AND completed)   AS trainings_completed,
	(SELECT COUNT(*) FROM job_applications WHERE user_id = @id)                  AS applications_filed,
	(SELECT COUNT(*) FROM messages WHERE receiver_id = @id AND read = false)     AS unread_messages`,
		map[string]interface{}{"id": workerID}).
		Scan(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}
