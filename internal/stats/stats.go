package stats

// AdminDashboard is the platform-wide rollup for the admin home screen.
type AdminDashboard struct {
	TotalUsers        int64   `json:"total_users"`
	Workers           int64   `json:"workers"`
	Responsables      int64   `json:"responsables"`
	PendingAccounts   int64   `json:"pending_accounts"`
	OpenJobs          int64   `json:"open_jobs"`
	TotalApplications int64   `json:"total_applications"`
	PendingComplaints int64   `json:"pending_complaints"`
	TotalTests        int64   `json:"total_tests"`
	CompletedTests    int64   `json:"completed_tests"`
	PassRate          float64 `json:"pass_rate"`
	AverageScore      float64 `json:"average_score"`
}

// ResponsableDashboard is scoped to one responsable's own material.
type ResponsableDashboard struct {
	MyTests          int64   `json:"my_tests"`
	OpenAssignments  int64   `json:"open_assignments"`
	CompletedTests   int64   `json:"completed_tests"`
	PassRate         float64 `json:"pass_rate"`
	AverageScore     float64 `json:"average_score"`
	MyTrainings      int64   `json:"my_trainings"`
	ActiveLearners   int64   `json:"active_learners"`
	PendingDocuments int64   `json:"pending_documents"`
}

// UserGroup is one cell of the users-by-role-and-status breakdown.
type UserGroup struct {
	Role   string `json:"role"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatusCount is a per-status tally for complaints and documents.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TestStatistics struct {
	Completed    int64   `json:"completed"`
	Passed       int64   `json:"passed"`
	Failed       int64   `json:"failed"`
	AverageScore float64 `json:"average_score"`
}

type TrainingStatistics struct {
	Enrollments     int64   `json:"enrollments"`
	Completed       int64   `json:"completed"`
	AverageProgress float64 `json:"average_progress"`
}

// Statistics is the grouped platform rollup behind the admin statistics page.
type Statistics struct {
	Users      []UserGroup        `json:"users"`
	Tests      TestStatistics     `json:"tests"`
	Trainings  TrainingStatistics `json:"trainings"`
	Complaints []StatusCount      `json:"complaints"`
	Documents  []StatusCount      `json:"documents"`
}

// WorkerDashboard summarizes a worker's own journey.
type WorkerDashboard struct {
	DocumentsApproved  int64 `json:"documents_approved"`
	DocumentsPending   int64 `json:"documents_pending"`
	TestsCompleted     int64 `json:"tests_completed"`
	TestsPassed        int64 `json:"tests_passed"`
	TrainingsCompleted int64 `json:"trainings_completed"`
	ApplicationsFiled  int64 `json:"applications_filed"`
	UnreadMessages     int64 `json:"unread_messages"`
}
