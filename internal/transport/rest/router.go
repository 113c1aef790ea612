package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment-management/internal/assessment"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/complaint"
	"github.com/frahmantamala/recruitment-management/internal/document"
	"github.com/frahmantamala/recruitment-management/internal/job"
	"github.com/frahmantamala/recruitment-management/internal/messaging"
	"github.com/frahmantamala/recruitment-management/internal/stats"
	"github.com/frahmantamala/recruitment-management/internal/training"
	"github.com/frahmantamala/recruitment-management/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-management/internal/transport/swagger"
	"github.com/frahmantamala/recruitment-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles every module handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Assessment *assessment.Handler
	Training   *training.Handler
	Document   *document.Handler
	Messaging  *messaging.Handler
	Job        *job.Handler
	Complaint  *complaint.Handler
	Stats      *stats.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		// Open jobs are browsable without an account
		r.Get("/jobs/open", h.Job.ListOpenJobs)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			pr.Route("/profile", func(ur chi.Router) {
				ur.Get("/", h.User.GetProfile)
				ur.Put("/", h.User.UpdateProfile)
			})

			pr.Route("/messages", func(mr chi.Router) {
				mr.Post("/", h.Messaging.Send)
				mr.Get("/conversations", h.Messaging.ListConversations)
				mr.Get("/unread", h.Messaging.UnreadCount)
				mr.Get("/{userID}", h.Messaging.GetThread)
			})

			// Worker routes
			pr.Group(func(wr chi.Router) {
				wr.Use(rbac.RequireWorker())

				wr.Route("/worker", func(w chi.Router) {
					w.Get("/dashboard", h.Stats.WorkerDashboard)
					w.Get("/assigned-test", h.Assessment.GetAssignedTest)
					w.Get("/test-history", h.Assessment.ListMyResults)
					w.Post("/assignments/{id}/start", h.Assessment.StartAssignment)
					w.Post("/assignments/{id}/answers", h.Assessment.SubmitAnswer)
					w.Post("/assignments/{id}/complete", h.Assessment.CompleteAssignment)

					w.Get("/trainings", h.Training.ListTrainings)
					w.Get("/trainings/progress", h.Training.ListMyProgress)
					w.Post("/trainings/{id}/enroll", h.Training.Enroll)
					w.Patch("/trainings/{id}/progress", h.Training.UpdateProgress)

					w.Post("/documents", h.Document.Upload)
					w.Get("/documents", h.Document.ListMine)
					w.Delete("/documents/{id}", h.Document.Delete)

					w.Post("/jobs/{id}/apply", h.Job.Apply)
					w.Get("/applications", h.Job.ListMyApplications)

					w.Post("/complaints", h.Complaint.CreateComplaint)
					w.Get("/complaints", h.Complaint.ListMyComplaints)
				})
			})

			// Documents are downloadable by their owner and any reviewer;
			// training material is readable by every authenticated user
			pr.Get("/documents/{id}/file", h.Document.Download)
			pr.Get("/trainings/{id}/file", h.Training.DownloadAttachment)

			// Responsable routes
			pr.Group(func(rr chi.Router) {
				rr.Use(rbac.RequireResponsable())

				rr.Route("/responsable", func(re chi.Router) {
					re.Get("/dashboard", h.Stats.ResponsableDashboard)
					re.Get("/candidates", h.User.ListCandidates)

					re.Post("/tests", h.Assessment.CreateTest)
					re.Get("/tests", h.Assessment.ListTests)
					re.Get("/tests/{id}", h.Assessment.GetTest)
					re.Delete("/tests/{id}", h.Assessment.DeleteTest)
					re.Post("/tests/assign", h.Assessment.AssignTest)
					re.Get("/test-results", h.Assessment.ListResults)

					re.Post("/trainings", h.Training.CreateTraining)
					re.Get("/trainings", h.Training.ListMyTrainings)
					re.Get("/trainings/{id}", h.Training.GetTraining)
					re.Delete("/trainings/{id}", h.Training.DeleteTraining)
					re.Post("/trainings/{id}/file", h.Training.UploadAttachment)
					re.Get("/trainings/{id}/progress", h.Training.ListTrainingProgress)

					re.Get("/documents", h.Document.ListAll)
					re.Get("/documents/pending", h.Document.ListPending)
					re.Patch("/documents/{id}/verify", h.Document.Verify)
				})
			})

			// Admin routes
			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())

				ar.Route("/admin", func(ad chi.Router) {
					ad.Get("/dashboard", h.Stats.AdminDashboard)
					ad.Get("/statistics", h.Stats.Statistics)

					ad.Get("/users", h.User.ListUsers)
					ad.Patch("/users/{id}/status", h.User.UpdateStatus)
					ad.Delete("/users/{id}", h.User.DeleteUser)

					ad.Post("/jobs", h.Job.CreateJob)
					ad.Get("/jobs", h.Job.ListJobs)
					ad.Get("/jobs/{id}", h.Job.GetJob)
					ad.Put("/jobs/{id}", h.Job.UpdateJob)
					ad.Delete("/jobs/{id}", h.Job.DeleteJob)
					ad.Get("/jobs/{id}/applications", h.Job.ListApplications)
					ad.Patch("/applications/{id}", h.Job.ReviewApplication)

					ad.Get("/complaints", h.Complaint.ListComplaints)
					ad.Patch("/complaints/{id}", h.Complaint.UpdateComplaint)

					ad.Get("/test-results", h.Assessment.ListAllResults)
				})
			})
		})
	})
}
