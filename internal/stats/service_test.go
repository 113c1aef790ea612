package stats_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/stats"
)

func TestStats(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stats Service Suite")
}

type mockStatsRepository struct {
	statistics *stats.Statistics
	admin      *stats.AdminDashboard
	err        error
}

func (m *mockStatsRepository) AdminDashboard() (*stats.AdminDashboard, error) {
	return m.admin, m.err
}

func (m *mockStatsRepository) ResponsableDashboard(int64) (*stats.ResponsableDashboard, error) {
	return &stats.ResponsableDashboard{}, m.err
}

func (m *mockStatsRepository) WorkerDashboard(int64) (*stats.WorkerDashboard, error) {
	return &stats.WorkerDashboard{}, m.err
}

func (m *mockStatsRepository) Statistics() (*stats.Statistics, error) {
	return m.statistics, m.err
}

var _ = Describe("Stats Service", func() {
	var (
		repo    *mockStatsRepository
		service *stats.Service
	)

	BeforeEach(func() {
		repo = &mockStatsRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = stats.NewService(repo, logger)
	})

	Describe("Statistics", func() {
		It("returns the grouped rollup from the repository", func() {
			repo.statistics = &stats.Statistics{
				Users: []stats.UserGroup{
					{Role: "worker", Status: "active", Count: 12},
					{Role: "worker", Status: "pending", Count: 3},
					{Role: "responsable", Status: "active", Count: 2},
				},
				Tests:     stats.TestStatistics{Completed: 10, Passed: 7, Failed: 3, AverageScore: 68.5},
				Trainings: stats.TrainingStatistics{Enrollments: 20, Completed: 5, AverageProgress: 42.0},
				Complaints: []stats.StatusCount{
					{Status: "pending", Count: 4},
					{Status: "resolved", Count: 9},
				},
				Documents: []stats.StatusCount{
					{Status: "approved", Count: 15},
					{Status: "pending", Count: 6},
				},
			}

			st, err := service.Statistics()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Users).To(HaveLen(3))
			Expect(st.Tests.Passed + st.Tests.Failed).To(Equal(st.Tests.Completed))
			Expect(st.Trainings.AverageProgress).To(Equal(42.0))
			Expect(st.Complaints).To(ContainElement(stats.StatusCount{Status: "pending", Count: 4}))
			Expect(st.Documents).To(ContainElement(stats.StatusCount{Status: "approved", Count: 15}))
		})

		It("wraps repository failures as internal errors", func() {
			repo.err = errors.New("connection reset")

			_, err := service.Statistics()
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("AdminDashboard", func() {
		It("passes the dashboard through untouched", func() {
			repo.admin = &stats.AdminDashboard{TotalUsers: 17, PendingComplaints: 2}

			d, err := service.AdminDashboard()
			Expect(err).NotTo(HaveOccurred())
			Expect(d.TotalUsers).To(Equal(int64(17)))
			Expect(d.PendingComplaints).To(Equal(int64(2)))
		})
	})
})
