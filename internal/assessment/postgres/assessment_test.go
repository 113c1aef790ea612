package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/recruitment-management/internal/assessment"
)

func TestAssessmentRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AssessmentRepository Suite")
}

type SQLiteUser struct {
	ID        int64  `gorm:"primaryKey"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	Email     string `gorm:"uniqueIndex"`
	Role      string
	Status    string
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteAnswer struct {
	ID               int64 `gorm:"primaryKey"`
	AssignmentID     int64 `gorm:"column:assignment_id;uniqueIndex:idx_assignment_question"`
	QuestionID       int64 `gorm:"column:question_id;uniqueIndex:idx_assignment_question"`
	SelectedOptionID int64 `gorm:"column:selected_option_id"`
	IsCorrect        bool  `gorm:"column:is_correct"`
}

func (SQLiteAnswer) TableName() string { return "assignment_answers" }

var _ = Describe("AssessmentRepository", func() {
	var (
		db   *gorm.DB
		repo assessment.Repository
	)

	sampleTest := func(createdBy int64) *assessment.Test {
		return &assessment.Test{
			Title:        "Forklift certification",
			PassingScore: 70,
			CreatedBy:    createdBy,
			Questions: []assessment.Question{
				{
					Text:     "Max load?",
					Position: 1,
					Options: []assessment.Option{
						{Text: "1t", IsCorrect: true},
						{Text: "10t"},
					},
				},
				{
					Text:     "Check brakes when?",
					Position: 2,
					Options: []assessment.Option{
						{Text: "Never"},
						{Text: "Every shift", IsCorrect: true},
					},
				},
			},
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteUser{},
			&assessment.Test{},
			&assessment.Question{},
			&assessment.Option{},
			&assessment.Assignment{},
			&SQLiteAnswer{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewAssessmentRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CreateTest and GetTest", func() {
		It("should persist the full question tree", func() {
			t := sampleTest(1)
			Expect(repo.CreateTest(t)).To(Succeed())
			Expect(t.ID).To(BeNumerically(">", 0))

			loaded, err := repo.GetTest(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Questions).To(HaveLen(2))
			Expect(loaded.Questions[0].Position).To(Equal(1))
			Expect(loaded.Questions[0].Options).To(HaveLen(2))
		})

		It("should return the not found error for a missing test", func() {
			_, err := repo.GetTest(42)
			Expect(err).To(MatchError(assessment.ErrTestNotFound))
		})
	})

	Describe("ListTestsByCreator", func() {
		It("should only return the creator's tests", func() {
			Expect(repo.CreateTest(sampleTest(1))).To(Succeed())
			Expect(repo.CreateTest(sampleTest(2))).To(Succeed())

			tests, err := repo.ListTestsByCreator(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(tests).To(HaveLen(1))
			Expect(tests[0].CreatedBy).To(Equal(int64(1)))
		})
	})

	Describe("DeleteTest", func() {
		It("should remove the test with its questions and options", func() {
			t := sampleTest(1)
			Expect(repo.CreateTest(t)).To(Succeed())

			Expect(repo.DeleteTest(t.ID)).To(Succeed())

			_, err := repo.GetTest(t.ID)
			Expect(err).To(MatchError(assessment.ErrTestNotFound))

			var questionCount int64
			Expect(db.Model(&assessment.Question{}).Count(&questionCount).Error).To(Succeed())
			Expect(questionCount).To(BeZero())
		})
	})

	Describe("assignments", func() {
		var t *assessment.Test

		BeforeEach(func() {
			t = sampleTest(1)
			Expect(repo.CreateTest(t)).To(Succeed())
		})

		newAssignment := func(workerID int64) *assessment.Assignment {
			return &assessment.Assignment{
				UserID:     workerID,
				TestID:     t.ID,
				Status:     assessment.StatusAssigned,
				AssignedAt: time.Now(),
			}
		}

		It("should create and find an open assignment", func() {
			a := newAssignment(10)
			Expect(repo.CreateAssignment(a)).To(Succeed())

			open, err := repo.FindOpenAssignment(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(open).NotTo(BeNil())
			Expect(open.ID).To(Equal(a.ID))
		})

		It("should report no open assignment once completed", func() {
			a := newAssignment(10)
			Expect(repo.CreateAssignment(a)).To(Succeed())

			won, err := repo.CompleteAssignment(a.ID, assessment.Result{Score: 80, Passed: true}, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeTrue())

			open, err := repo.FindOpenAssignment(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(BeNil())
		})

		It("should only let one completion win", func() {
			a := newAssignment(10)
			Expect(repo.CreateAssignment(a)).To(Succeed())

			won, err := repo.CompleteAssignment(a.ID, assessment.Result{Score: 80, Passed: true}, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeTrue())

			won, err = repo.CompleteAssignment(a.ID, assessment.Result{Score: 0, Passed: false}, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeFalse())

			loaded, err := repo.GetAssignment(a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Score).To(Equal(80))
			Expect(loaded.Passed).To(BeTrue())
		})

		It("should transition assigned to started once", func() {
			a := newAssignment(10)
			Expect(repo.CreateAssignment(a)).To(Succeed())

			Expect(repo.MarkStarted(a.ID, time.Now())).To(Succeed())

			loaded, err := repo.GetAssignment(a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Status).To(Equal(assessment.StatusStarted))
			Expect(loaded.StartedAt).NotTo(BeNil())
		})
	})

	Describe("UpsertAnswer", func() {
		var a *assessment.Assignment

		BeforeEach(func() {
			t := sampleTest(1)
			Expect(repo.CreateTest(t)).To(Succeed())
			a = &assessment.Assignment{UserID: 10, TestID: t.ID, Status: assessment.StatusStarted, AssignedAt: time.Now()}
			Expect(repo.CreateAssignment(a)).To(Succeed())
		})

		It("should keep one row per question", func() {
			Expect(repo.UpsertAnswer(&assessment.Answer{AssignmentID: a.ID, QuestionID: 1, SelectedOptionID: 1, IsCorrect: false})).To(Succeed())
			Expect(repo.UpsertAnswer(&assessment.Answer{AssignmentID: a.ID, QuestionID: 1, SelectedOptionID: 2, IsCorrect: true})).To(Succeed())

			loaded, err := repo.GetAssignment(a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Answers).To(HaveLen(1))
			Expect(loaded.Answers[0].SelectedOptionID).To(Equal(int64(2)))
			Expect(loaded.Answers[0].IsCorrect).To(BeTrue())
		})
	})

	Describe("result listings", func() {
		BeforeEach(func() {
			Expect(db.Create(&SQLiteUser{ID: 10, FirstName: "Ada", LastName: "Doe", Email: "ada@example.com", Role: "worker", Status: "active"}).Error).To(Succeed())

			t := sampleTest(1)
			Expect(repo.CreateTest(t)).To(Succeed())

			a := &assessment.Assignment{UserID: 10, TestID: t.ID, Status: assessment.StatusAssigned, AssignedAt: time.Now()}
			Expect(repo.CreateAssignment(a)).To(Succeed())
			won, err := repo.CompleteAssignment(a.ID, assessment.Result{Score: 100, Passed: true}, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeTrue())
		})

		It("should join worker and test identity for the creator", func() {
			results, err := repo.ListResultsByCreator(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].FirstName).To(Equal("Ada"))
			Expect(results[0].TestTitle).To(Equal("Forklift certification"))
			Expect(results[0].Score).To(Equal(100))
			Expect(results[0].Passed).To(BeTrue())
		})

		It("should return nothing for a creator without completions", func() {
			results, err := repo.ListResultsByCreator(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("should scope worker history to the worker", func() {
			results, err := repo.ListResultsForWorker(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))

			results, err = repo.ListResultsForWorker(11)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})
})
