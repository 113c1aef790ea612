package assessment

import (
	"math"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

const (
	StatusAssigned  = "assigned"
	StatusStarted   = "started"
	StatusCompleted = "completed"
)

// Test is a qualification test template authored by a responsable. Once a
// single assignment references it the template is frozen.
type Test struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	PassingScore int        `json:"passing_score" gorm:"column:passing_score;not null"`
	CreatedBy    int64      `json:"created_by" gorm:"column:created_by;not null"`
	Questions    []Question `json:"questions" gorm:"foreignKey:TestID"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Test) TableName() string {
	return "tests"
}

type Question struct {
	ID       int64    `json:"id" gorm:"primaryKey"`
	TestID   int64    `json:"test_id" gorm:"column:test_id;not null"`
	Text     string   `json:"text" gorm:"not null"`
	Position int      `json:"position" gorm:"not null"`
	Options  []Option `json:"options" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "test_questions"
}

type Option struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	QuestionID int64  `json:"question_id" gorm:"column:question_id;not null"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"column:is_correct;not null"`
}

func (Option) TableName() string {
	return "test_options"
}

// Assignment tracks one worker taking one test. Status only moves forward:
// assigned -> started -> completed, with assigned -> completed tolerated for
// clients that never call start.
type Assignment struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null"`
	TestID      int64      `json:"test_id" gorm:"column:test_id;not null"`
	Status      string     `json:"status" gorm:"not null;default:assigned"`
	Score       int        `json:"score" gorm:"not null;default:0"`
	Passed      bool       `json:"passed" gorm:"not null;default:false"`
	Answers     []Answer   `json:"answers" gorm:"foreignKey:AssignmentID"`
	AssignedAt  time.Time  `json:"assigned_at" gorm:"column:assigned_at;default:now()"`
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"column:started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Assignment) TableName() string {
	return "test_assignments"
}

func (a *Assignment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

func (a *Assignment) IsOpen() bool {
	return a.Status == StatusAssigned || a.Status == StatusStarted
}

// Answer stores the worker's latest pick for one question. The unique
// (assignment_id, question_id) constraint makes overwrite-by-question
// structural rather than search-and-replace.
type Answer struct {
	ID               int64 `json:"id" gorm:"primaryKey"`
	AssignmentID     int64 `json:"assignment_id" gorm:"column:assignment_id;not null"`
	QuestionID       int64 `json:"question_id" gorm:"column:question_id;not null"`
	SelectedOptionID int64 `json:"selected_option_id" gorm:"column:selected_option_id;not null"`
	IsCorrect        bool  `json:"is_correct" gorm:"column:is_correct;not null"`
}

func (Answer) TableName() string {
	return "assignment_answers"
}

// Result is the outcome of completing an assignment.
type Result struct {
	Score          int  `json:"score"`
	Passed         bool `json:"passed"`
	CorrectAnswers int  `json:"correct_answers"`
	TotalQuestions int  `json:"total_questions"`
}

func (t *Test) findQuestion(questionID int64) *Question {
	for i := range t.Questions {
		if t.Questions[i].ID == questionID {
			return &t.Questions[i]
		}
	}
	return nil
}

func (q *Question) findOption(optionID int64) *Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// ComputeResult scores an answer set against the test. Answers whose question
// or option no longer matches are skipped; the denominator is always the
// test's question count, so unanswered questions count as incorrect.
func ComputeResult(t *Test, answers []Answer, passingScore int) Result {
	correct := 0
	for _, ans := range answers {
		q := t.findQuestion(ans.QuestionID)
		if q == nil {
			continue
		}
		opt := q.findOption(ans.SelectedOptionID)
		if opt == nil {
			continue
		}
		if opt.IsCorrect {
			correct++
		}
	}

	total := len(t.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return Result{
		Score:          score,
		Passed:         score >= passingScore,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}
}

var (
	ErrTestNotFound        = internal.NewNotFoundError("test not found", internal.ErrCodeTestNotFound)
	ErrAssignmentNotFound  = internal.NewNotFoundError("assignment not found", internal.ErrCodeAssignmentNotFound)
	ErrQuestionNotFound    = internal.NewNotFoundError("question not found", internal.ErrCodeQuestionNotFound)
	ErrOptionNotFound      = internal.NewNotFoundError("option not found", internal.ErrCodeOptionNotFound)
	ErrAssignmentOpen      = internal.NewConflictError("worker already has an open assignment", internal.ErrCodeAssignmentOpen)
	ErrAssignmentCompleted = internal.NewConflictError("assignment is already completed", internal.ErrCodeAssignmentCompleted)
	ErrTestHasAssignments  = internal.NewConflictError("test already has assignments and cannot be changed", internal.ErrCodeTestHasAssignments)
)
