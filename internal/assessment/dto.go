package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

type CreateOptionDTO struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type CreateQuestionDTO struct {
	Text    string            `json:"text"`
	Options []CreateOptionDTO `json:"options"`
}

type CreateTestDTO struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	PassingScore int                 `json:"passing_score"`
	Questions    []CreateQuestionDTO `json:"questions"`
}

func (d *CreateTestDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	if d.PassingScore < 0 || d.PassingScore > 100 {
		return internal.NewValidationError("passing score must be between 0 and 100", internal.ErrCodeValidationFailed)
	}
	if len(d.Questions) == 0 {
		return internal.NewValidationError("test must have at least one question", internal.ErrCodeValidationFailed)
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return internal.NewValidationError(fmt.Sprintf("question %d: text is required", i+1), internal.ErrCodeMissingField)
		}
		if len(q.Options) < 2 {
			return internal.NewValidationError(fmt.Sprintf("question %d: at least two options required", i+1), internal.ErrCodeValidationFailed)
		}
		hasCorrect := false
		for _, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return internal.NewValidationError(fmt.Sprintf("question %d: option text is required", i+1), internal.ErrCodeMissingField)
			}
			if o.IsCorrect {
				hasCorrect = true
			}
		}
		if !hasCorrect {
			return internal.NewValidationError(fmt.Sprintf("question %d: at least one correct option required", i+1), internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

func (d *CreateTestDTO) ToTest(createdBy int64) *Test {
	t := &Test{
		Title:        strings.TrimSpace(d.Title),
		Description:  strings.TrimSpace(d.Description),
		PassingScore: d.PassingScore,
		CreatedBy:    createdBy,
	}
	for i, q := range d.Questions {
		question := Question{Text: strings.TrimSpace(q.Text), Position: i + 1}
		for _, o := range q.Options {
			question.Options = append(question.Options, Option{
				Text:      strings.TrimSpace(o.Text),
				IsCorrect: o.IsCorrect,
			})
		}
		t.Questions = append(t.Questions, question)
	}
	return t
}

type AssignTestDTO struct {
	WorkerID int64 `json:"worker_id"`
	TestID   int64 `json:"test_id"`
}

func (d *AssignTestDTO) Validate() error {
	if d.WorkerID <= 0 {
		return internal.NewValidationError("worker_id is required", internal.ErrCodeMissingField)
	}
	if d.TestID <= 0 {
		return internal.NewValidationError("test_id is required", internal.ErrCodeMissingField)
	}
	return nil
}

type SubmitAnswerDTO struct {
	QuestionID int64 `json:"question_id"`
	OptionID   int64 `json:"option_id"`
}

func (d *SubmitAnswerDTO) Validate() error {
	if d.QuestionID <= 0 {
		return internal.NewValidationError("question_id is required", internal.ErrCodeMissingField)
	}
	if d.OptionID <= 0 {
		return internal.NewValidationError("option_id is required", internal.ErrCodeMissingField)
	}
	return nil
}

// WorkerOptionView hides the answer key from candidates.
type WorkerOptionView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type WorkerQuestionView struct {
	ID       int64              `json:"id"`
	Text     string             `json:"text"`
	Position int                `json:"position"`
	Options  []WorkerOptionView `json:"options"`
}

type WorkerTestView struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	PassingScore int                  `json:"passing_score"`
	Questions    []WorkerQuestionView `json:"questions"`
}

func NewWorkerTestView(t *Test) *WorkerTestView {
	view := &WorkerTestView{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		PassingScore: t.PassingScore,
	}
	for _, q := range t.Questions {
		qv := WorkerQuestionView{ID: q.ID, Text: q.Text, Position: q.Position}
		for _, o := range q.Options {
			qv.Options = append(qv.Options, WorkerOptionView{ID: o.ID, Text: o.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// AssignedTestView is what a worker sees for their current open assignment.
type AssignedTestView struct {
	AssignmentID int64           `json:"assignment_id"`
	Status       string          `json:"status"`
	AssignedAt   time.Time       `json:"assigned_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	Test         *WorkerTestView `json:"test"`
	Answered     []int64         `json:"answered_question_ids"`
}

// ResultView flattens a completed assignment with worker and test identity
// for responsable and admin listings.
type ResultView struct {
	AssignmentID int64      `json:"assignment_id"`
	TestID       int64      `json:"test_id"`
	TestTitle    string     `json:"test_title"`
	PassingScore int        `json:"passing_score"`
	WorkerID     int64      `json:"worker_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Score        int        `json:"score"`
	Passed       bool       `json:"passed"`
	CompletedAt  *time.Time `json:"completed_at"`
}
