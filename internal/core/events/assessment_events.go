package events

import (
	"fmt"
	"time"
)

const (
	AssessmentCompletedEvent = "assessment.completed"
	DocumentUploadedEvent    = "document.uploaded"
)

// NewAssessmentCompleted is published when a worker completes a test
// assignment so interested parties (the authoring responsable) can be
// notified out of the request path.
func NewAssessmentCompleted(assignmentID, workerID, testID, creatorID int64, score int, passed bool) BaseEvent {
	return BaseEvent{
		ID:        fmt.Sprintf("assessment-%d-%d", assignmentID, time.Now().UnixNano()),
		Type:      AssessmentCompletedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"assignment_id": assignmentID,
			"worker_id":     workerID,
			"test_id":       testID,
			"creator_id":    creatorID,
			"score":         score,
			"passed":        passed,
		},
	}
}

func NewDocumentUploaded(documentID, workerID int64, title string) BaseEvent {
	return BaseEvent{
		ID:        fmt.Sprintf("document-%d-%d", documentID, time.Now().UnixNano()),
		Type:      DocumentUploadedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id": documentID,
			"worker_id":   workerID,
			"title":       title,
		},
	}
}
