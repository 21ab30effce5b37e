package jobs

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeContactDeliver delivers a contact form submission.
	TaskTypeContactDeliver = "contact:deliver"
	// TaskTypeCachePurge removes chart fragments rendered from older content.
	TaskTypeCachePurge = "casestudy:purge"
)

// ErrEmptyContact is returned when a contact payload has nothing to deliver.
var ErrEmptyContact = errors.New("jobs: empty contact message")

// ContactPayload is one contact form submission.
type ContactPayload struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
	RequestID   string    `json:"request_id,omitempty"`
}

// NewContactTask constructs an Asynq task.
func NewContactTask(payload ContactPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Message) == "" {
		return nil, ErrEmptyContact
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeContactDeliver, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// NewCachePurgeTask constructs the render cache purge task.
func NewCachePurgeTask() *asynq.Task {
	return asynq.NewTask(TaskTypeCachePurge, nil, asynq.MaxRetry(1))
}
