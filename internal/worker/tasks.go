package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskFetchPapers = "papers:fetch"
)

// fetchPayload is the papers:fetch task body.
type fetchPayload struct {
	Category   string `json:"category"`
	MaxResults int    `json:"max_results"`
}

// NewFetchTask builds a papers:fetch task for one category. Ingestion has
// no retry semantics, so a failed run waits for the next scheduled slot
// instead of being retried.
func NewFetchTask(category string, maxResults int) (*asynq.Task, error) {
	payload, err := json.Marshal(fetchPayload{
		Category:   category,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskFetchPapers,
		payload,
		asynq.MaxRetry(0),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(time.Hour), // prevent duplicate runs if the scheduler fires twice
	), nil
}
