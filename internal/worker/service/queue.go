package service

import (
	"context"
	"sync"

	decisiondomain "github.com/afsacademy/groupgate/internal/decision/domain"
	"github.com/afsacademy/groupgate/internal/worker/domain"
)

const queueDepth = 256

// Queue is the in-process submission source: one buffered channel per
// class, fed by whatever collects join requests (tests, an ingest
// endpoint, a scraper sidecar).
type Queue struct {
	mu    sync.Mutex
	chans map[string]chan decisiondomain.Submission
}

func NewQueue() *Queue {
	return &Queue{chans: map[string]chan decisiondomain.Submission{}}
}

func (q *Queue) channel(className string) chan decisiondomain.Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.chans[className]
	if !ok {
		ch = make(chan decisiondomain.Submission, queueDepth)
		q.chans[className] = ch
	}
	return ch
}

// Enqueue adds a submission to its class queue, blocking when full.
func (q *Queue) Enqueue(ctx context.Context, sub decisiondomain.Submission) error {
	select {
	case q.channel(sub.ClassName) <- sub:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Next(ctx context.Context, className string) *decisiondomain.Submission {
	select {
	case sub := <-q.channel(className):
		return &sub
	case <-ctx.Done():
		return nil
	}
}

var _ domain.Source = (*Queue)(nil)
