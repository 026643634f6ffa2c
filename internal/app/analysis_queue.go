// internal/app/analysis_queue.go
package app

import "sync"

// AnalysisQueue is an unbounded in-process FIFO of completion IDs awaiting
// an AI review. Producers enqueue and return immediately; the single
// consumer blocks on Dequeue while the queue is empty. Duplicate enqueues of
// the same completion are tolerated; the consumer re-checks the "not yet
// analyzed" condition before doing any work.
type AnalysisQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []int64
	closed bool
}

func NewAnalysisQueue() *AnalysisQueue {
	q := &AnalysisQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a completion ID. It never blocks.
func (q *AnalysisQueue) Enqueue(completionID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, completionID)
	q.cond.Signal()
}

// Dequeue removes and returns the oldest item, blocking while the queue is
// empty. The second return value is false once the queue has been closed and
// drained.
func (q *AnalysisQueue) Dequeue() (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return 0, false
	}
	id := q.items[0]
	q.items = q.items[1:]
	return id, true
}

// Close wakes the consumer so it can drain remaining items and stop.
func (q *AnalysisQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Len reports the number of queued items.
func (q *AnalysisQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
