package app

import (
	"testing"
	"time"
)

func TestAnalysisQueueFIFOOrder(t *testing.T) {
	q := NewAnalysisQueue()
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	for _, want := range []int64{1, 2, 3} {
		got, ok := q.Dequeue()
		if !ok || got != want {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
}

func TestAnalysisQueueDequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewAnalysisQueue()

	got := make(chan int64, 1)
	go func() {
		id, ok := q.Dequeue()
		if ok {
			got <- id
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(42)

	select {
	case id := <-got:
		if id != 42 {
			t.Errorf("Dequeue() = %d, want 42", id)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Dequeue was not woken by Enqueue")
	}
}

func TestAnalysisQueueCloseDrainsThenStops(t *testing.T) {
	q := NewAnalysisQueue()
	q.Enqueue(7)
	q.Close()

	if id, ok := q.Dequeue(); !ok || id != 7 {
		t.Fatalf("queued item should survive Close, got (%d, %v)", id, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue after drain of a closed queue should report false")
	}
	// Enqueue after Close is a no-op.
	q.Enqueue(8)
	if q.Len() != 0 {
		t.Error("Enqueue on a closed queue should be ignored")
	}
}
