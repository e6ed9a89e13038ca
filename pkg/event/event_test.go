package event

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	var q Queue
	if _, ok := q.Check(); ok {
		t.Fatal("empty queue returned an event")
	}
	q.Send(Event{Kind: KindClick, NodeID: 1, X: 1})
	q.Send(Event{Kind: KindClick, NodeID: 2, X: 2})

	for _, want := range []int64{1, 2} {
		ev, ok := q.Check()
		if !ok || ev.NodeID != want {
			t.Errorf("Check = %+v, %v; want node %d", ev, ok, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after draining", q.Len())
	}
}

func TestQueueConcurrentSend(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				q.Send(Event{Kind: KindClick})
			}
		}()
	}
	wg.Wait()
	if q.Len() != 100 {
		t.Errorf("Len = %d, want 100", q.Len())
	}
}

func TestKindString(t *testing.T) {
	if KindClick.String() != "click" {
		t.Errorf("KindClick = %q", KindClick.String())
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("unknown kind = %q", Kind(9).String())
	}
}
