package event

import "testing"

func TestBus_PostAndReceive(t *testing.T) {
	b := NewBus(4)
	b.NotifyNewData()
	b.NotifyNewData()

	evt, ok := b.TryNext()
	if !ok {
		t.Fatal("expected an event")
	}
	if evt.Seq != 1 {
		t.Errorf("first seq = %d, want 1", evt.Seq)
	}
	evt, _ = b.TryNext()
	if evt.Seq != 2 {
		t.Errorf("second seq = %d, want 2", evt.Seq)
	}
	if _, ok := b.TryNext(); ok {
		t.Error("expected empty bus")
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	b := NewBus(2)
	for i := 0; i < 5; i++ {
		b.NotifyNewData()
	}
	if b.Dropped() != 3 {
		t.Errorf("dropped = %d, want 3", b.Dropped())
	}
	// Posting never blocks; the two buffered events are still delivered.
	for i := 0; i < 2; i++ {
		if _, ok := b.TryNext(); !ok {
			t.Fatalf("expected buffered event %d", i)
		}
	}
}
