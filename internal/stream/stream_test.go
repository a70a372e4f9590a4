package stream

import (
	"testing"
	"time"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
		panic("unreachable")
	}
}

func TestVar_EmitsCurrentOnSubscribe(t *testing.T) {
	v := NewVar(7)
	ch, cancel := v.Subscribe()
	defer cancel()

	if got := recv(t, ch); got != 7 {
		t.Errorf("initial emission = %d, want 7", got)
	}
}

func TestVar_ReEmitsOnSet(t *testing.T) {
	v := NewVar("a")
	ch, cancel := v.Subscribe()
	defer cancel()
	recv(t, ch) // drain initial

	v.Set("b")
	if got := recv(t, ch); got != "b" {
		t.Errorf("emission after Set = %q, want \"b\"", got)
	}
}

func TestVar_ConflatesToLatest(t *testing.T) {
	v := NewVar(0)
	ch, cancel := v.Subscribe()
	defer cancel()
	recv(t, ch)

	// a slow subscriber misses intermediate values but always
	// converges on the newest one
	for i := 1; i <= 100; i++ {
		v.Set(i)
	}
	got := recv(t, ch)
	for got != 100 {
		got = recv(t, ch)
	}
}

func TestVar_IndependentSubscribers(t *testing.T) {
	v := NewVar("x")
	ch1, cancel1 := v.Subscribe()
	ch2, cancel2 := v.Subscribe()
	defer cancel2()
	recv(t, ch1)
	recv(t, ch2)

	// cancelling one subscription must not affect the other
	cancel1()
	cancel1() // safe to call twice

	v.Set("y")
	if got := recv(t, ch2); got != "y" {
		t.Errorf("surviving subscriber got %q, want \"y\"", got)
	}

	if _, ok := <-ch1; ok {
		t.Error("cancelled subscription channel still open")
	}
}

func TestVar_Get(t *testing.T) {
	v := NewVar(1)
	v.Set(2)
	if got := v.Get(); got != 2 {
		t.Errorf("Get = %d, want 2", got)
	}
}

func TestWatch_RunsQueryOnNotify(t *testing.T) {
	n := NewNotifier()
	calls := 0
	ch, cancel := Watch(n, func() int {
		calls++
		return calls
	})
	defer cancel()

	if got := recv(t, ch); got != 1 {
		t.Errorf("initial query result = %d, want 1", got)
	}

	n.Notify()
	if got := recv(t, ch); got != 2 {
		t.Errorf("query result after Notify = %d, want 2", got)
	}
}

func TestWatch_CancelClosesChannel(t *testing.T) {
	n := NewNotifier()
	ch, cancel := Watch(n, func() int { return 0 })
	recv(t, ch)

	cancel()
	cancel() // idempotent

	// channel closes once the watcher exits
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}
