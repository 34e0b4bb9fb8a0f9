package task

import (
	"context"
	"testing"
	"time"
)

func TestSpawnDeliversResult(t *testing.T) {
	r := NewRunner[int](0)
	defer r.Close()

	_, live, err := r.Spawn(func(_ context.Context, send func(int)) int {
		send(10)
		return 20
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []int{10, 20} {
		select {
		case v := <-r.Results():
			if v != want {
				t.Fatalf("result = %d, want %d", v, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("result %d never arrived", want)
		}
	}
	waitFinished(t, live.Finished)
}

func TestAbortCancelsContext(t *testing.T) {
	r := NewRunner[string](0)
	defer r.Close()

	started := make(chan struct{})
	abort, live, err := r.Spawn(func(ctx context.Context, _ func(string)) string {
		close(started)
		<-ctx.Done()
		return "aborted"
	})
	if err != nil {
		t.Fatal(err)
	}

	<-started
	abort.Abort()

	select {
	case v := <-r.Results():
		if v != "aborted" {
			t.Fatalf("result = %q", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("aborted task never returned")
	}
	waitFinished(t, live.Finished)
}

func TestPanicMarksRunnerUnhealthy(t *testing.T) {
	r := NewRunner[int](0)
	defer r.Close()

	_, live, err := r.Spawn(func(context.Context, func(int)) int {
		panic("task exploded")
	})
	if err != nil {
		t.Fatal(err)
	}
	waitFinished(t, live.Finished)
	if r.Check() {
		t.Fatal("runner should report unhealthy after a panic")
	}
}

func TestCloseCancelsRunningTasks(t *testing.T) {
	r := NewRunner[int](0)
	started := make(chan struct{})
	_, live, err := r.Spawn(func(ctx context.Context, _ func(int)) int {
		close(started)
		<-ctx.Done()
		return -1
	})
	if err != nil {
		t.Fatal(err)
	}
	<-started
	r.Close() // must not hang
	waitFinished(t, live.Finished)

	if _, _, err := r.Spawn(func(context.Context, func(int)) int { return 0 }); err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func waitFinished(t *testing.T, finished func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !finished() {
		if time.Now().After(deadline) {
			t.Fatal("liveness never reported finished")
		}
		time.Sleep(time.Millisecond)
	}
}
