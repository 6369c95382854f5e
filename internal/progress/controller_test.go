package progress

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/state"
	"github.com/lazyvibe/vidjob/internal/testsupport"
)

type recorder struct {
	mu      sync.Mutex
	actions []state.Action
	store   *state.Store
}

func (r *recorder) Dispatch(a state.Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
	r.store.Dispatch(a)
}

func (r *recorder) snapshot() []state.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]state.Action(nil), r.actions...)
}

func newRecorder() *recorder {
	return &recorder{store: state.New(state.Initial(model.ThemeLight), nil, nil)}
}

func newClient(t *testing.T, svc *testsupport.Service) *api.Client {
	t.Helper()
	c, err := api.New(api.Options{BaseURL: svc.URL})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestControllerForwardsFramesInOrder(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProgressFrames([]string{
		`{"progress": 40, "estimated_time_left": 55}`,
		`{"progress": 100, "estimated_time_left": 0}`,
	}, time.Millisecond, true)

	rec := newRecorder()
	c := NewController(newClient(t, svc), rec, nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	waitFor(t, "four actions", func() bool { return len(rec.snapshot()) == 4 })

	want := []state.Action{
		state.SetProgress{Percent: 40},
		state.SetEstimatedTimeLeft{Seconds: 55},
		state.SetProgress{Percent: 100},
		state.SetEstimatedTimeLeft{Seconds: 0},
	}
	got := rec.snapshot()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action #%d = %#v, want %#v", i, got[i], want[i])
		}
	}

	p := rec.store.State().Progress
	if p.Percent != 100 || p.EstimatedSecondsLeft != 0 {
		t.Fatalf("progress = %+v, want second frame", p)
	}
}

func TestControllerStartTwiceOpensOnce(t *testing.T) {
	svc := testsupport.NewService(t)
	c := NewController(newClient(t, svc), newRecorder(), nil)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if c.Status() != Open {
		t.Fatalf("status = %v", c.Status())
	}
	if n := svc.Count("/progress"); n != 1 {
		t.Fatalf("progress requests = %d, want 1", n)
	}

	c.Stop()
	c.Stop()
	if c.Status() != Closed {
		t.Fatalf("status = %v after stop", c.Status())
	}
}

func TestControllerStopWhenNeverStarted(t *testing.T) {
	c := NewController(nil, newRecorder(), nil)
	c.Stop()
	if c.Status() != Closed {
		t.Fatalf("status = %v", c.Status())
	}
}

func TestControllerRestartAfterStop(t *testing.T) {
	svc := testsupport.NewService(t)
	c := NewController(newClient(t, svc), newRecorder(), nil)

	for i := 0; i < 2; i++ {
		if err := c.Start(context.Background()); err != nil {
			t.Fatalf("Start #%d: %v", i, err)
		}
		c.Stop()
	}
	if n := svc.Count("/progress"); n != 2 {
		t.Fatalf("progress requests = %d, want 2", n)
	}
}

func TestControllerOpenFailureStaysClosed(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.Fail("/progress", testsupport.Failure{Status: 500, Message: "boom"})
	c := NewController(newClient(t, svc), newRecorder(), nil)

	err := c.Start(context.Background())
	var se *api.StreamError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *api.StreamError", err)
	}
	if c.Status() != Closed {
		t.Fatalf("status = %v, want closed", c.Status())
	}
	if c.Err() == nil {
		t.Fatal("Err() should report the failure")
	}
}

func TestControllerDropStallsWithoutReconnect(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProgressFrames([]string{`{"progress": 10, "estimated_time_left": 90}`}, time.Millisecond, false)

	rec := newRecorder()
	c := NewController(newClient(t, svc), rec, nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitFor(t, "drop to be recorded", func() bool { return c.Err() != nil })

	var se *api.StreamError
	if !errors.As(c.Err(), &se) {
		t.Fatalf("Err() = %v, want *api.StreamError", c.Err())
	}
	if c.Status() != Open {
		t.Fatalf("status = %v, want open (stalled)", c.Status())
	}
	if n := svc.Count("/progress"); n != 1 {
		t.Fatalf("progress requests = %d, reconnect attempted", n)
	}
	if p := rec.store.State().Progress; p.Percent != 10 {
		t.Fatalf("percent = %v", p.Percent)
	}

	c.Stop()
	if c.Status() != Closed {
		t.Fatalf("status = %v", c.Status())
	}
}

// hangingService accepts /progress but never answers until the client gives up.
func hangingService(t *testing.T) (*api.Client, <-chan struct{}) {
	t.Helper()
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		ts.Close()
	})
	client, err := api.New(api.Options{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return client, entered
}

// within fails the test if fn does not return before the deadline.
func within(t *testing.T, what string, fn func()) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		fn()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s blocked", what)
	}
}

func TestControllerStopCancelsPendingOpen(t *testing.T) {
	client, entered := hangingService(t)
	c := NewController(client, newRecorder(), nil)

	started := make(chan error, 1)
	go func() { started <- c.Start(context.Background()) }()

	select {
	case <-entered:
	case <-time.After(3 * time.Second):
		t.Fatal("progress request never reached the service")
	}

	var status Status
	within(t, "Status during open", func() { status = c.Status() })
	if status != Opening {
		t.Fatalf("status = %v, want opening", status)
	}
	within(t, "Start while opening", func() {
		if err := c.Start(context.Background()); err != nil {
			t.Errorf("concurrent Start: %v", err)
		}
	})
	within(t, "Stop during open", c.Stop)
	if c.Status() != Closed {
		t.Fatalf("status = %v after stop, want closed", c.Status())
	}

	select {
	case err := <-started:
		if err != nil {
			t.Fatalf("Start = %v, want nil after stop", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if c.Status() != Closed {
		t.Fatalf("abandoned open committed: status = %v", c.Status())
	}
	if c.Err() != nil {
		t.Fatalf("Err() = %v, want nil", c.Err())
	}
}

func TestControllerStartReplacesDroppedStream(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProgressFrames([]string{`{"progress": 10, "estimated_time_left": 90}`}, time.Millisecond, false)

	c := NewController(newClient(t, svc), newRecorder(), nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()
	waitFor(t, "drop to be recorded", func() bool { return c.Err() != nil })

	svc.SetProgressFrames([]string{`{"progress": 20, "estimated_time_left": 80}`}, time.Millisecond, true)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start after drop: %v", err)
	}
	if n := svc.Count("/progress"); n != 2 {
		t.Fatalf("progress requests = %d, want 2", n)
	}
	if c.Status() != Open || c.Err() != nil {
		t.Fatalf("status = %v err = %v, want live stream", c.Status(), c.Err())
	}
}

func TestReporterFollow(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProgressFrames([]string{
		`{"progress": 50, "estimated_time_left": 10}`,
		`{"progress": 100, "estimated_time_left": 0}`,
	}, time.Millisecond, true)

	stream, err := newClient(t, svc).OpenProgressStream(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer stream.Close()

	var buf bytes.Buffer
	last, err := Follow(stream, NewReporter(&buf, "job"), true)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if last.Percent != 100 {
		t.Fatalf("last = %+v", last)
	}
}
