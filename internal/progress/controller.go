// Package progress keeps one live progress subscription per view and feeds
// its frames into the job store.
package progress

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/state"
)

// Source opens the server push channel.
type Source interface {
	OpenProgressStream(ctx context.Context) (*api.ProgressStream, error)
}

// Dispatcher receives store transitions.
type Dispatcher interface {
	Dispatch(action state.Action)
}

// Status is the controller state.
type Status int

const (
	Closed Status = iota
	Open
	Opening
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Opening:
		return "opening"
	}
	return "closed"
}

// errServerClosed is recorded when the service ends the stream.
var errServerClosed = errors.New("closed by server")

// Controller owns at most one progress stream.
type Controller struct {
	source Source
	store  Dispatcher
	logger *logging.Logger

	// mu is never held across network I/O.
	mu     sync.Mutex
	status Status
	gen    uint64
	cancel context.CancelFunc
	stream *api.ProgressStream
	done   chan struct{}
	err    error
}

// NewController creates a closed controller.
func NewController(source Source, store Dispatcher, logger *logging.Logger) *Controller {
	return &Controller{
		source: source,
		store:  store,
		logger: logging.OrNop(logger).Component("progress"),
	}
}

// Start opens the stream. It does nothing while a stream is opening or live;
// a stream the server dropped is replaced. On failure the controller is
// closed and the error is a *api.StreamError. If Stop runs before the open
// completes, the new stream is discarded and Start returns nil.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	var stale func()
	if c.status == Open && c.err != nil {
		stale = c.detach()
	}
	if c.status != Closed {
		c.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	c.status = Opening
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	if stale != nil {
		stale()
		c.logger.Debug().Msg("replacing dropped progress stream")
	}

	stream, err := c.source.OpenProgressStream(ctx)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		cancel()
		if stream != nil {
			stream.Close()
		}
		c.logger.Debug().Msg("progress open abandoned")
		return nil
	}
	if err != nil {
		var se *api.StreamError
		if !errors.As(err, &se) {
			err = &api.StreamError{Err: err}
		}
		c.status = Closed
		c.cancel = nil
		c.err = err
		c.mu.Unlock()
		cancel()
		c.logger.Warn().Err(err).Msg("progress stream unavailable")
		return err
	}

	c.status = Open
	c.stream = stream
	c.done = make(chan struct{})
	c.err = nil
	go c.read(ctx, gen, stream, c.done)
	c.mu.Unlock()

	c.logger.Debug().Msg("progress stream started")
	return nil
}

// read forwards frames in arrival order until the stream ends.
func (c *Controller) read(ctx context.Context, gen uint64, stream *api.ProgressStream, done chan struct{}) {
	defer close(done)

	for {
		ev, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				err = &api.StreamError{Err: errServerClosed}
			}
			// No reconnect: the controller stays open but stalls until the
			// next Start or Stop.
			c.mu.Lock()
			if c.gen == gen {
				c.err = err
			}
			c.mu.Unlock()
			c.logger.Warn().Err(err).Msg("progress stream dropped")
			return
		}
		c.store.Dispatch(state.SetProgress{Percent: ev.Percent})
		c.store.Dispatch(state.SetEstimatedTimeLeft{Seconds: ev.EstimatedSecondsLeft})
	}
}

// detach marks the controller closed and returns the teardown for whatever
// it held. Callers hold mu and run the teardown after releasing it.
func (c *Controller) detach() func() {
	cancel, stream, done := c.cancel, c.stream, c.done
	c.status = Closed
	c.gen++
	c.cancel = nil
	c.stream = nil
	c.done = nil
	return func() {
		if cancel != nil {
			cancel()
		}
		if stream != nil {
			stream.Close()
		}
		if done != nil {
			<-done
		}
	}
}

// Stop closes the stream and waits for the reader to exit. A pending open is
// cancelled. It is safe to call when already closed.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.status == Closed {
		c.mu.Unlock()
		return
	}
	teardown := c.detach()
	c.mu.Unlock()

	teardown()
	c.logger.Debug().Msg("progress stream stopped")
}

// Status returns the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the last open failure or drop, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
