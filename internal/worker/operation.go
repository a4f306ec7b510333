package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Operation is the result handle of a submitted task. It lets a caller tell
// "still running" apart from "failed" and from the output of an older
// operation, without blocking.
type Operation struct {
	ID        string
	Kind      string
	Submitted time.Time

	done chan struct{}
	err  error
}

func newOperation(kind string) *Operation {
	return &Operation{
		ID:        newID(),
		Kind:      kind,
		Submitted: time.Now(),
		done:      make(chan struct{}),
	}
}

// newID generates a UUID v7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// finish records err and releases waiters. It must be called exactly once.
func (o *Operation) finish(err error) {
	o.err = err
	close(o.done)
}

// Done returns a channel closed when the operation completes.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Poll reports whether the operation has completed and, if so, its error.
// It never blocks.
func (o *Operation) Poll() (done bool, err error) {
	select {
	case <-o.done:
		return true, o.err
	default:
		return false, nil
	}
}

// Err returns the operation's error, or nil while it is still running.
func (o *Operation) Err() error {
	_, err := o.Poll()
	return err
}

// Wait blocks until the operation completes or ctx is done.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Completed returns an operation that has already finished with err.
func Completed(kind string, err error) *Operation {
	op := newOperation(kind)
	op.finish(err)
	return op
}
