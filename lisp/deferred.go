package lisp

import (
	"context"
	"sync"
	"time"
)

type deferredState uint8

const (
	deferredPending deferredState = iota
	deferredFulfilled
	deferredRejected
)

// Deferred is a placeholder for a value that is not available yet.  A
// Deferred is owned by a Loop and must only be settled or observed from the
// goroutine running that Loop.
type Deferred struct {
	loop    *Loop
	state   deferredState
	value   *LVal
	err     error
	waiters []func()
}

// Settled returns true if d has been resolved or rejected.
func (d *Deferred) Settled() bool {
	return d.state != deferredPending
}

// Result returns the value of d or the error d was rejected with.  Result
// returns false if d is still pending.
func (d *Deferred) Result() (*LVal, error, bool) {
	switch d.state {
	case deferredFulfilled:
		return d.value, nil, true
	case deferredRejected:
		return nil, d.err, true
	}
	return nil, nil, false
}

// Resolve fulfills d with v.  If v is itself deferred then d settles when v
// does.  Calls after d has settled have no effect.
func (d *Deferred) Resolve(v *LVal) {
	if d.Settled() {
		return
	}
	if v.Type == LDeferred {
		inner := v.Deferred
		inner.subscribe(func() {
			v, err, _ := inner.Result()
			if err != nil {
				d.Reject(err)
				return
			}
			d.Resolve(v)
		})
		return
	}
	d.state = deferredFulfilled
	d.value = v
	d.flush()
}

// Reject settles d with err.  Calls after d has settled have no effect.
func (d *Deferred) Reject(err error) {
	if d.Settled() {
		return
	}
	d.state = deferredRejected
	d.err = err
	d.flush()
}

// Then returns a Deferred that settles with the result of fn applied to the
// value of d.  If d is rejected fn is not called and the returned Deferred is
// rejected with the same error.
func (d *Deferred) Then(fn func(*LVal) (*LVal, error)) *Deferred {
	next := d.loop.NewDeferred()
	d.subscribe(func() {
		if d.state == deferredRejected {
			next.Reject(d.err)
			return
		}
		v, err := fn(d.value)
		if err != nil {
			next.Reject(err)
			return
		}
		next.Resolve(v)
	})
	return next
}

// subscribe schedules fn to run on the loop once d has settled.
func (d *Deferred) subscribe(fn func()) {
	if d.Settled() {
		d.loop.enqueue(fn)
		return
	}
	d.waiters = append(d.waiters, fn)
}

func (d *Deferred) flush() {
	for _, fn := range d.waiters {
		d.loop.enqueue(fn)
	}
	d.waiters = nil
}

// Loop runs deferred callbacks.  Lisp evaluation only happens on the
// goroutine calling Await.  Host operations started with Go or After run on
// other goroutines and post their results back to the loop.
type Loop struct {
	tasks []func()
	// pending counts host operations whose results have not been posted yet.
	pending int

	mu     sync.Mutex
	posted []func()
	wake   chan struct{}
}

// NewLoop returns an empty Loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// NewDeferred returns a pending Deferred owned by l.
func (l *Loop) NewDeferred() *Deferred {
	return &Deferred{loop: l}
}

// Resolved returns a Deferred already fulfilled with v.
func (l *Loop) Resolved(v *LVal) *Deferred {
	d := l.NewDeferred()
	d.Resolve(v)
	return d
}

// Go runs fn on a new goroutine and returns a Deferred for its result.  fn
// must not evaluate lisp code or touch lisp environments.
func (l *Loop) Go(fn func() (*LVal, error)) *Deferred {
	d := l.NewDeferred()
	l.pending++
	go func() {
		v, err := fn()
		l.post(func() {
			l.pending--
			if err != nil {
				d.Reject(err)
				return
			}
			d.Resolve(v)
		})
	}()
	return d
}

// After returns a Deferred that resolves to Undefined after duration dur.
func (l *Loop) After(dur time.Duration) *Deferred {
	d := l.NewDeferred()
	l.pending++
	time.AfterFunc(dur, func() {
		l.post(func() {
			l.pending--
			d.Resolve(Undefined())
		})
	})
	return d
}

// All returns a Deferred that resolves to the values of vals, in order, once
// every deferred value in vals has resolved.  The first rejection rejects
// the result.
func (l *Loop) All(vals []*LVal) *Deferred {
	d := l.NewDeferred()
	resolved := make([]*LVal, len(vals))
	copy(resolved, vals)
	remaining := 0
	for _, v := range vals {
		if v.Type == LDeferred {
			remaining++
		}
	}
	if remaining == 0 {
		d.Resolve(Native(resolved))
		return d
	}
	for i, v := range vals {
		if v.Type != LDeferred {
			continue
		}
		i, inner := i, v.Deferred
		inner.subscribe(func() {
			if d.Settled() {
				return
			}
			v, err, _ := inner.Result()
			if err != nil {
				d.Reject(err)
				return
			}
			resolved[i] = v
			remaining--
			if remaining == 0 {
				d.Resolve(Native(resolved))
			}
		})
	}
	return d
}

func (l *Loop) enqueue(fn func()) {
	l.tasks = append(l.tasks, fn)
}

// post schedules fn from any goroutine.
func (l *Loop) post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) takePosted() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	l.tasks = append(l.tasks, posted...)
}

// RunPending runs queued callbacks until none are ready.  RunPending does not
// wait for host operations.
func (l *Loop) RunPending() {
	l.takePosted()
	for len(l.tasks) > 0 {
		fn := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		fn()
		l.takePosted()
	}
}

// Await runs the loop until v settles and returns its result.  If v is not
// deferred it is returned immediately.  Await fails if v can never settle or
// if ctx is done first.  Cancelling ctx does not stop host operations that
// have already started.
func (l *Loop) Await(ctx context.Context, v *LVal) (*LVal, error) {
	if v.Type != LDeferred {
		return v, nil
	}
	d := v.Deferred
	for {
		l.RunPending()
		if v, err, ok := d.Result(); ok {
			return v, err
		}
		if l.pending == 0 {
			return nil, Errorf(ErrUnknown, "deferred value can never settle")
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
