package demo

import (
	"context"
	"sync/atomic"
	"time"

	"iocc/pkg/injector"
	"iocc/pkg/key"
)

// Session is shared by the requests of one web session.
type Session struct {
	Started time.Time
	visits  atomic.Int64
}

func NewSession() *Session {
	return &Session{Started: time.Now().UTC()}
}

func (s *Session) Visits() int64 { return s.visits.Load() }

// Visit is built once per request.
type Visit struct {
	Session *Session
	Number  int64
}

func (v *Visit) Construct(ctx context.Context, inj injector.Injector) error {
	s, err := injector.Get(ctx, inj, key.Of[*Session]())
	if err != nil {
		return err
	}
	v.Session = s
	v.Number = s.visits.Add(1)
	return nil
}
