package web

import (
	"container/list"
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"iocc/pkg/container"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "iocc_session"

var ErrNoSessionScope = errors.New("container hierarchy has no session and request scopes")

type ctxKey int

const (
	containerKey ctxKey = iota
	sessionKey
)

// Defaults for NewSessions.
const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Sessions keeps the session containers of a root container. A session
// not seen for the idle timeout is ended on the next Open, and once the
// store is full the least recently seen session makes room for a new one.
type Sessions struct {
	root   *container.Container
	logger *log.Logger
	idle   time.Duration
	max    int
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
	recent   *list.List // of *session, most recently seen first
}

type session struct {
	id   string
	c    *container.Container
	seen time.Time
	elem *list.Element
}

// Option configures a session store.
type Option func(*Sessions)

// WithIdleTimeout ends sessions not seen for d. Zero keeps them until they
// are evicted or ended.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Sessions) { s.idle = d }
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) Option {
	return func(s *Sessions) { s.max = n }
}

// WithClock sets the time source used for idle timeouts.
func WithClock(now func() time.Time) Option {
	return func(s *Sessions) { s.now = now }
}

// NewSessions returns an empty session store. The root's hierarchy needs a
// scope for sessions and a shorter one for requests.
func NewSessions(root *container.Container, logger *log.Logger, opts ...Option) (*Sessions, error) {
	h := root.Scope().Hierarchy()
	sessionScope, ok := h.Sub(root.Scope())
	if !ok {
		return nil, ErrNoSessionScope
	}
	if _, ok := h.Sub(sessionScope); !ok {
		return nil, ErrNoSessionScope
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Sessions{
		root:     root,
		logger:   logger,
		idle:     DefaultIdleTimeout,
		max:      DefaultMaxSessions,
		now:      time.Now,
		sessions: make(map[string]*session),
		recent:   list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open returns the container of session id. An unknown or malformed id
// starts a new session; the id actually used is returned.
func (s *Sessions) Open(id string) (*container.Container, string) {
	s.mu.Lock()
	now := s.now()
	dropped := s.expire(now)
	if ss, ok := s.sessions[id]; ok {
		ss.seen = now
		s.recent.MoveToFront(ss.elem)
		s.mu.Unlock()
		s.closeAll(dropped, "expired")
		return ss.c, id
	}

	var evicted []*session
	for s.max > 0 && len(s.sessions) >= s.max {
		evicted = append(evicted, s.remove(s.recent.Back().Value.(*session)))
	}
	c, _ := s.root.Sub()
	ss := &session{id: uuid.NewString(), c: c, seen: now}
	ss.elem = s.recent.PushFront(ss)
	s.sessions[ss.id] = ss
	s.mu.Unlock()

	s.closeAll(dropped, "expired")
	s.closeAll(evicted, "evicted")
	s.logger.Printf("session %s started", ss.id)
	return c, ss.id
}

// expire removes the sessions idle since before now-idle. s.mu is held.
func (s *Sessions) expire(now time.Time) []*session {
	if s.idle <= 0 {
		return nil
	}
	var out []*session
	for e := s.recent.Back(); e != nil; e = s.recent.Back() {
		ss := e.Value.(*session)
		if now.Sub(ss.seen) < s.idle {
			break
		}
		out = append(out, s.remove(ss))
	}
	return out
}

// remove drops ss from the store. s.mu is held.
func (s *Sessions) remove(ss *session) *session {
	delete(s.sessions, ss.id)
	s.recent.Remove(ss.elem)
	return ss
}

func (s *Sessions) closeAll(ss []*session, why string) {
	for _, x := range ss {
		_ = x.c.Close()
		s.logger.Printf("session %s %s", x.id, why)
	}
}

// End closes session id. It reports whether the session existed.
func (s *Sessions) End(id string) bool {
	s.mu.Lock()
	ss, ok := s.sessions[id]
	if ok {
		s.remove(ss)
	}
	s.mu.Unlock()
	if ok {
		s.closeAll([]*session{ss}, "ended")
	}
	return ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Middleware opens a request container for every request and makes it
// available to next through the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if ck, err := r.Cookie(SessionCookie); err == nil {
			id = ck.Value
		}
		sess, id := s.Open(id)
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		req, _ := sess.Sub()
		defer func() { _ = req.Close() }()

		ctx := context.WithValue(r.Context(), containerKey, req)
		ctx = context.WithValue(ctx, sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EndHandler ends the caller's session.
func (s *Sessions) EndHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(SessionCookie)
		if err != nil || !s.End(ck.Value) {
			http.Error(w, "no session", http.StatusNotFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})
}

// Container returns the request container opened by Middleware.
func Container(ctx context.Context) (*container.Container, bool) {
	c, ok := ctx.Value(containerKey).(*container.Container)
	return c, ok
}

// SessionID returns the session id of the request.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}
