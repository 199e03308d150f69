package app

import (
	"context"
	"net/http"

	"iocc/internal/demo"
	"iocc/internal/report"
	"iocc/internal/web"
	"iocc/pkg/injector"
	"iocc/pkg/key"
)

// Greet resolves the App and runs it.
func (w *Wire) Greet(ctx context.Context) error {
	a, err := injector.Get(ctx, w.Root, key.Of[*demo.App]())
	if err != nil {
		return err
	}
	a.Run()
	return nil
}

// Report describes the bindings. If Config.ReportDir is set the report is
// also saved there and its path returned.
func (w *Wire) Report() (*report.Report, string, error) {
	r := report.New(w.Root)
	if w.Config.ReportDir == "" {
		return r, "", nil
	}
	path, err := report.Save(r, w.Config.ReportDir, "bindings.json")
	if err != nil {
		return nil, "", err
	}
	return r, path, nil
}

// Handler returns the HTTP routes of the app. The root must use a hierarchy
// with session and request scopes.
func (w *Wire) Handler() (http.Handler, error) {
	sessions, err := web.NewSessions(w.Root, w.Logger,
		web.WithIdleTimeout(w.Config.SessionIdle),
		web.WithMaxSessions(w.Config.MaxSessions),
	)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("GET /greet", sessions.Middleware(demo.GreetHandler()))
	mux.Handle("DELETE /session", sessions.EndHandler())
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	return mux, nil
}
