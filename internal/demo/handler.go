package demo

import (
	"encoding/json"
	"net/http"

	"iocc/internal/web"
	"iocc/pkg/injector"
	"iocc/pkg/key"
)

// GreetResponse is the body of GET /greet.
type GreetResponse struct {
	Session   string                 `json:"session"`
	Visit     int64                  `json:"visit"`
	Greetings map[GreeterKind]string `json:"greetings"`
}

// GreetHandler answers with the greetings of the App and the visit count of
// the caller's session. A lang query parameter selects one language; any
// BCP 47 tag with a supported base language is accepted. It
// must run behind web.Sessions.Middleware.
func GreetHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, ok := web.Container(ctx)
		if !ok {
			http.Error(w, "no request container", http.StatusInternalServerError)
			return
		}
		app, err := injector.Get(ctx, c, key.Of[*App]())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		visit, err := injector.Get(ctx, c, key.Of[*Visit]())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		greetings := app.Greetings()
		if lang := r.URL.Query().Get("lang"); lang != "" {
			kinds, err := ParseKinds([]string{lang})
			if err != nil || len(kinds) != 1 {
				http.Error(w, "unknown language "+lang, http.StatusNotFound)
				return
			}
			g, ok := greetings[kinds[0]]
			if !ok {
				http.Error(w, "unknown language "+lang, http.StatusNotFound)
				return
			}
			greetings = map[GreeterKind]string{kinds[0]: g}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GreetResponse{
			Session:   web.SessionID(ctx),
			Visit:     visit.Number,
			Greetings: greetings,
		})
	})
}
