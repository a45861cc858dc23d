package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/matzehuels/coauthornet/pkg/session"
)

// handleStream sends session updates as server-sent events. Frames are
// limited to the configured rate and coalesced: when frames arrive faster,
// only the newest one is sent. Hover and selection updates pass unthrottled.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rc := http.NewResponseController(w)

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(u session.Update) bool {
		data, err := json.Marshal(u)
		if err != nil {
			s.logger.Warn("encode update", "err", err)
			return true
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", u.Kind, data); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	latest := sess.Latest()
	if !send(session.Update{Kind: session.KindFrame, Frame: &latest}) {
		return
	}

	limiter := rate.NewLimiter(rate.Limit(s.cfg.StreamFPS), 1)
	limiter.Allow()
	var (
		pending *session.Update
		flush   <-chan time.Time
	)
	for {
		select {
		case <-r.Context().Done():
			return
		case u, ok := <-updates:
			if !ok {
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				_ = rc.Flush()
				return
			}
			if u.Kind != session.KindFrame {
				if !send(u) {
					return
				}
				continue
			}
			if flush == nil && limiter.Allow() {
				if !send(u) {
					return
				}
				continue
			}
			pending = &u
			if flush == nil {
				flush = time.After(limiter.Reserve().Delay())
			}
		case <-flush:
			flush = nil
			if pending != nil {
				if !send(*pending) {
					return
				}
				pending = nil
			}
		}
	}
}
