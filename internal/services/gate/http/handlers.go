// Package http provides http transport for the gate
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	perr "cargogate/internal/platform/errors"
	phttp "cargogate/internal/platform/net/http"
	"cargogate/internal/services/gate/domain"
	svc "cargogate/internal/services/gate/service"
)

// Register mounts the gate routes
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Route("/messages", func(r phttp.Router) {
		r.Post("/check", phttp.JSONHandler[domain.CheckInput](h.check))
		r.Post("/analyze", phttp.JSONHandler[domain.AnalyzeInput](h.analyze))
	})
	r.Route("/blocklist", func(r phttp.Router) {
		r.Get("/", phttp.JSONHandlerNoBody(h.blocklist))
		r.Delete("/{senderID}", phttp.JSONHandlerNoBody(h.unblock))
	})
	r.Get("/verdicts/recent", phttp.JSONHandlerNoBody(h.recent))
}

type handlers struct{ svc svc.Service }

func (h *handlers) check(r *stdhttp.Request, in domain.CheckInput) (any, error) {
	return h.svc.Check(r.Context(), in)
}

func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.svc.Analyze(r.Context(), in)
}

func (h *handlers) blocklist(r *stdhttp.Request) (any, error) {
	return h.svc.Blocklist(r.Context())
}

func (h *handlers) unblock(r *stdhttp.Request) (any, error) {
	senderID := chi.URLParam(r, "senderID")
	if senderID == "" {
		return nil, perr.InvalidArgf("sender id required")
	}
	if err := h.svc.Unblock(r.Context(), senderID); err != nil {
		return nil, err
	}
	return map[string]string{"sender_id": senderID}, nil
}

func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	q := domain.RecentQuery{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, perr.InvalidArgf("limit must be a non-negative integer")
		}
		q.Limit = n
	}
	return h.svc.RecentVerdicts(r.Context(), q)
}
