package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lifequest/internal/gem"
	"lifequest/internal/model"
	"lifequest/internal/world"
)

type amountBody struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type gemBody struct {
	Gem   string `json:"gem"`
	Count int    `json:"count"`
}

type ticketBody struct {
	Cost int `json:"cost,omitempty"`
}

func (s *Server) mountAPI(r chi.Router, prefix string) {
	rr := &s.routes
	e := s.engine

	rr.handle(r, prefix, http.MethodGet, "/state", "Full world document", "", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, e.State())
	})
	rr.handle(r, prefix, http.MethodGet, "/summary", "Condensed status", "", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, e.Summary())
	})
	rr.handle(r, prefix, http.MethodGet, "/history", "History, newest first", "", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeFailure(w, model.Fail(model.CodeInvalidInput, "limit must be a non-negative integer"))
				return
			}
			limit = n
		}
		writeOK(w, e.History(limit))
	})
	rr.handle(r, prefix, http.MethodGet, "/stats", "Activity over the last N days", "", func(w http.ResponseWriter, r *http.Request) {
		days := 7
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeFailure(w, model.Fail(model.CodeInvalidInput, "days must be a positive integer"))
				return
			}
			days = n
		}
		writeOK(w, e.Stats(days))
	})

	rr.handle(r, prefix, http.MethodGet, "/tasks", "List tasks", "", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, e.Tasks())
	})
	rr.handle(r, prefix, http.MethodGet, "/templates", "Task templates", "", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, e.Catalog().Tasks)
	})
	rr.handle(r, prefix, http.MethodPost, "/tasks", "Register a task", `{"title":"Read 30 minutes","category":"study","minutes":30,"difficulty":2,"isRepeatable":true}`, func(w http.ResponseWriter, r *http.Request) {
		var in world.TaskInput
		if err := decode(r, &in); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.RegisterTask(r.Context(), in))
	})
	rr.handle(r, prefix, http.MethodPost, "/tasks/{id}/complete", "Complete a task", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.CompleteTask(r.Context(), chi.URLParam(r, "id")))
	})
	rr.handle(r, prefix, http.MethodDelete, "/tasks/{id}", "Remove a task", "", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := e.RemoveTask(r.Context(), id); err != nil {
			writeFailure(w, err)
			return
		}
		writeOK(w, map[string]string{"id": id})
	})

	rr.handle(r, prefix, http.MethodPost, "/coins/add", "Credit coins", `{"amount":50,"reason":"birthday"}`, func(w http.ResponseWriter, r *http.Request) {
		var b amountBody
		if err := decode(r, &b); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.AddCoins(r.Context(), b.Amount, b.Reason))
	})
	rr.handle(r, prefix, http.MethodPost, "/coins/spend", "Spend coins", `{"amount":20,"reason":"snack"}`, func(w http.ResponseWriter, r *http.Request) {
		var b amountBody
		if err := decode(r, &b); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.SpendCoins(r.Context(), b.Amount, b.Reason))
	})
	rr.handle(r, prefix, http.MethodPost, "/exp/grant", "Grant experience", `{"amount":100,"reason":"course finished"}`, func(w http.ResponseWriter, r *http.Request) {
		var b amountBody
		if err := decode(r, &b); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.GrantExp(r.Context(), b.Amount, b.Reason))
	})

	rr.handle(r, prefix, http.MethodPost, "/tickets/exchange", "Buy a game ticket", `{"cost":100}`, func(w http.ResponseWriter, r *http.Request) {
		var b ticketBody
		if err := decode(r, &b); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.ExchangeCoinsForGameTicket(r.Context(), b.Cost))
	})
	rr.handle(r, prefix, http.MethodPost, "/tickets/use", "Use a game ticket", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.UseGameTicket(r.Context()))
	})

	rr.handle(r, prefix, http.MethodPost, "/gems/add", "Credit gems", `{"gem":"quartz","count":1}`, func(w http.ResponseWriter, r *http.Request) {
		var b gemBody
		if err := decode(r, &b); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.AddGems(r.Context(), gem.Type(b.Gem), b.Count))
	})
	rr.handle(r, prefix, http.MethodPost, "/gems/{type}/fuse", "Fuse three gems", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.FuseGem(r.Context(), gem.Type(chi.URLParam(r, "type"))))
	})

	rr.handle(r, prefix, http.MethodPost, "/maps", "Add a treasure map", `{"name":"Summer Map","tier":"A"}`, func(w http.ResponseWriter, r *http.Request) {
		var in world.MapInput
		if err := decode(r, &in); err != nil {
			writeFailure(w, err)
			return
		}
		reply(w)(e.AddTreasureMap(r.Context(), in))
	})
	rr.handle(r, prefix, http.MethodPost, "/maps/{id}/complete", "Complete a treasure map", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.CompleteTreasureMap(r.Context(), chi.URLParam(r, "id")))
	})
	rr.handle(r, prefix, http.MethodPost, "/claims/{id}/use", "Redeem a voucher", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.UseClaim(r.Context(), chi.URLParam(r, "id")))
	})

	rr.handle(r, prefix, http.MethodPost, "/history/{id}/undo", "Undo one history entry", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.UndoHistoryItem(r.Context(), chi.URLParam(r, "id")))
	})
	rr.handle(r, prefix, http.MethodPost, "/history/undo-last", "Undo the newest undoable entry", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.UndoLastAction(r.Context()))
	})
	rr.handle(r, prefix, http.MethodPost, "/refresh", "Re-derive the day index", "", func(w http.ResponseWriter, r *http.Request) {
		reply(w)(e.RefreshTime(r.Context()))
	})
}

// reply adapts an engine call's (value, error) pair to a response.
func reply(w http.ResponseWriter) func(any, error) {
	return func(v any, err error) {
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeOK(w, v)
	}
}
