package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// RouteDoc describes one mounted endpoint for GET /api/routes.
type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	return slices.Clone(rr.routes)
}

// handle mounts h on r and records it. prefix is the mount point of r, used
// only for the documented pattern.
func (rr *RouteRegistry) handle(r chi.Router, prefix, method, pattern, summary, exampleBody string, h http.HandlerFunc) {
	rr.Add(RouteDoc{Method: method, Pattern: prefix + pattern, Summary: summary, ExampleBody: exampleBody})
	r.Method(method, pattern, h)
}
