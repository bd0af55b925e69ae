// Package route is the control-plane HTTP surface: a small chi router
// exposing the routing runtime's get/set contract over JSON, grounded
// on the teacher's own hub/route/configs.go router-and-render idiom.
package route

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/trojan-gate/trojan-gate/adapter/outbound"
	"github.com/trojan-gate/trojan-gate/routing"
)

// ErrBadRequest mirrors the teacher's own error-body shape for a
// malformed request.
var ErrBadRequest = render.M{"message": "bad request"}

// ErrNotFound is rendered when a named group has no registered entry.
var ErrNotFound = render.M{"message": "not found"}

// NewHandler builds the full control-plane router for one routing
// runtime and handler registry.
func NewHandler(runtime *routing.Runtime, registry *outbound.Registry) http.Handler {
	r := chi.NewRouter()
	r.Mount("/proxies", proxyRouter(runtime, registry))
	return r
}
