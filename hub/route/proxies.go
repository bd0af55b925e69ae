package route

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/trojan-gate/trojan-gate/adapter/outbound"
	"github.com/trojan-gate/trojan-gate/routing"
)

func proxyRouter(runtime *routing.Runtime, registry *outbound.Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/", getGroups(runtime))
	r.Route("/{name}", func(r chi.Router) {
		r.Use(groupCtx(runtime))
		r.Get("/", getGroup)
		r.Put("/", putGroup(registry))
	})
	return r
}

type groupSchema struct {
	Name string   `json:"name"`
	Now  string   `json:"now"`
	All  []string `json:"all,omitempty"`
}

// getGroups implements "GET /proxies": every registered group and its
// current selection.
func getGroups(runtime *routing.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups := runtime.Groups()
		out := make([]groupSchema, 0, len(groups))
		for _, g := range groups {
			out = append(out, groupSchema{Name: g.Name(), Now: g.Get(), All: g.All()})
		}
		render.JSON(w, r, render.M{"proxies": out})
	}
}

type groupCtxKey struct{}

// groupCtx resolves {name} against the routing runtime once per request
// and fails the whole chain with 404 if the group was never registered,
// per spec's "must treat group absence as a user-visible error".
func groupCtx(runtime *routing.Runtime) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			group, ok := runtime.GetGroup(name)
			if !ok {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, ErrNotFound)
				return
			}
			ctx := contextWithGroup(r.Context(), group)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getGroup implements "GET /proxies/{group}".
func getGroup(w http.ResponseWriter, r *http.Request) {
	group := groupFromContext(r.Context())
	render.JSON(w, r, groupSchema{Name: group.Name(), Now: group.Get(), All: group.All()})
}

type putGroupSchema struct {
	Name string `json:"name"`
}

// putGroup implements "PUT /proxies/{group}": body names the outbound
// to switch to, which must resolve in the handler registry.
func putGroup(registry *outbound.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := &putGroupSchema{}
		if err := render.DecodeJSON(r.Body, body); err != nil || body.Name == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrBadRequest)
			return
		}

		if _, ok := registry.Get(body.Name); !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrBadRequest)
			return
		}

		group := groupFromContext(r.Context())
		group.Set(body.Name)
		render.NoContent(w, r)
	}
}
