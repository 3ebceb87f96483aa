// Package web is the JSON HTTP surface. It authenticates requests and
// translates between HTTP and the services layer; all role gating happens
// inside services, with the actor passed explicitly.
package web

import (
	"context"
	"net/http"

	"coffeehouse/models"
	"coffeehouse/notify"
	"coffeehouse/services"
	"coffeehouse/storage"

	"github.com/gorilla/mux"
)

type Server struct {
	blob      storage.Blob
	notifier  *notify.Notifier
	jwtSecret []byte
}

func NewServer(blob storage.Blob, notifier *notify.Notifier, jwtSecret string) *Server {
	return &Server{blob: blob, notifier: notifier, jwtSecret: []byte(jwtSecret)}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	auth := r.NewRoute().Subrouter()
	auth.Use(s.requireAuth)
	auth.HandleFunc("/menu", s.handleMenu).Methods(http.MethodGet)
	auth.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	auth.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	auth.HandleFunc("/orders", s.handlePlaceOrder).Methods(http.MethodPost)
	auth.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	auth.HandleFunc("/orders/{id:[0-9]+}", s.handleGetOrder).Methods(http.MethodGet)
	auth.HandleFunc("/orders/{id:[0-9]+}/status", s.handleUpdateOrderStatus).Methods(http.MethodPatch)

	auth.HandleFunc("/admin/categories", s.handleAdminListCategories).Methods(http.MethodGet)
	auth.HandleFunc("/admin/categories", s.handleCreateCategory).Methods(http.MethodPost)
	auth.HandleFunc("/admin/categories/{id:[0-9]+}", s.handleUpdateCategory).Methods(http.MethodPut)
	auth.HandleFunc("/admin/categories/{id:[0-9]+}", s.handleDeleteCategory).Methods(http.MethodDelete)

	auth.HandleFunc("/admin/menu", s.handleAdminListMenu).Methods(http.MethodGet)
	auth.HandleFunc("/admin/menu", s.handleCreateMenuItem).Methods(http.MethodPost)
	auth.HandleFunc("/admin/menu/{id:[0-9]+}", s.handleUpdateMenuItem).Methods(http.MethodPut)
	auth.HandleFunc("/admin/menu/{id:[0-9]+}", s.handleDeleteMenuItem).Methods(http.MethodDelete)

	auth.HandleFunc("/admin/users", s.handleListUsers).Methods(http.MethodGet)
	auth.HandleFunc("/admin/roles", s.handleListRoles).Methods(http.MethodGet)
	auth.HandleFunc("/admin/users/{id:[0-9]+}/role", s.handleSetUserRole).Methods(http.MethodPut)

	return r
}

type ctxKey int

const actorKey ctxKey = 0

// requireAuth validates the session token and loads the actor from the
// store, so role changes take effect immediately rather than at token
// expiry.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := s.validateToken(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		actor, err := services.GetUser(r.Context(), claims.UserID)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

func actorFrom(r *http.Request) *models.User {
	actor, _ := r.Context().Value(actorKey).(*models.User)
	return actor
}
