package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"coffeehouse/models"
	"coffeehouse/services"

	"github.com/gorilla/mux"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := services.Register(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := services.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	token, err := s.generateToken(u.ID, u.RoleName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(tokenTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListMenuItems(r.Context(), true)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu_items": items})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := services.ListCategories(r.Context(), true)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	orders, err := services.RecentOrders(r.Context(), actorFrom(r), 5)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recent_orders": orders})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in models.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	actor := actorFrom(r)
	o, err := services.PlaceOrder(r.Context(), actor, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	o.UserName = actor.Name
	s.notifier.OrderPlaced(r.Context(), o)
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := services.ListOrders(r.Context(), actorFrom(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := services.GetOrder(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	o, from, err := services.UpdateOrderStatus(r.Context(), actorFrom(r), pathID(r), in.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.notifier.StatusChanged(r.Context(), o, from)
	writeJSON(w, http.StatusOK, o)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
