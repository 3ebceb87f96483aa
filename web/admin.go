package web

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"coffeehouse/models"
	"coffeehouse/services"
)

const maxUploadBytes = 2 << 20 // 2 MB, matching the upload form limit

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

func (s *Server) handleAdminListCategories(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		writeJSONError(w, http.StatusForbidden, "admin role required")
		return
	}
	categories, err := services.ListCategories(r.Context(), false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c, err := services.CreateCategory(r.Context(), actorFrom(r), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c, err := services.UpdateCategory(r.Context(), actorFrom(r), pathID(r), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteCategory(r.Context(), actorFrom(r), pathID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListMenu(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		writeJSONError(w, http.StatusForbidden, "admin role required")
		return
	}
	items, err := services.ListMenuItems(r.Context(), false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu_items": items})
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	in, err := s.menuItemInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	m, err := services.CreateMenuItem(r.Context(), actorFrom(r), in)
	if err != nil {
		s.discardUpload(in.Image)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	in, err := s.menuItemInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	m, err := services.UpdateMenuItem(r.Context(), actorFrom(r), pathID(r), in, s.blob)
	if err != nil {
		s.discardUpload(in.Image)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteMenuItem(r.Context(), actorFrom(r), pathID(r), s.blob); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// menuItemInput accepts either a JSON body (price in cents) or a multipart
// form (decimal price string plus an optional image file, which is stored
// before the domain call).
func (s *Server) menuItemInput(r *http.Request) (models.MenuItemInput, error) {
	var in models.MenuItemInput
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, &services.ValidationError{Fields: map[string]string{"body": "invalid JSON body"}}
		}
		return in, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return in, &services.ValidationError{Fields: map[string]string{"body": "invalid or oversized form"}}
	}
	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")

	price, err := models.ParseCents(r.FormValue("price"))
	if err != nil {
		return in, &services.ValidationError{Fields: map[string]string{"price": "price must be a decimal number"}}
	}
	in.Price = price

	in.CategoryID, _ = strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	if v := r.FormValue("is_available"); v != "" {
		avail := v == "true" || v == "1"
		in.IsAvailable = &avail
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return in, nil
	}
	if err != nil {
		return in, &services.ValidationError{Fields: map[string]string{"image": "invalid image upload"}}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		return in, &services.ValidationError{Fields: map[string]string{"image": "image must be jpeg, png, jpg, or gif"}}
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return in, err
	}
	if len(data) > maxUploadBytes {
		return in, &services.ValidationError{Fields: map[string]string{"image": "image must be at most 2 MB"}}
	}
	path, err := s.blob.Store(data, ext)
	if err != nil {
		return in, err
	}
	in.Image = path
	return in, nil
}

// discardUpload releases a blob stored for a request whose domain call
// failed, so rejected submissions do not leak files.
func (s *Server) discardUpload(path string) {
	if path == "" {
		return
	}
	if err := s.blob.Delete(path); err != nil {
		log.Printf("discard upload %s: %v", path, err)
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := services.ListUsers(r.Context(), actorFrom(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		writeJSONError(w, http.StatusForbidden, "admin role required")
		return
	}
	roles, err := services.ListRoles(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (s *Server) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RoleID int64 `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := services.SetUserRole(r.Context(), actorFrom(r), pathID(r), in.RoleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
