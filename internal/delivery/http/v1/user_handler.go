package v1

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

type UserHandler struct {
	users *usecase.UserUsecase
}

func NewUserHandler(users *usecase.UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register upserts the caller's profile on sign-in.
// POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterUserReq
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	user, err := h.users.Register(r.Context(), auth.PrincipalFrom(r.Context()), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFrom(r.Context())
	user, err := h.users.Me(r.Context(), principal)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"role":    principal.Role,
		"isAdmin": principal.IsAdmin(),
	})
}

// GET /admin/users?page=1&limit=20
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, pagination, err := h.users.ListUsers(r.Context(), utils.ParseInt(q.Get("page"), 1), utils.ParseInt(q.Get("limit"), 20))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":       users,
		"pagination": pagination,
	})
}

// PATCH /admin/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.users.UpdateRole(r.Context(), id, req.Role); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"modifiedCount": 1})
}
