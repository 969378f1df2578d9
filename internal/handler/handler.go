package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dripsave/savings-service/internal/middleware"
	"github.com/dripsave/savings-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// username resolves the authenticated principal from the request context.
// The auth middleware rejects unauthenticated requests before handlers run,
// so a missing username here is a wiring error.
func (h *Handler) username(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := middleware.Username(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return username, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *credentialsRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Username == "" {
		fields["username"] = "This field is required"
	}
	if req.Password == "" {
		fields["password"] = "This field is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Register handles account registration. Returns 201 with an auth token on
// success and 400 for an already existing username or invalid input.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	token, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// Login handles authentication and returns a fresh auth token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
