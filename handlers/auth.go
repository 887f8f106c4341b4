package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"profitdesk/database"
	"profitdesk/logger"
	"profitdesk/middleware"
	"profitdesk/models"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 5

type AuthHandler struct {
	store  *database.Store
	tokens *middleware.Tokens
}

func NewAuthHandler(store *database.Store, tokens *middleware.Tokens) *AuthHandler {
	return &AuthHandler{
		store:  store,
		tokens: tokens,
	}
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type meResponse struct {
	*models.User
	EmployeeID *uint `json:"employee_id"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "")
		return
	}

	email := normalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "Role must be admin or employee")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, r, fmt.Errorf("hash password: %w", err), "")
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := h.store.CreateUser(r.Context(), &user); err != nil {
		respondError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).WithComponent(logger.ComponentAuth).Info("User registered", logger.FieldUserID, user.ID, "role", user.Role)
	h.respondWithToken(w, r, &user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "")
		return
	}

	user, err := h.store.UserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		respondError(w, r, err, "")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	h.respondWithToken(w, r, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		respondError(w, r, fmt.Errorf("generate token: %w", err), "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokens.Expiration().Seconds()),
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	resp := meResponse{User: user}
	employee, err := h.store.EmployeeForUser(r.Context(), user.ID)
	switch {
	case err == nil:
		resp.EmployeeID = &employee.ID
	case !errors.Is(err, models.ErrNotFound):
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
