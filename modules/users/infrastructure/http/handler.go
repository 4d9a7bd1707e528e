// Package http provides HTTP handlers for the users module.
// Handlers translate HTTP requests into commands/queries and format responses.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/application/commands"
	"github.com/rai/userdirectory/modules/users/application/queries"
	"github.com/rai/userdirectory/modules/users/domain"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP requests for the users module.
type Handler struct {
	createUser *commands.CreateUserHandler
	updateUser *commands.UpdateUserHandler
	deleteUser *commands.DeleteUserHandler
	getUser    *queries.GetUserHandler
	listUsers  *queries.ListUsersHandler
	logger     *slog.Logger
}

// NewHandler creates the users HTTP handler.
func NewHandler(
	createUser *commands.CreateUserHandler,
	updateUser *commands.UpdateUserHandler,
	deleteUser *commands.DeleteUserHandler,
	getUser *queries.GetUserHandler,
	listUsers *queries.ListUsersHandler,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		createUser: createUser,
		updateUser: updateUser,
		deleteUser: deleteUser,
		getUser:    getUser,
		listUsers:  listUsers,
		logger:     logger,
	}
}

// RegisterRoutes registers the users module routes to the given mux.
// Other methods on these paths get 405 from the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.handleListUsers)
	mux.HandleFunc("POST /users", h.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", h.handleGetUser)
	mux.HandleFunc("PUT /users/{id}", h.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", h.handleDeleteUser)
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Handlers

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.listUsers.Handle(r.Context(), queries.ListUsersQuery{})
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := decodeUser(w, r)
	if !ok {
		return
	}

	created, err := h.createUser.Handle(r.Context(), commands.CreateUserCommand{User: user})
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.getUser.Handle(r.Context(), queries.GetUserQuery{UserID: id})
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := decodeUser(w, r)
	if !ok {
		return
	}

	updated, err := h.updateUser.Handle(r.Context(), commands.UpdateUserCommand{UserID: id, User: user})
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deleteUser.Handle(r.Context(), commands.DeleteUserCommand{UserID: id}); err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

// Helper functions

func pathID(w http.ResponseWriter, r *http.Request) (types.UserID, bool) {
	id, err := types.ParseUserID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
		return types.UserID{}, false
	}
	return id, true
}

func decodeUser(w http.ResponseWriter, r *http.Request) (types.UserRecord, bool) {
	var user types.UserRecord
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return types.UserRecord{}, false
	}
	return user, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: types.ErrInvalidUser.Error(), Fields: verr.Fields})
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	case errors.Is(err, domain.ErrUserDeleted):
		writeError(w, http.StatusGone, domain.ErrUserDeleted.Error())
	case errors.Is(err, types.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
