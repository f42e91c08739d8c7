// Package port binds the social-graph service to its HTTP/JSON surface.
// Handlers translate requests into app-layer calls and map results back;
// no domain logic lives here.
package port

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/averso/socialstore/internal/domain"
	"github.com/averso/socialstore/internal/errmap"
)

// socialService is a narrow, consumer-defined interface for the operations
// the handler requires. The *app.Service satisfies this.
type socialService interface {
	RegisterUser(ctx context.Context, name, pass string) (domain.UserID, error)
	TryLogin(ctx context.Context, name, pass string) (bool, error)
	ChangePassword(ctx context.Context, userID domain.UserID, newPass string) error

	CreateChat(ctx context.Context, name string, members []domain.UserID) (domain.ChatID, error)
	AddUserToChat(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error
	RemoveUserFromChat(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error
	SendMessage(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, body string) error
	GetMessages(ctx context.Context, chatID domain.ChatID, count int) ([]domain.Message, error)

	SendFriendRequest(ctx context.Context, senderID, receiverID domain.UserID) error
	AcceptFriendRequest(ctx context.Context, senderID, receiverID domain.UserID) error
	DenyFriendRequest(ctx context.Context, senderID, receiverID domain.UserID) error
	RemoveFriend(ctx context.Context, userA, userB domain.UserID) error

	ReadPath(ctx context.Context, path string) (any, error)
	WritePath(ctx context.Context, path string, value any) error
}

// Handler serves the social-graph HTTP API.
type Handler struct {
	svc    socialService
	logger *slog.Logger
}

// NewHandler creates a Handler backed by the given service.
func NewHandler(svc socialService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Mount registers all API routes on the given router.
func (h *Handler) Mount(r chi.Router) {
	// Generic accessor surface
	r.Get("/api/read", h.readPath)
	r.Post("/api/write", h.writePath)

	// Users
	r.Post("/api/users", h.registerUser)
	r.Post("/api/login", h.tryLogin)
	r.Put("/api/users/{userID}/password", h.changePassword)

	// Chats and messages
	r.Post("/api/chats", h.createChat)
	r.Post("/api/chats/{chatID}/members", h.addMember)
	r.Delete("/api/chats/{chatID}/members/{userID}", h.removeMember)
	r.Post("/api/chats/{chatID}/messages", h.sendMessage)
	r.Get("/api/chats/{chatID}/messages", h.getMessages)

	// Friend-request lifecycle
	r.Post("/api/friend-requests", h.sendFriendRequest)
	r.Post("/api/friend-requests/accept", h.acceptFriendRequest)
	r.Post("/api/friend-requests/deny", h.denyFriendRequest)
	r.Delete("/api/friends", h.removeFriend)
}

// --- Generic accessor surface ---

func (h *Handler) readPath(w http.ResponseWriter, r *http.Request) {
	value, err := h.svc.ReadPath(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"value": value})
}

type writeRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func (h *Handler) writePath(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.WritePath(r.Context(), req.Path, req.Value); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%q successfully written to %q", fmt.Sprint(req.Value), req.Path),
	})
}

// --- Users ---

type credentialsRequest struct {
	Name string `json:"name"`
	Pass string `json:"pass"`
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.svc.RegisterUser(r.Context(), req.Name, req.Pass)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"userId": id.String()})
}

func (h *Handler) tryLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.svc.TryLogin(r.Context(), req.Name, req.Pass)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": ok})
}

type changePasswordRequest struct {
	Pass string `json:"pass"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r, "userID")
	if !ok {
		return
	}
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.Pass); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- Chats and messages ---

type createChatRequest struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	members := make([]domain.UserID, 0, len(req.Users))
	for _, raw := range req.Users {
		id, err := domain.NewUserID(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		members = append(members, id)
	}

	id, err := h.svc.CreateChat(r.Context(), req.Name, members)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"chatId": id.String()})
}

type memberRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatIDParam(w, r, "chatID")
	if !ok {
		return
	}
	var req memberRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, err := domain.NewUserID(req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.AddUserToChat(r.Context(), chatID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatIDParam(w, r, "chatID")
	if !ok {
		return
	}
	userID, ok := h.userIDParam(w, r, "userID")
	if !ok {
		return
	}

	if err := h.svc.RemoveUserFromChat(r.Context(), chatID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type sendMessageRequest struct {
	UserID string `json:"userId"`
	Body   string `json:"body"`
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatIDParam(w, r, "chatID")
	if !ok {
		return
	}
	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	senderID, err := domain.NewUserID(req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.SendMessage(r.Context(), chatID, senderID, req.Body); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

// messageResponse is the wire shape of a single message.
type messageResponse struct {
	SenderID string    `json:"senderUserId"`
	SentAt   time.Time `json:"sentAt"`
	Body     string    `json:"body"`
}

func (h *Handler) getMessages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatIDParam(w, r, "chatID")
	if !ok {
		return
	}

	count := domain.DefaultMessageCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("count: not an integer: %w", domain.ErrInvalidInput))
			return
		}
		count = parsed
	}

	messages, err := h.svc.GetMessages(r.Context(), chatID, count)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse{
			SenderID: m.SenderID.String(),
			SentAt:   m.SentAt,
			Body:     m.Body,
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

// --- Friend-request lifecycle ---

type friendPairRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// friendPair parses the sender/receiver pair shared by all transitions.
func (h *Handler) friendPair(w http.ResponseWriter, r *http.Request) (from, to domain.UserID, ok bool) {
	var req friendPairRequest
	if !h.decode(w, r, &req) {
		return domain.UserID{}, domain.UserID{}, false
	}
	from, err := domain.NewUserID(req.From)
	if err != nil {
		h.writeError(w, r, err)
		return domain.UserID{}, domain.UserID{}, false
	}
	to, err = domain.NewUserID(req.To)
	if err != nil {
		h.writeError(w, r, err)
		return domain.UserID{}, domain.UserID{}, false
	}
	return from, to, true
}

func (h *Handler) sendFriendRequest(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.friendPair(w, r)
	if !ok {
		return
	}
	if err := h.svc.SendFriendRequest(r.Context(), from, to); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) acceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.friendPair(w, r)
	if !ok {
		return
	}
	if err := h.svc.AcceptFriendRequest(r.Context(), from, to); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) denyFriendRequest(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.friendPair(w, r)
	if !ok {
		return
	}
	if err := h.svc.DenyFriendRequest(r.Context(), from, to); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) removeFriend(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.friendPair(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveFriend(r.Context(), from, to); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- helpers ---

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, r, fmt.Errorf("request body: %w", domain.ErrInvalidInput))
		return false
	}
	return true
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request, name string) (domain.UserID, bool) {
	id, err := domain.NewUserID(chi.URLParam(r, name))
	if err != nil {
		h.writeError(w, r, err)
		return domain.UserID{}, false
	}
	return id, true
}

func (h *Handler) chatIDParam(w http.ResponseWriter, r *http.Request, name string) (domain.ChatID, bool) {
	id, err := domain.NewChatID(chi.URLParam(r, name))
	if err != nil {
		h.writeError(w, r, err)
		return domain.ChatID{}, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err.Error())
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := errmap.ToHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "error", err.Error(), "path", r.URL.Path)
	}
	h.writeJSON(w, httpErr.StatusCode, map[string]any{"error": httpErr})
}
