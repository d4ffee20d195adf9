// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cswiz2003/voice-ai-assistant/internal/middleware"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/chat"
)

type ChatHandler struct {
	ChatService *chat.Service
	Pipeline    *TurnPipeline
}

func NewChatHandler(chatService *chat.Service, pipeline *TurnPipeline) *ChatHandler {
	return &ChatHandler{
		ChatService: chatService,
		Pipeline:    pipeline,
	}
}

// GetUserChats handles the request to retrieve all chat histories for a user.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.ChatService.GetUserChats(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// CreateChat handles the request to start a new chat.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	created, err := h.ChatService.CreateChat(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, "Could not create chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetChatMessages handles the request to retrieve all messages for a specific chat.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	messages, err := h.ChatService.GetChatMessages(r.Context(), userID, chatID)
	if err != nil {
		msg, status := userFacingError(err)
		writeError(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// RenameChat handles the request to change a chat title.
func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.RenameChat(r.Context(), userID, chatID, req.Title); err != nil {
		msg, status := userFacingError(err)
		writeError(w, msg, status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteChat removes a chat and all of its messages.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		msg, status := userFacingError(err)
		writeError(w, msg, status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChatMessage runs one typed conversation turn.
func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Message is required", http.StatusBadRequest)
		return
	}

	result, err := h.Pipeline.Run(r.Context(), userID, chatID, req.Message)
	if err != nil {
		msg, status := userFacingError(err)
		writeError(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func chatIDFromPath(r *http.Request) (uint, error) {
	vars := mux.Vars(r)
	chatID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(chatID), nil
}
