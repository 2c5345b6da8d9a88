package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"portfolio_api/internal/api/middleware"
	"portfolio_api/internal/app/service"
	"portfolio_api/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

type ContactHandler struct {
	contactService *service.ContactService
	rateLimit      int
	rateWindow     time.Duration
}

func NewContactHandler(cs *service.ContactService, rateLimit int, rateWindow time.Duration) *ContactHandler {
	return &ContactHandler{contactService: cs, rateLimit: rateLimit, rateWindow: rateWindow}
}

func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	// Public submission, rate limited per client IP.
	r.With(httprate.LimitByIP(h.rateLimit, h.rateWindow)).Post("/", h.submit)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Get("/", h.listMessages)
		adminRouter.Get("/unread/count", h.unreadCount)
		adminRouter.Put("/{messageID}/read", h.markRead)
		adminRouter.Delete("/{messageID}", h.deleteMessage)
	})
}

func (h *ContactHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"id":      msg.ID,
		"message": "Message sent successfully! We will get back to you soon.",
	})
}

func (h *ContactHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *ContactHandler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.MarkRead(r.Context(), chi.URLParam(r, "messageID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Message marked as read"})
}

func (h *ContactHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.Delete(r.Context(), chi.URLParam(r, "messageID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}

func (h *ContactHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.contactService.UnreadCount(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}
