package transport

import (
	"net"
	"net/http"

	"mineart/internal/middleware"
	"mineart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VisitorCookieName is the long-lived identity cookie set for new visitors
const VisitorCookieName = "visitor-id"

// visitorCookieMaxAge is one year in seconds
const visitorCookieMaxAge = 31536000

// TrackResponse is the tracking endpoint's payload
type TrackResponse struct {
	VisitorID string `json:"visitor_id"`
	IsNew     bool   `json:"is_new"`
	service.VisitorTotals
}

// VisitorHandler handles the public traffic-tracking endpoint
type VisitorHandler struct {
	visitors service.VisitorService
	logger   *zap.Logger
}

// NewVisitorHandler creates a new VisitorHandler
func NewVisitorHandler(visitors service.VisitorService, logger *zap.Logger) *VisitorHandler {
	return &VisitorHandler{
		visitors: visitors,
		logger:   logger,
	}
}

// RegisterRoutes registers the tracking route behind the rate limiter
func (h *VisitorHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Get("/api/track", h.Track)
	})
}

// Track resolves the visitor identity, upserts the visit, and reports the
// traffic counters. New visitors get the identity cookie issued.
func (h *VisitorHandler) Track(w http.ResponseWriter, r *http.Request) {
	cookieID := ""
	if cookie, err := r.Cookie(VisitorCookieName); err == nil {
		cookieID = cookie.Value
	}

	ip := clientIP(r)

	visitorID, isNew, totals, err := h.visitors.Track(r.Context(), cookieID, ip, r.UserAgent())
	if err != nil {
		h.logger.Error("Failed to track visitor", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to track visitor")
		return
	}

	if isNew {
		http.SetCookie(w, &http.Cookie{
			Name:     VisitorCookieName,
			Value:    visitorID,
			Path:     "/",
			MaxAge:   visitorCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, TrackResponse{
		VisitorID:     visitorID,
		IsNew:         isNew,
		VisitorTotals: totals,
	})
}

// clientIP strips the port from RemoteAddr; chi's RealIP middleware has
// already substituted forwarded addresses upstream.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
