package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/i18n"
	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Handler wires the credential verification and token issuance endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	issuer     *TokenIssuer
	translator *i18n.Translator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, issuer *TokenIssuer, translator *i18n.Translator) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		issuer:     issuer,
		translator: translator,
	}
}

// MountRoutes registers the public auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Locale    string `json:"locale"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest,
			h.translator.Translate("COMMON.VALIDATION_ERROR_TITLE", ""),
			h.translator.Translate("COMMON.FIELD_MUST_BE_FILLED", "", "email, password"))
		return
	}

	principal, err := h.service.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized",
				h.translator.Translate("USERS.AUTH_ERROR", ""))
			return
		}
		httpx.RespondError(w, err)
		return
	}

	token, err := h.issuer.Issue(principal.ID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: loginUser{
			ID:        principal.ID,
			FirstName: principal.FirstName,
			LastName:  principal.LastName,
			Locale:    principal.Locale,
		},
	})
}
