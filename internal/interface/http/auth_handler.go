package handlers

import (
	"context"
	"errors"
	"expvar"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-api/internal/application"
	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/interface/middleware"
	"github.com/oksasatya/go-auth-api/pkg/response"
	"github.com/oksasatya/go-auth-api/pkg/validation"
)

// Counters published under /api/debug/vars.
var authStats = expvar.NewMap("auth")

// AuthService is what the handler needs from the application layer.
type AuthService interface {
	SignUp(ctx context.Context, in application.RegisterInput) (*entity.Account, *application.IssuedToken, error)
	Login(ctx context.Context, in application.LoginInput) (*application.LoginResult, error)
	Logout(ctx context.Context, accountID string) error
}

type AuthHandler struct {
	Svc    AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Register POST /api/register {name, email, password}
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterInput
	if !h.bind(c, &req) {
		return
	}
	_, tok, err := h.Svc.SignUp(c.Request.Context(), req)
	if err != nil {
		authStats.Add("register_failed", 1)
		h.fail(c, err)
		return
	}
	authStats.Add("register_ok", 1)
	response.Token(c, tok.PlainText, "")
}

// Login POST /api/login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		authStats.Add("login_failed", 1)
		h.fail(c, err)
		return
	}
	authStats.Add("login_ok", 1)
	response.Token(c, res.Token.PlainText, res.Account.Name)
}

// Logout POST /api/logout (bearer token required)
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	if accountID == "" {
		response.Error(c, http.StatusUnauthorized, middleware.UnauthenticatedMessage, nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), accountID); err != nil {
		h.fail(c, err)
		return
	}
	authStats.Add("logout", 1)
	response.Message(c, http.StatusOK, "Logged out successfully")
}

// bind decodes the JSON body into dst. An empty body decodes to the zero
// value so the service reports the missing fields.
func (h *AuthHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusUnprocessableEntity, "The given data was invalid.", verr.Details())
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "The given data was invalid.", map[string]string{"email": "has already been taken"})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, middleware.UnauthenticatedMessage, nil)
	default:
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.ContextRequestID),
		}).Error("request failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
