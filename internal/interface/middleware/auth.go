package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-api/internal/application"
	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/pkg/response"
)

// Gin context keys set by this package.
const (
	ContextAccountID = "accountID"
	ContextTokenID   = "tokenID"
	ContextRequestID = "request_id"
)

// UnauthenticatedMessage is returned for a missing, unknown or expired token.
const UnauthenticatedMessage = "Unauthenticated."

// TokenResolver maps a plaintext bearer value to a live token.
type TokenResolver interface {
	ResolveToken(ctx context.Context, plain string) (*entity.SessionToken, error)
}

// Auth requires an `Authorization: Bearer <token>` header naming a live
// token. On success the owning account id is stored under ContextAccountID.
func Auth(resolver TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		plain, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, UnauthenticatedMessage, nil)
			return
		}
		tok, err := resolver.ResolveToken(c.Request.Context(), plain)
		if err != nil {
			if errors.Is(err, application.ErrInvalidToken) {
				response.Error(c, http.StatusUnauthorized, UnauthenticatedMessage, nil)
				return
			}
			logger.WithError(err).WithField("request_id", c.GetString(ContextRequestID)).Error("token lookup failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		c.Set(ContextAccountID, tok.AccountID)
		c.Set(ContextTokenID, tok.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
