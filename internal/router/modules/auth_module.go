package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-auth-api/internal/interface/http"
	"github.com/oksasatya/go-auth-api/internal/interface/middleware"
)

// AuthModule wires the credential endpoints.
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Resolver middleware.TokenResolver
	Logger   *logrus.Logger
}

func NewAuthModule(h *handlers.AuthHandler, resolver middleware.TokenResolver, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, Resolver: resolver, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Resolver, m.Logger))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
