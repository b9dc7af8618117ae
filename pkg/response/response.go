package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenType is reported alongside every issued access token.
const TokenType = "Bearer"

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MessageBody carries a plain confirmation message.
type MessageBody struct {
	Message string `json:"message"`
}

// TokenBody is returned by register and login. UserName is only set by login.
type TokenBody struct {
	AccessToken string `json:"access_token"`
	UserName    string `json:"user_name,omitempty"`
	TokenType   string `json:"token_type"`
}

// Token writes a 200 with the issued access token.
func Token(c *gin.Context, accessToken, userName string) {
	c.JSON(http.StatusOK, TokenBody{AccessToken: accessToken, UserName: userName, TokenType: TokenType})
}

// Message writes status with a bare message body.
func Message(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, MessageBody{Message: message})
}

// Error aborts the request with status and an error body. details may be nil.
func Error(c *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, ErrorBody{Message: message, Errors: details})
}
