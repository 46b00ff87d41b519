package middleware

import (
	"errors"
	"strings"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/session"

	"github.com/gin-gonic/gin"
)

// CallerKey is the gin context key of the authenticated *session.Caller
const CallerKey = "caller"

// RequireAuth rejects requests without a valid bearer token. The caller is
// stored both in the gin context and in the request context.
func RequireAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeNoCurrentUser, apperr.MsgNoCurrentUser))
			return
		}

		caller, err := sessions.Parse(c.Request.Context(), token)
		switch {
		case errors.Is(err, session.ErrRevoked):
			abortWithError(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeTokenRevoked, "Session has been signed out"))
			return
		case errors.Is(err, session.ErrInvalidToken):
			abortWithError(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeInvalidToken, "Invalid or expired session"))
			return
		case err != nil:
			abortWithError(c, apperr.Provider(apperr.CodeAuthProvider, err))
			return
		}

		c.Set(CallerKey, caller)
		c.Request = c.Request.WithContext(session.WithCaller(c.Request.Context(), caller))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortWithError(c *gin.Context, e *apperr.Error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(e.Kind), model.NewCodedErrorResponse(e.Code, e.Message, ""))
}
