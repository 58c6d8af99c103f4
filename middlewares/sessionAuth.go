package middlewares

import (
	"CareClinic/services"
	"CareClinic/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	actorKey     = "actor"
	sessionIDKey = "session_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Session, error)
}

type SessionRevoker interface {
	Logout(ctx context.Context, sessionID string) error
}

// SessionAuth resolves the session cookie into an actor. Anonymous or expired
// requests are sent to the login page.
func SessionAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(utils.SessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, services.LoginPath)
			c.Abort()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrSessionExpired) {
				utils.ClearSessionCookie(c)
				c.Redirect(http.StatusFound, services.LoginPath)
				c.Abort()
				return
			}
			HttpError(c, "Failed to load session", http.StatusInternalServerError, err)
			return
		}

		c.Set(actorKey, session.Actor)
		c.Set(sessionIDKey, session.ID)
		c.Next()
	}
}

// RequireProfile sends actors without a usable profile where the role router
// says: elevated users to the admin panel, everybody else out.
func RequireProfile(revoker SessionRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		if actor.HasProfile() {
			c.Next()
			return
		}

		landing := services.ResolveLanding(actor.User, actor.Profile)
		if landing.Kind == services.LandingLoggedOut {
			EndSession(c, revoker)
			utils.AddFlash(c, utils.FlashError, landing.Message)
		}
		c.Redirect(http.StatusFound, landing.Path)
		c.Abort()
	}
}

// EndSession revokes the request's session and clears its cookie.
func EndSession(c *gin.Context, revoker SessionRevoker) {
	if err := revoker.Logout(c.Request.Context(), SessionIDFromContext(c)); err != nil {
		log.Warn().Err(err).Msg("failed to revoke session")
	}
	utils.ClearSessionCookie(c)
}

func ActorFromContext(c *gin.Context) services.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(services.Actor); ok {
			return actor
		}
	}
	return services.Actor{}
}

func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
