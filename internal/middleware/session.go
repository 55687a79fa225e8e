package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/models"
)

const (
	SessionCookie      = "li_session"
	SessionTokenHeader = "X-Session-Token"
	DeviceIDKey        = "device_id"
)

type SessionConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

// Session identifies the device behind a request. The device id travels
// in a signed cookie (or a bearer token for non-browser clients); a device
// without a valid token gets a new id. Tokens past half their lifetime are
// reissued.
func Session(cfg SessionConfig, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		deviceID := ""
		reissue := true

		if token := sessionToken(c); token != "" {
			claims, err := helpers.ValidateSession(cfg.Secret, token)
			if err != nil {
				logger.Debug("discarding invalid session token", "error", err)
			} else {
				deviceID = claims.DeviceID()
				if claims.ExpiresAt != nil {
					reissue = claims.ExpiresAt.Sub(now) < cfg.TTL/2
				}
			}
		}
		if deviceID == "" {
			deviceID = uuid.NewString()
		}

		if reissue {
			token, err := helpers.SignSession(cfg.Secret, deviceID, cfg.TTL, now)
			if err != nil {
				logger.Error("failed to sign session", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse("failed to start session"))
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, token, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
			c.Header(SessionTokenHeader, token)
		}

		c.Set(DeviceIDKey, deviceID)
		c.Next()
	}
}

// DeviceID returns the device id set by Session.
func DeviceID(c *gin.Context) string {
	return c.GetString(DeviceIDKey)
}

func sessionToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}
