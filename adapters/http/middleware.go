package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"
	GinContextKeyClaims = "claims"
)

// authenticate resolves the bearer token. It returns nil claims and a nil
// error when no Authorization header is present.
func authenticate(c *gin.Context, jwtSvc *auth.JWTService, sessions service.SessionStore) (*auth.CustomClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, apperror.NewUnauthorized("invalid token format", nil)
	}

	claims, err := jwtSvc.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token", err)
	}

	revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, apperror.NewInternal("failed to check session", err)
	}
	if revoked {
		return nil, apperror.NewUnauthorized("session has been signed out", nil)
	}
	return claims, nil
}

func AuthMiddleware(jwtSvc *auth.JWTService, sessions service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, jwtSvc, sessions)
		if err == nil && claims == nil {
			err = apperror.NewUnauthorized("authorization header is required", nil)
		}
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(GinContextKeyUserID, claims.UserID)
		c.Set(GinContextKeyClaims, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the reader when a valid token is sent and
// lets anonymous requests through.
func OptionalAuthMiddleware(jwtSvc *auth.JWTService, sessions service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, jwtSvc, sessions)
		if err == nil && claims != nil {
			c.Set(GinContextKeyUserID, claims.UserID)
			c.Set(GinContextKeyClaims, claims)
		}
		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (string, bool) {
	userID := c.GetString(GinContextKeyUserID)
	return userID, userID != ""
}

func GetClaimsFromGinContext(c *gin.Context) (*auth.CustomClaims, bool) {
	v, ok := c.Get(GinContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.CustomClaims)
	return claims, ok
}

// ErrorMiddleware renders the last error a handler pushed with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path))
		}
		c.JSON(status, appErr.ToJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if status >= http.StatusInternalServerError {
			log.Warn("Request failed", fields...)
		} else {
			log.Info("Request success", fields...)
		}
	}
}

// RateLimitMiddleware caps how often one user may run action. It must run
// after AuthMiddleware. If the limiter itself fails the request goes through.
func RateLimitMiddleware(limiter service.RateLimiter, action string, limit int, window time.Duration, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewUnauthenticated(action))
			c.Abort()
			return
		}
		key := fmt.Sprintf("%s:%s", action, userID)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warn("Rate limiter failed, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.Error(apperror.NewTooManyRequests(fmt.Sprintf("at most %d %s requests per %s", limit, action, window)))
			c.Abort()
			return
		}
		c.Next()
	}
}
