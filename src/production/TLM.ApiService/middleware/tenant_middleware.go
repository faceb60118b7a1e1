package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	logger "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Logger"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"

	"github.com/gin-gonic/gin"
)

const tenantSessionKey = "tenant_session"

// TenantMiddleware opens a tenant-scoped storage session per request. The
// session is bound to the tenant slug carried by the caller's token, so a
// handler can only ever see its own tenant's schema.
type TenantMiddleware struct {
	store          interfaces.TenantStore
	logger         *logger.Logger
	releaseTimeout time.Duration
}

// NewTenantMiddleware creates a new tenant middleware
func NewTenantMiddleware(store interfaces.TenantStore, log *logger.Logger, releaseTimeout time.Duration) *TenantMiddleware {
	if releaseTimeout <= 0 {
		releaseTimeout = 5 * time.Second
	}
	return &TenantMiddleware{
		store:          store,
		logger:         log.WithComponent("tenant_middleware"),
		releaseTimeout: releaseTimeout,
	}
}

// OpenSession acquires a tenant session for the request and guarantees its
// release after the handler chain finishes, on error paths included. Must
// run after Authenticate.
func (m *TenantMiddleware) OpenSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, err := GetTenantSlugFromGinContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		session, err := m.store.Acquire(c.Request.Context(), slug)
		if err != nil {
			m.logger.WithTenant(slug).WithError(err).Error("failed to open tenant session")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable"})
			c.Abort()
			return
		}

		// Release with a fresh deadline: the request context may already be
		// cancelled when the handler returns.
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), m.releaseTimeout)
			defer cancel()
			if err := session.Release(releaseCtx); err != nil {
				m.logger.WithTenant(slug).WithError(err).Error("failed to release tenant session")
			}
		}()

		c.Set(tenantSessionKey, session)
		c.Next()
	}
}

// GetTenantSession retrieves the request's tenant session from Gin context
func GetTenantSession(c *gin.Context) (interfaces.TenantSession, error) {
	sessionVal, exists := c.Get(tenantSessionKey)
	if !exists {
		return nil, errors.New("tenant session not found in context")
	}

	session, ok := sessionVal.(interfaces.TenantSession)
	if !ok {
		return nil, errors.New("invalid tenant session in context")
	}

	return session, nil
}
