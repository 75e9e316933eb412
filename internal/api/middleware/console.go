package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/api/response"
	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/logger"
)

// ConsoleAuth authenticates admin console requests with an RS256 bearer token.
// The token's org_id claim becomes the request's tenant.
func ConsoleAuth(verifier *auth.ConsoleVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			response.FromError(c, &apierrors.ConfigurationError{Missing: []string{"auth.jwt_public_key"}})
			return
		}

		token, err := auth.ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			response.FromError(c, err)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Console authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			response.FromError(c, apierrors.NewUnauthorizedError("Invalid console token"))
			return
		}

		c.Set(credentialKey, &auth.Credential{
			TenantID: claims.OrganizationID,
			Active:   true,
		})
		c.Next()
	}
}
