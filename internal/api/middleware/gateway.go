package middleware

import (
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/api/response"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
	"github.com/shopkit/commerce-gateway/internal/usage"
)

const credentialKey = "credential"

// Rate limit response headers
const (
	HeaderLimitMinute     = "X-RateLimit-Limit-Minute"
	HeaderRemainingMinute = "X-RateLimit-Remaining-Minute"
	HeaderLimitDay        = "X-RateLimit-Limit-Day"
	HeaderRemainingDay    = "X-RateLimit-Remaining-Day"
	HeaderRetryAfter      = "Retry-After"
)

var (
	uuidSegment    = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	numericSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
)

// Gateway authenticates the API key, enforces the tenant's quota and records usage.
// It must run after PublicCORS.
func Gateway(resolver auth.Resolver, limiter ratelimit.Limiter, recorder usage.Recorder, clock adapter.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := clock.Now()
		ctx := c.Request.Context()

		cred, err := resolver.Resolve(ctx, c.GetHeader("Authorization"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		c.Set(credentialKey, cred)

		result := limiter.Check(ctx, cred.TenantID, cred.Plan)
		h := c.Writer.Header()
		h.Set(HeaderLimitMinute, strconv.Itoa(result.MinuteLimit))
		h.Set(HeaderRemainingMinute, strconv.Itoa(result.MinuteRemaining))
		h.Set(HeaderLimitDay, strconv.Itoa(result.DayLimit))
		h.Set(HeaderRemainingDay, strconv.Itoa(result.DayRemaining))

		if result.Allowed {
			c.Next()
		} else {
			h.Set(HeaderRetryAfter, strconv.Itoa(result.RetryAfterSeconds))
			response.RateLimited(c, result)
		}

		recorder.Record(usage.Entry{
			TenantID:       cred.TenantID,
			Endpoint:       endpoint(c),
			Method:         c.Request.Method,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMs: clock.Since(start).Milliseconds(),
			ClientIP:       c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
		})
	}
}

// endpoint is the route template, so usage groups by endpoint rather than by resource id
func endpoint(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	path := uuidSegment.ReplaceAllString(c.Request.URL.Path, "/:id")
	return numericSegment.ReplaceAllString(path, "/:id$1")
}

// CredentialFrom returns the credential stored by Gateway or ConsoleAuth
func CredentialFrom(c *gin.Context) (*auth.Credential, bool) {
	v, ok := c.Get(credentialKey)
	if !ok {
		return nil, false
	}
	cred, ok := v.(*auth.Credential)
	return cred, ok && cred != nil
}

// TenantID returns the authenticated tenant, or "" before authentication
func TenantID(c *gin.Context) string {
	if cred, ok := CredentialFrom(c); ok {
		return cred.TenantID
	}
	return ""
}
