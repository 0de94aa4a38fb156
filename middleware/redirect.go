package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	config "github.com/penielchurch/site-backend/config"
)

// RootRedirect sends the bare root path to the admin dashboard when the
// request arrives on the hosted deployment domain. Other hosts (custom
// domain, local dev) keep serving the public site at /.
func RootRedirect(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		if h := strings.Split(host, ":"); len(h) > 0 {
			host = h[0]
		}
		if c.Request.URL.Path == "/" && strings.HasSuffix(host, cfg.DeployDomainSuffix) {
			c.Redirect(http.StatusTemporaryRedirect, "/admin/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
