package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/drivemark/internal/logger"
	"github.com/MrSnakeDoc/drivemark/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// gate serves the request when allow accepts it and answers 403 otherwise.
func gate(log logger.Logger, reason string, allow func(r *http.Request) (bool, []logger.Field)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, fields := allow(r)
			if !ok {
				log.Warn("request rejected by "+reason, append(fields, logger.String("path", r.URL.Path))...)
				writeStatus(w, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost rejects requests whose Host (port ignored) matches none of
// allowedHosts. Patterns may start with "*." to match any subdomain.
// An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}
	log.Debug("host filter enabled", logger.Strings("hosts", allowedHosts))

	return gate(log, "host filter", func(r *http.Request) (bool, []logger.Field) {
		host := utils.ParseHostNoPort(r.Host)
		for _, pattern := range allowedHosts {
			if matchHost(host, pattern) {
				return true, nil
			}
		}
		return false, []logger.Field{logger.String("host", r.Host)}
	})
}

func matchHost(host, pattern string) bool {
	if strings.EqualFold(host, utils.ParseHostNoPort(pattern)) {
		return true
	}
	suffix, ok := strings.CutPrefix(pattern, "*")
	return ok && strings.HasPrefix(suffix, ".") && len(host) > len(suffix) &&
		strings.EqualFold(host[len(host)-len(suffix):], suffix)
}

// AllowOnlyCIDRS restricts a route to client IPs inside allowed. Set
// trustProxy behind a reverse proxy so forwarded headers are honored.
// An empty list disables the check.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}
	log.Debug("CIDR filter enabled", logger.Int("rules", len(allowed)), logger.Bool("trust_proxy", trustProxy))

	return gate(log, "CIDR filter", func(r *http.Request) (bool, []logger.Field) {
		ip := utils.ClientIP(r, trustProxy)
		return m.Allow(ip), []logger.Field{logger.String("ip", ip)}
	})
}
