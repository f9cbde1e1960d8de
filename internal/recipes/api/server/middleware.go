package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"time"

	"github.com/Leopold1975/recipes_control/internal/recipes/api/oapi"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

func userFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)

	return u, ok
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// requestIDMiddleware propagates the client's X-Request-ID or generates one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, reqID)))
	})
}

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("REQUEST %s METHOD %s URI %s %s	STATUS %d Latency %s Client IP %s User Agent %s",
					requestIDFromContext(r.Context()),
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					rr.Code,
					latency,
					r.RemoteAddr,
					r.UserAgent(),
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				logg.Errorf("request %s error: %s", requestIDFromContext(r.Context()), rr.Body.String())
			}

			if _, err := rr.Body.WriteTo(w); err != nil {
				logg.Errorf("middleware write error: %s", err.Error())
			}
		})
	}
}

// authenticate resolves the Authorization header, when present, to a user.
// Only the Bearer and Token schemes are recognized; a request with an
// unusable token of those schemes is rejected right away.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)

			return
		}

		scheme, token, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
			next.ServeHTTP(w, r)

			return
		}

		token = strings.TrimSpace(token)
		if token == "" || strings.Contains(token, " ") {
			handleError(w, errors.New("invalid authorization header"), http.StatusUnauthorized) //nolint:goerr113

			return
		}

		u, err := s.authService.Authenticate(r.Context(), token)
		if err != nil {
			s.handleServiceError(w, err, "authenticate")

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// requireAuth rejects anonymous requests to operations secured by BearerAuth.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !secured(r) {
			next.ServeHTTP(w, r)

			return
		}

		if _, ok := userFromContext(r.Context()); !ok {
			handleError(w, errors.New("authentication credentials were not provided"), http.StatusUnauthorized) //nolint:goerr113

			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimit throttles anonymous writes (signup and token) per client IP.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secured(r) || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)

			return
		}

		if !s.limiter.Allow(s.clientIP(r)) {
			handleError(w, errors.New("request was throttled"), http.StatusTooManyRequests) //nolint:goerr113

			return
		}

		next.ServeHTTP(w, r)
	})
}

// paramError renders parameter binding failures. Every operation with
// parameters is secured, so anonymous callers get 401 first.
func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := userFromContext(r.Context()); !ok {
		handleError(w, errors.New("authentication credentials were not provided"), http.StatusUnauthorized) //nolint:goerr113

		return
	}

	handleError(w, err, http.StatusBadRequest)
}

func secured(r *http.Request) bool {
	_, ok := r.Context().Value(oapi.BearerAuthScopes).([]string)

	return ok
}

// clientIP is the peer address, or the nearest X-Forwarded-For hop that is
// not a trusted proxy when the peer itself is one.
func (s *Server) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !s.trusted(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}

		if !s.trusted(hop) {
			return hop
		}
	}

	return host
}

func (s *Server) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	addr = addr.Unmap()

	for _, p := range s.proxies {
		if p.Contains(addr) {
			return true
		}
	}

	return false
}

func parseProxies(proxies []string, lg logger.Logger) []netip.Prefix {
	res := make([]netip.Prefix, 0, len(proxies))

	for _, p := range proxies {
		if prefix, err := netip.ParsePrefix(p); err == nil {
			res = append(res, prefix.Masked())

			continue
		}

		addr, err := netip.ParseAddr(p)
		if err != nil {
			lg.Warnf("skip trusted proxy %q: %s", p, err.Error())

			continue
		}

		addr = addr.Unmap()
		res = append(res, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return res
}
