package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/lending/engine"
)

const (
	headerMemberID   = "X-Member-ID"
	headerMemberRole = "X-Member-Role"
	roleAdmin        = "admin"
)

type callerKey struct{}

// identify reads the caller passed by the gateway. It does not reject anonymous requests.
func identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := strings.TrimSpace(r.Header.Get(headerMemberID))
		if memberID == "" {
			next.ServeHTTP(w, r)

			return
		}

		caller := engine.Caller{
			MemberID: memberID,
			IsAdmin:  strings.EqualFold(strings.TrimSpace(r.Header.Get(headerMemberRole)), roleAdmin),
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	})
}

func callerFrom(ctx context.Context) (engine.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(engine.Caller)

	return caller, ok
}

// requireMember rejects anonymous requests with 401.
func (s *Server) requireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := callerFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "missing "+headerMemberID+" header", s.logger)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects requests of non-administrators with 403.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return s.requireMember(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller, _ := callerFrom(r.Context()); !caller.IsAdmin {
			writeError(w, http.StatusForbidden, "administrators only", s.logger)

			return
		}

		next.ServeHTTP(w, r)
	}))
}

// selfOrAdmin tells whether the caller may see data of memberID.
func selfOrAdmin(caller engine.Caller, memberID string) bool {
	return caller.IsAdmin || caller.MemberID == memberID
}
