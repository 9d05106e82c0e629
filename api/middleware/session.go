package middleware

import (
	"net/http"
	"strings"

	"github.com/acuellar/tiendita-backend/api/responses"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

// SessionTokenHeader carries the opaque checkout session token.
const SessionTokenHeader = "X-Session-Token"

// Session attaches the checkout session identified by X-Session-Token to the
// request context, minting a fresh token when the client has none. The token
// is echoed back on every response so clients can persist it. When the
// request is authenticated (OptionalAuth must run first) the session is
// bound to that user.
func Session(store *session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(SessionTokenHeader))
			if token == "" {
				token = session.NewToken()
			}

			sess, err := store.Load(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session"))
				return
			}

			if userID := UserIDFromContext(r.Context()); userID > 0 {
				sess.UserID = &userID
			}

			w.Header().Set(SessionTokenHeader, token)

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
