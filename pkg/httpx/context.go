package httpx

import (
	"context"

	"github.com/aussiebroadwan/barkeep/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyClaims ctxKey = "claims" // if you want full jwtx.Claims
)

// UserID returns the authenticated subject stored by AuthnMiddleware.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok
}

// Claims returns the full verified token claims, when present.
func Claims(ctx context.Context) (jwtx.Claims, bool) {
	v, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return v, ok
}
