package httpx

import "context"

type ctxKey string

const (
	CtxKeyShop   ctxKey = "shop"
	CtxKeyUserID ctxKey = "user_id"
)

// WithShop records the resolved shop (and user, when known) for downstream
// handlers and rate limiting.
func WithShop(ctx context.Context, shop, userID string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyShop, shop)
	if userID != "" {
		ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	}
	return ctx
}

// ShopFromContext returns the shop set by WithShop.
func ShopFromContext(ctx context.Context) (string, bool) {
	shop, ok := ctx.Value(CtxKeyShop).(string)
	return shop, ok && shop != ""
}

// UserIDFromContext returns the user id set by WithShop.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}
