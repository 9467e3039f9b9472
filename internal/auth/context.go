package auth

import "context"

type ctxKey string

const adminContextKey ctxKey = "giftstorm.auth.admin"

func withAdminContext(ctx context.Context, a Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, a)
}

func AdminFromContext(ctx context.Context) (Admin, bool) {
	v := ctx.Value(adminContextKey)
	a, ok := v.(Admin)
	return a, ok
}
