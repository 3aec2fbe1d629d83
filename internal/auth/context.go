package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxEmail
	ctxRole
)

func WithIdentity(ctx context.Context, userID int64, email, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxEmail, email)
	ctx = context.WithValue(ctx, ctxRole, role)
	return ctx
}

func UserID(ctx context.Context) (int64, error) {
	v := ctx.Value(ctxUserID)
	if id, ok := v.(int64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("user id not in context")
}

func Email(ctx context.Context) (string, error) {
	v := ctx.Value(ctxEmail)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("email not in context")
}

func Role(ctx context.Context) (string, error) {
	v := ctx.Value(ctxRole)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("role not in context")
}
