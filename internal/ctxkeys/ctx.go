package ctxkeys

import (
	"context"

	"github.com/templui/hoaxify/internal/model"
	"golang.org/x/text/language"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey   contextKey = "user"
	TokenKey  contextKey = "token"
	LocaleKey contextKey = "locale"
)

// User returns the authenticated user, or nil for anonymous requests.
func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// Token returns the bearer token sent with the request, if any.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// Locale returns the negotiated locale, defaulting to English.
func Locale(ctx context.Context) language.Tag {
	locale, ok := ctx.Value(LocaleKey).(language.Tag)
	if !ok {
		return language.English
	}
	return locale
}

func WithLocale(ctx context.Context, locale language.Tag) context.Context {
	return context.WithValue(ctx, LocaleKey, locale)
}
