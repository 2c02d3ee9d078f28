package middleware

import (
	"context"
	"net/http"

	"github.com/orci-tz/mafunzo/internal/utils"
)

type ctxKey int

const localeKey ctxKey = iota + 1

// LocaleMiddleware resolves the message language from ?lang= or
// Accept-Language, stores it in the request context and echoes it as
// Content-Language.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := utils.DetermineLocale(
			r.URL.Query().Get("lang"),
			r.Header.Get("Accept-Language"),
			utils.SupportedLocales,
			utils.DefaultLocale,
		)
		w.Header().Set("Content-Language", locale)
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey, locale)))
	})
}

// LocaleFromContext returns the locale chosen by LocaleMiddleware, or the
// default locale outside a request.
func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok && s != "" {
		return s
	}
	return utils.DefaultLocale
}
