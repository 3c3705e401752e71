package i18n

import (
	"net/http"
)

// Middleware resolves the request locale and adds it to context. An explicit
// ?lang= query parameter wins over Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := ParseAcceptLanguage(r.Header.Get("Accept-Language"))
		if lang := r.URL.Query().Get("lang"); lang != "" {
			locale = NewLocalizer(lang).GetLocale()
		}

		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}
