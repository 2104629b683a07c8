// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/energy-eservice/internal/i18n"
)

// I18nMiddleware resolves the response language from ?lang= or
// Accept-Language, falling back to the configured default.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	supported := make(map[string]bool)
	for _, lang := range i18n.GetSupportedLanguages() {
		supported[lang] = true
	}
	if !supported[defaultLang] {
		defaultLang = i18n.DefaultLang
	}

	return func(c *gin.Context) {
		lang := defaultLang

		if query := c.Query("lang"); query != "" && supported[strings.ToLower(query)] {
			lang = strings.ToLower(query)
		} else if header := c.GetHeader("Accept-Language"); header != "" {
			// Handle cases like "ar-JO,ar;q=0.9,en;q=0.8"
			for _, part := range strings.Split(header, ",") {
				tag := strings.TrimSpace(strings.Split(part, ";")[0])
				base := strings.ToLower(strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0])
				if supported[base] {
					lang = base
					break
				}
			}
		}

		c.Set("lang", lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}
