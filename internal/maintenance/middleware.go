package maintenance

import (
	"html/template"
	"net/http"
	"strings"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/logging"
	"gachaactu/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// NoticePath serves the static notice page.
const NoticePath = "/maintenance"

var exemptPrefixes = []string{
	"/api/admin",
	"/api/auth",
	"/api/maintenance",
	NoticePath,
	"/swagger",
	"/ping",
}

func exempt(path string) bool {
	for _, prefix := range exemptPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Middleware turns public traffic away while maintenance mode is on. API
// callers receive a 503, everything else is redirected to the notice page.
// Editors and admins with a valid token pass through.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if exempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		settings, err := Load()
		if err != nil {
			// Fail open.
			logging.FromContext(c).Error("maintenance check failed", "error", err)
			c.Next()
			return
		}
		if !settings.Enabled {
			c.Next()
			return
		}

		if auth.Authenticate(c) && models.CanEdit(c.GetString(auth.ContextRole)) {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Retry-After", "300")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":       "Service under maintenance",
				"message":     NoticeMessage(settings),
				"maintenance": true,
			})
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, NoticePath)
		c.Abort()
	}
}

var noticeTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="robots" content="noindex">
<title>GachaActu - Maintenance</title>
</head>
<body>
<main>
<h1>Maintenance</h1>
<p>{{.}}</p>
</main>
</body>
</html>
`))

// NoticePage renders the maintenance notice.
func NoticePage(c *gin.Context) {
	settings, err := Load()
	message := DefaultMessage
	if err == nil {
		message = NoticeMessage(settings)
	}

	status := http.StatusOK
	if err == nil && settings.Enabled {
		status = http.StatusServiceUnavailable
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	if err := noticeTemplate.Execute(c.Writer, message); err != nil {
		logging.FromContext(c).Error("render maintenance notice", "error", err)
	}
}
