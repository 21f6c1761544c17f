package cache

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderCache reports whether a response was served from the store.
const HeaderCache = "X-Cache"

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET requests from store, keyed by request URI. Only 200
// responses without "Cache-Control: no-store" are stored.
func Middleware(store *Store, ttl time.Duration, tags ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if entry, ok := store.Get(key); ok && entry.Body != nil {
			c.Header(HeaderCache, "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		c.Header(HeaderCache, "MISS")
		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		if w.Status() == http.StatusOK && !strings.Contains(w.Header().Get("Cache-Control"), "no-store") {
			store.Set(key, Entry{
				Status:      http.StatusOK,
				ContentType: w.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			}, ttl, tags...)
		}
	}
}
