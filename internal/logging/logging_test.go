package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(&buf, "info", "json")

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/boom", func(c *gin.Context) {
		FromContext(c).Info("inside")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	t.Run("GeneratesID", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		id := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var inside, record map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &inside))
		require.NoError(t, json.Unmarshal(lines[1], &record))
		assert.Equal(t, id, inside["request_id"])
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, float64(http.StatusInternalServerError), record["status"])
		assert.Equal(t, "/boom", record["path"])
	})

	t.Run("KeepsValidIncomingID", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set(HeaderRequestID, id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, id, w.Header().Get(HeaderRequestID))
	})

	t.Run("ReplacesInvalidIncomingID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set(HeaderRequestID, "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
