package pipeline

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(p *Pipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(p).RegisterRoutes(api)
	return r
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="photo.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestPipelineHandlerSuccess(t *testing.T) {
	f := newFixture(t, "Buy milk", `{"tasks":[{"title":"Buy milk"}],"notes":[],"summary":"groceries"}`)
	r := newTestRouter(f.pipeline)

	body, ct := multipartBody(t, "file", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got struct {
		Success bool   `json:"success"`
		Data    Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, StateSuccess, got.Data.State)
	assert.Equal(t, "groceries", got.Data.Summary)
	assert.Equal(t, "/dashboard", got.Data.Next.Path)
	assert.NotNil(t, got.Data.Warnings)
}

func TestPipelineHandlerMissingFile(t *testing.T) {
	f := newFixture(t, "x", `{}`)
	r := newTestRouter(f.pipeline)

	body, ct := multipartBody(t, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "No file provided", got["error"])
}

func TestPipelineHandlerOCRFailureIs400(t *testing.T) {
	f := newFixture(t, "", `{}`)
	r := newTestRouter(f.pipeline)

	body, ct := multipartBody(t, "file", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "No text found in image", got["error"])
}
