package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

func newTestService(t *testing.T, maxSize int64) *Service {
	t.Helper()
	cfg := config.Config{
		Upload: config.Upload{
			Dir:          t.TempDir(),
			PublicPath:   "/uploads",
			MaxSizeBytes: maxSize,
		},
	}
	svc, err := NewService(cfg, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func fileHeader(t *testing.T, filename, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="screenshot"; filename="` + filename + `"`}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload/payment", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))

	files := req.MultipartForm.File["screenshot"]
	require.Len(t, files, 1)
	return files[0]
}

func TestStore_WritesFileAndReturnsURL(t *testing.T) {
	svc := newTestService(t, 1<<20)

	resp, err := svc.Store(fileHeader(t, "proof.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/screenshot-"), "got %s", resp.URL)
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))

	stored, err := os.ReadFile(filepath.Join(svc.Dir(), resp.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestStore_RejectsUnknownExtension(t *testing.T) {
	svc := newTestService(t, 1<<20)

	_, err := svc.Store(fileHeader(t, "proof.pdf", "application/pdf", []byte("%PDF")))
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestStore_RejectsMismatchedContentType(t *testing.T) {
	svc := newTestService(t, 1<<20)

	_, err := svc.Store(fileHeader(t, "proof.png", "text/html", []byte("<html>")))
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestStore_RejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, 8)

	_, err := svc.Store(fileHeader(t, "proof.jpg", "image/jpeg", bytes.Repeat([]byte("a"), 64)))
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestStore_NilFile(t *testing.T) {
	svc := newTestService(t, 1<<20)

	_, err := svc.Store(nil)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestStore_UniqueFilenames(t *testing.T) {
	svc := newTestService(t, 1<<20)

	first, err := svc.Store(fileHeader(t, "proof.jpg", "image/jpeg", []byte("one")))
	require.NoError(t, err)
	second, err := svc.Store(fileHeader(t, "proof.jpg", "image/jpeg", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
}
