package uploads

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padel-backend/internal/users"
)

func fileHeader(t *testing.T, field, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	require.Len(t, form.File[field], 1)

	return form.File[field][0]
}

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)

	fh := fileHeader(t, "image", "avatar.png", "not really a png")

	path, err := Save(fh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.Equal(t, ".png", filepath.Ext(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(content))

	Delete(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	t.Setenv("UPLOADS_DIR", t.TempDir())

	fh := fileHeader(t, "image", "avatar.png", "a")

	first, err := Save(fh)
	require.NoError(t, err)
	second, err := Save(fh)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDeleteKeepsPlaceholder(t *testing.T) {
	// must not panic or attempt to remove the shared asset
	Delete(users.DefaultImage)
	Delete("")
}
