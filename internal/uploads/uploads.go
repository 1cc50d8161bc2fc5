// Package uploads stores avatar files on the local filesystem. Records keep
// the stored path; file operations are best-effort side effects and never
// roll back a database write.
package uploads

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"padel-backend/internal/users"
)

// Dir returns the directory uploaded files are stored under.
func Dir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}

// Save writes an uploaded file under Dir with a fresh unique name and
// returns the stored path.
func Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return "", err
	}

	name := primitive.NewObjectID().Hex() + filepath.Ext(fh.Filename)
	path := filepath.Join(Dir(), name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// Delete removes a stored file. The placeholder avatar is shared by every
// account that never uploaded one and is never deleted.
func Delete(path string) {
	if path == "" || path == users.DefaultImage {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("unable to delete image file %s: %s", path, err)
	}
}
