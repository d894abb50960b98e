package utils

import (
	"mime/multipart" // Uploaded file headers
	"os"             // Directory creation
	"path/filepath"  // Path joining
	"regexp"         // Filename sanitising
	"strings"

	"library_system/internal/domain" // Validation errors

	"github.com/gin-gonic/gin" // Gin web framework
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	filenameSpaces      = regexp.MustCompile(`\s+`)
)

// SecureFilename reduces name to a flat ASCII filename with no path components
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", " ")
	name = strings.ReplaceAll(name, "/", " ")
	name = filenameSpaces.ReplaceAllString(strings.TrimSpace(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.TrimLeft(name, "._")
}

// MediaStore saves uploads under Root and serves them from URLPrefix
type MediaStore struct {
	Root      string // Filesystem directory
	URLPrefix string // Public path, e.g. /media
}

// NewMediaStore returns a store rooted at root and served under /media
func NewMediaStore(root string) *MediaStore {
	return &MediaStore{Root: root, URLPrefix: "/media"}
}

// Save writes the upload to the media folder and returns its public path.
// An upload without a filename is ignored and yields "".
func (m *MediaStore) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file == nil || file.Filename == "" {
		return "", nil
	}
	name := SecureFilename(file.Filename)
	if name == "" {
		return "", domain.NewValidationError("file", "Invalid file name")
	}
	if err := os.MkdirAll(m.Root, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(m.Root, name)); err != nil {
		return "", err
	}
	return m.URLPrefix + "/" + name, nil
}

// UploadedFile returns the named multipart file, or nil when the request carries none
func UploadedFile(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
