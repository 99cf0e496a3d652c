package photos

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const KeyPrefix = "grievance-photos"

// File es la foto ya leída y validada (tamaño acotado).
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store sube una foto y devuelve su URL pública.
type Store interface {
	Upload(ctx context.Context, ownerHint string, f File) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ObjectKey genera un nombre único: grievance-photos/<owner>_<uuid><ext>.
func ObjectKey(ownerHint, filename string) string {
	owner := unsafeChars.ReplaceAllString(strings.TrimSpace(ownerHint), "")
	if owner == "" {
		owner = "anonymous"
	}
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	if len(ext) > 8 || unsafeChars.MatchString(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	return KeyPrefix + "/" + owner + "_" + uuid.NewString() + ext
}
