package object

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/google/uuid"
)

// UserNamespace is the first path segment of every key owned by userID. The raw
// id never appears in keys or public URLs.
func UserNamespace(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// NewUserKey returns a fresh key "<namespace>/<uuid>.<ext>" for an upload by userID.
func NewUserKey(userID, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(UserNamespace(userID), name)
}
