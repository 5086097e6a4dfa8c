package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// GenerateStorageName builds a collision-resistant file name for an uploaded
// attachment: unix-millis, 8 random bytes in hex, then the sanitized original
// name with its extension preserved. The result never equals the original name.
func GenerateStorageName(originalName string) (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)

	return fmt.Sprintf("%d-%s-%s%s",
		time.Now().UnixMilli(),
		hex.EncodeToString(bytes),
		sanitizeFileName(base),
		strings.ToLower(ext),
	), nil
}

// sanitizeFileName lowercases the name and replaces anything outside
// [a-z0-9] with underscores so the stored name is safe on any filesystem.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
