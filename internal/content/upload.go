package content

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ObjectKey builds the blob key {prefix}/{unixMillis}-{name}. The name is
// reduced to its base and to characters that are safe in a URL path.
func ObjectKey(prefix string, at time.Time, filename string) string {
	key := fmt.Sprintf("%d-%s", at.UnixMilli(), sanitizeFilename(filename))
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		return prefix + "/" + key
	}
	return key
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "upload"
	}
	return out
}
