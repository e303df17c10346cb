package storage

import (
	"net/url"
	"strings"
)

// objectMarker is the path fragment managed object stores put in front of
// object keys in signed and public URLs.
const objectMarker = "/storage/v1/object/"

// accessRoles are URL path segments that can sit between the object marker
// and the bucket name.
var accessRoles = map[string]bool{
	"sign":          true,
	"public":        true,
	"authenticated": true,
}

// NormalizeKey maps a possibly-malformed stored file reference to a canonical
// storage key. The input may be a bare key, a URL-encoded key, a full
// signed/public URL, or a key carrying a redundant bucket prefix.
// Normalization is idempotent and never fails: a malformed percent-encoding
// leaves the string as-is instead of propagating an error.
func NormalizeKey(raw, bucket string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil {
			if idx := strings.Index(u.Path, objectMarker); idx >= 0 {
				rest := u.Path[idx+len(objectMarker):]
				if seg, tail, ok := strings.Cut(rest, "/"); ok && accessRoles[seg] {
					rest = tail
				}
				return NormalizeKey(rest, bucket)
			}
			// A URL without the marker: fall back to its path minus the
			// leading slash.
			return NormalizeKey(strings.TrimPrefix(u.Path, "/"), bucket)
		}
		return s
	}

	if bucket != "" && strings.HasPrefix(s, bucket+"/") {
		return NormalizeKey(s[len(bucket)+1:], bucket)
	}

	if strings.Contains(s, "%") {
		decoded, err := url.PathUnescape(s)
		if err == nil && decoded != s {
			return NormalizeKey(decoded, bucket)
		}
	}

	return s
}
