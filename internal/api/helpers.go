package api

import "net/url"

// pathValue decodes a path parameter that may still be percent-encoded,
// as happens when the client escaped characters such as '#' or '/'.
func pathValue(raw string) string {
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
