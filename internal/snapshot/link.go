package snapshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ParamName is the query parameter that carries an encoded snapshot.
const ParamName = "sync"

// DefaultEphemeralMarkers are path fragments that identify preview or proxy
// deployments whose paths differ between devices.
var DefaultEphemeralMarkers = []string{"preview", "proxy", "sandbox", "blob"}

// EncodeParam turns a document into the unpadded base64url text carried by
// a sync link.
func EncodeParam(doc []byte) string {
	return base64.RawURLEncoding.EncodeToString(doc)
}

// DecodeParam reverses EncodeParam. It also accepts standard base64 with or
// without padding (as produced by browser btoa), a '+' that query decoding
// turned into a space, and a payload that was percent-encoded before being
// base64 encoded.
func DecodeParam(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty sync parameter", domain.ErrMalformedSnapshot)
	}
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.TrimRight(s, "=")

	enc := base64.RawStdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.RawURLEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: sync parameter is not base64: %v", domain.ErrMalformedSnapshot, err)
	}

	if bytes.HasPrefix(b, []byte("%7B")) || bytes.HasPrefix(b, []byte("%7b")) {
		unescaped, err := url.QueryUnescape(string(b))
		if err != nil {
			return nil, fmt.Errorf("%w: sync parameter: %v", domain.ErrMalformedSnapshot, err)
		}
		b = []byte(unescaped)
	}
	return b, nil
}

// CanonicalBase returns the stable address of the application behind u:
// scheme and host, with the path kept only when no segment looks ephemeral.
// Query and fragment are always dropped. The result ends with a slash.
func CanonicalBase(u *url.URL, markers []string) string {
	base := url.URL{Scheme: u.Scheme, Host: u.Host}
	if base.Scheme == "" {
		base.Scheme = "http"
	}

	segments := make([]string, 0)
	for seg := range strings.SplitSeq(u.Path, "/") {
		if seg == "" {
			continue
		}
		if isEphemeral(seg, markers) {
			segments = nil
			break
		}
		segments = append(segments, seg)
	}
	if n := len(segments); n > 0 && strings.EqualFold(segments[n-1], "index.html") {
		segments = segments[:n-1]
	}

	base.Path = "/"
	if len(segments) > 0 {
		base.Path = "/" + strings.Join(segments, "/") + "/"
	}
	return base.String()
}

func isEphemeral(segment string, markers []string) bool {
	lower := strings.ToLower(segment)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// BuildLink returns base with the encoded document attached as the sync
// parameter.
func BuildLink(base string, doc []byte) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("snapshot.BuildLink: %w", err)
	}
	q := u.Query()
	q.Set(ParamName, EncodeParam(doc))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// StripParam returns u as a string without the sync parameter, keeping every
// other query parameter.
func StripParam(u *url.URL) string {
	clean := *u
	q := clean.Query()
	q.Del(ParamName)
	clean.RawQuery = q.Encode()
	return clean.String()
}
