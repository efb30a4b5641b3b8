package domain

import "strings"

// ErrorKind is the coarse category assigned to an upstream failure. It
// decides which HTTP status and error label the proxy surfaces.
type ErrorKind int

const (
	// KindUpstream covers every daemon failure not classified below.
	KindUpstream ErrorKind = iota

	// KindUnavailable means the daemon could not be reached at all.
	KindUnavailable

	// KindModelNotFound means the daemon rejected the requested model.
	KindModelNotFound
)

// Classify buckets an upstream error by inspecting its message text. The
// daemon does not expose structured error codes, so substring matching is
// the compatibility contract here: any message containing "model" that is
// not a connection failure is treated as model-not-found, even when the
// word appears in an unrelated message. The connection check wins when
// both match.
func Classify(errMsg string) ErrorKind {
	switch {
	case strings.Contains(errMsg, "connect"),
		strings.Contains(errMsg, "ECONNREFUSED"),
		strings.Contains(errMsg, "fetch failed"):
		return KindUnavailable
	case strings.Contains(errMsg, "model"):
		return KindModelNotFound
	default:
		return KindUpstream
	}
}
