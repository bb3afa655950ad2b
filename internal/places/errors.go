package places

import "fmt"

// ErrorKind classifies gateway failures so the fusion cache can decide
// between serving stale data and surfacing an operator problem.
type ErrorKind string

const (
	// KindTransient covers network failures, timeouts and 5xx responses.
	// The implicit retry is the next cache refresh; never retried in-request.
	KindTransient ErrorKind = "transient"
	// KindAuth covers 401/403: a misconfigured or revoked API key.
	KindAuth ErrorKind = "auth"
	// KindQuota covers 429: billing or rate limits exhausted.
	KindQuota ErrorKind = "quota"
)

type GatewayError struct {
	Kind   ErrorKind
	Status int // HTTP status, 0 for network-level failures
	msg    string
	err    error
}

func (e *GatewayError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("places gateway (%s): %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("places gateway (%s): %s", e.Kind, e.msg)
}

func (e *GatewayError) Unwrap() error { return e.err }

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindQuota
	default:
		return KindTransient
	}
}
