package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// transientPatterns match driver errors that wrap network failures with %v,
// losing the error chain.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"server closed the connection",
	"unexpected eof",
	"context deadline exceeded",
}

// isNetworkError checks for network-level errors.
func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout() || dnsErr.IsNotFound
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		if opErr.Err != nil {
			switch {
			case errors.Is(opErr.Err, syscall.ECONNREFUSED),
				errors.Is(opErr.Err, syscall.ECONNRESET),
				errors.Is(opErr.Err, syscall.ENETUNREACH),
				errors.Is(opErr.Err, syscall.EHOSTUNREACH):
				return true
			}
		}
	}

	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

func matchesTransientPattern(err error, extra ...string) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	for _, pattern := range extra {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
