package log

import (
	"github.com/cockroachdb/errors"
)

// extractStacktrace returns the first stack trace recorded by cockroachdb/errors
// along the wrap chain of err.
func extractStacktrace(err error) string {
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		details := errors.GetSafeDetails(e).SafeDetails
		if len(details) > 0 && details[0] != "" {
			return details[0]
		}
	}
	return ""
}
