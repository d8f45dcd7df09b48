package k8s

import (
	"errors"
	"fmt"
	"time"
)

// ClusterError indicates a cluster API operation failed for a reason other
// than a benign conflict or not-found. Benign outcomes are swallowed by the
// idempotent create/delete wrappers and never reach callers.
type ClusterError struct {
	Op       string
	Resource string
	Err      error
}

func (e *ClusterError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *ClusterError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates a bounded wait elapsed with no success observed.
type TimeoutError struct {
	Resource string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Resource)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

func clusterErr(op, resource string, err error) error {
	return &ClusterError{Op: op, Resource: resource, Err: err}
}
