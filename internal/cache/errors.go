package cache

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseReadFailure     CacheErrorCause = "read failed"
	ErrCauseWriteFailure    CacheErrorCause = "write failed"
	ErrCauseSerializeFailed CacheErrorCause = "serialization failed"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s", e.Cause)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
