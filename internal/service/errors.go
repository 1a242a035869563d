package service

import (
	"errors"
)

var (
	// ErrNotFound means the referenced project, task or attachment does not
	// exist. Always terminal; surfaced as a client error.
	ErrNotFound = errors.New("not found")

	// ErrPolicyViolation means the request breaks the upload policy (MIME
	// type not allowed or size over the cap).
	ErrPolicyViolation = errors.New("upload policy violation")

	// ErrStorageUnavailable means the object store failed or rejected an
	// operation. The client may legitimately retry.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)
