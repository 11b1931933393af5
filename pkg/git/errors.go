package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RemoteErrorKind classifies failures talking to a remote
type RemoteErrorKind string

const (
	RemoteNotFound   RemoteErrorKind = "not_found"
	RemoteAuth       RemoteErrorKind = "authentication"
	RemoteRejected   RemoteErrorKind = "rejected"
	RemoteCancelled  RemoteErrorKind = "cancelled"
	RemoteUnexpected RemoteErrorKind = "unknown"
)

// RemoteError wraps an error returned while cloning from or pushing to a remote
type RemoteError struct {
	Kind RemoteErrorKind
	Op   string
	Err  error
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *RemoteError) Unwrap() error {
	return e.Err
}

func classifyRemoteError(err error, op string) error {
	kind := RemoteUnexpected
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound):
		kind = RemoteNotFound
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		kind = RemoteAuth
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = RemoteCancelled
	case errors.Is(err, gogit.ErrForceNeeded), isRejection(err):
		kind = RemoteRejected
	}
	return &RemoteError{Kind: kind, Op: op, Err: err}
}

func isRejection(err error) bool {
	msg := err.Error()
	for _, keyword := range []string{"non-fast-forward", "rejected", "protected branch", "denied"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
