package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrParentNotFound     = errors.New("parent category not found")
	ErrCategoryExists     = errors.New("category already exists")
	ErrEmptyName          = errors.New("category name is empty")
	ErrUnsupportedContent = errors.New("unsupported content")
	ErrMixedBatch         = errors.New("batch mixes media kinds")
)

type SendErrorKind int

const (
	SendOther SendErrorKind = iota
	SendBadRequest
	SendRateLimited
	SendForbidden
)

func (k SendErrorKind) String() string {
	switch k {
	case SendBadRequest:
		return "bad request"
	case SendRateLimited:
		return "rate limited"
	case SendForbidden:
		return "forbidden"
	default:
		return "send failed"
	}
}

// SendError is a failed call to the chat platform.
type SendError struct {
	Kind       SendErrorKind
	RetryAfter time.Duration
	Err        error
}

func (e *SendError) Error() string {
	if e.Kind == SendRateLimited && e.RetryAfter > 0 {
		return fmt.Sprintf("%s, retry after %s: %v", e.Kind, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
