package domain

import "errors"

// Step failure sentinels. Each publish step wraps its underlying git or
// filesystem error with one of these so callers can tell which stage of
// the sequence broke via errors.Is without parsing messages.
var (
	ErrCheckoutFailed       = errors.New("checkout failed")
	ErrTagResolution        = errors.New("tag resolution failed")
	ErrCopyFailed           = errors.New("copy failed")
	ErrCommitFailed         = errors.New("commit failed")
	ErrPushRejected         = errors.New("push rejected")
	ErrAuthenticationFailed = errors.New("authentication failed")
)
