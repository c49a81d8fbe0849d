package notification

import "errors"

var (
	ErrUnknownKind   = errors.New("unknown notification kind")
	ErrNoRecipient   = errors.New("notification has no recipient")
	ErrQueueClosed   = errors.New("notification queue closed")
	ErrSendExhausted = errors.New("notification not delivered after retries")
)
