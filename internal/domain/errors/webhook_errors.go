package errors

import "errors"

var (
	// ErrEventNotFound indicates that no webhook event exists with the given id
	ErrEventNotFound = errors.New("webhook event not found")

	// ErrEventAlreadyProcessed indicates the event already succeeded and there is nothing to retry
	ErrEventAlreadyProcessed = errors.New("webhook event already processed")

	// ErrEventPayloadEmpty indicates the stored payload is absent and cannot be replayed
	ErrEventPayloadEmpty = errors.New("webhook event has no stored payload")

	// ErrEventNotRetryable indicates the event moved to a state the override cannot retry from
	ErrEventNotRetryable = errors.New("webhook event not retryable")
)
