package dto

import (
	"errors"
	"fmt"
)

// Turn failure taxonomy. Every one of these is handled at the turn boundary;
// none reaches the webhook caller.
var (
	ErrMalformedEvent      = errors.New("malformed event")
	ErrUnsupportedContent  = errors.New("unsupported content")
	ErrClassificationParse = errors.New("classification response could not be parsed")
	ErrBlockedRecipient    = errors.New("recipient blocked the bot")
	ErrValidation          = errors.New("validation failure")
	ErrUpstream            = errors.New("upstream service failure")
)

// QuotaExceededError carries the usage numbers of a rejected turn.
type QuotaExceededError struct {
	Limit  int    `json:"limit"`
	Used   int    `json:"used"`
	Period string `json:"period"`
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly usage limit exceeded: %d/%d in %s", e.Used, e.Limit, e.Period)
}

type DeliveryKind string

const (
	DeliveryText     DeliveryKind = "text"
	DeliveryPhoto    DeliveryKind = "photo"
	DeliveryDocument DeliveryKind = "document"
)

// DeliveryError is a channel failure other than a blocked recipient.
type DeliveryError struct {
	Kind DeliveryKind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
