// README: Payment events and webhook outcomes.
package payment

import (
	"errors"

	"tempmotion/internal/types"
)

var (
	// ErrInvalidSignature means the webhook payload failed signature
	// verification. Always rejected, never retried; logged as a potential
	// security event by the caller.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// EventTypeCheckoutCompleted is the only event class that finalizes a
// booking; everything else is acknowledged and ignored.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// Event is a verified payment event, decoupled from the provider's types so
// the handler logic is testable without Stripe.
type Event struct {
	Type          string
	SessionID     string
	AmountTotal   types.Money
	PaymentStatus string
	Metadata      map[string]string
}

// CheckoutSession is a created checkout the customer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Outcome classifies webhook handling results. All three are acknowledged
// with a success response; redelivered events must look exactly like
// first-time processing to the sender.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeFinalized
	OutcomeAlreadyProcessed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinalized:
		return "finalized"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	default:
		return "ignored"
	}
}
