// README: Stripe gateway; checkout session creation and webhook verification.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	"tempmotion/internal/config"
	"tempmotion/internal/types"
)

// Gateway wraps the Stripe SDK behind the interfaces the payment service
// consumes.
type Gateway struct {
	cfg config.StripeConfig
}

func NewGateway(cfg config.StripeConfig) *Gateway {
	stripe.Key = cfg.SecretKey
	return &Gateway{cfg: cfg}
}

// CreateCheckoutSession creates a one-time payment session for the given
// amount. The metadata rides along on the session and comes back on the
// completion webhook; the amount itself is never read back from metadata.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, amount types.Money, metadata map[string]string) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(amount.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(g.cfg.ProductName),
					},
					UnitAmount: stripe.Int64(amount.Cents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyEvent checks the signature over the raw payload and converts the
// provider event into the module's Event type.
func (g *Gateway) VerifyEvent(payload []byte, sigHeader string) (Event, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, g.cfg.WebhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{Type: string(ev.Type)}
	if out.Type != EventTypeCheckoutCompleted {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return Event{}, fmt.Errorf("decode checkout session: %w", err)
	}
	out.SessionID = sess.ID
	out.AmountTotal = types.Money{Cents: sess.AmountTotal, Currency: string(sess.Currency)}
	out.PaymentStatus = string(sess.PaymentStatus)
	out.Metadata = sess.Metadata
	return out, nil
}
