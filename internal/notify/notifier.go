// README: Operator notifications for confirmed bookings. Fire-and-forget:
// failures are logged and swallowed, never surfaced to the booking flow.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tempmotion/internal/modules/booking"
)

const sendTimeout = 15 * time.Second

// OperatorNotifier tells the operator about confirmed bookings by SMS and
// email. Either channel may be nil when unconfigured.
type OperatorNotifier struct {
	sms   SMSGateway
	email EmailSender
	phone string
	to    string
	log   *logrus.Logger
}

func NewOperatorNotifier(sms SMSGateway, email EmailSender, operatorPhone, operatorEmail string, log *logrus.Logger) *OperatorNotifier {
	return &OperatorNotifier{
		sms:   sms,
		email: email,
		phone: operatorPhone,
		to:    operatorEmail,
		log:   log,
	}
}

// BookingConfirmed sends the notifications in the background. The inbound
// request context is deliberately not reused: the webhook response must not
// wait on, or be cancelled together with, the sends.
func (n *OperatorNotifier) BookingConfirmed(_ context.Context, b *booking.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if n.sms != nil && n.phone != "" {
			if err := n.sms.Send(ctx, n.phone, smsBody(b)); err != nil {
				n.log.WithError(err).WithField("booking_id", b.ID).Warn("booking SMS failed")
			}
		}
		if n.email != nil && n.to != "" {
			if err := n.email.Send(ctx, n.to, "New booking confirmed", emailBody(b)); err != nil {
				n.log.WithError(err).WithField("booking_id", b.ID).Warn("booking email failed")
			}
		}
	}()
}

func smsBody(b *booking.Booking) string {
	name := "customer"
	if b.Name != nil {
		name = *b.Name
	}
	return fmt.Sprintf("New ride %s %s: %s -> %s (%s, %d pax)",
		b.RideDate, b.RideTime, b.Pickup, b.Dropoff, name, b.Passengers)
}

func emailBody(b *booking.Booking) string {
	var sb strings.Builder
	sb.WriteString("<h2>New booking</h2><ul>")
	if b.Name != nil {
		fmt.Fprintf(&sb, "<li>Name: %s</li>", *b.Name)
	}
	if b.Email != nil {
		fmt.Fprintf(&sb, "<li>Email: %s</li>", *b.Email)
	}
	if b.Phone != nil {
		fmt.Fprintf(&sb, "<li>Phone: %s</li>", *b.Phone)
	}
	fmt.Fprintf(&sb, "<li>Pickup: %s</li>", b.Pickup)
	if len(b.Stops) > 0 {
		fmt.Fprintf(&sb, "<li>Stops: %s</li>", strings.Join(b.Stops, " → "))
	}
	fmt.Fprintf(&sb, "<li>Dropoff: %s</li>", b.Dropoff)
	fmt.Fprintf(&sb, "<li>When: %s %s</li>", b.RideDate, b.RideTime)
	fmt.Fprintf(&sb, "<li>Passengers: %d</li>", b.Passengers)
	fmt.Fprintf(&sb, "<li>Price: %s</li>", b.Price.String())
	sb.WriteString("</ul>")
	return sb.String()
}
