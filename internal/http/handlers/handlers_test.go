package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmotion/internal/maps"
	"tempmotion/internal/modules/booking"
	"tempmotion/internal/modules/payment"
	"tempmotion/internal/modules/quote"
	"tempmotion/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubQuotes struct {
	q   *quote.Quote
	err error
	got quote.Request
}

func (s *stubQuotes) Quote(_ context.Context, req quote.Request) (*quote.Quote, error) {
	s.got = req
	return s.q, s.err
}

type stubSlots struct {
	bookable bool
	blocked  []string
	err      error
}

func (s *stubSlots) SlotBookable(context.Context, string, string) (bool, error) {
	return s.bookable, s.err
}

func (s *stubSlots) BlockedTimes(context.Context, string) ([]string, error) {
	return s.blocked, s.err
}

type stubBookings struct {
	id  string
	err error
	got booking.BuildCommand
}

func (s *stubBookings) Create(_ context.Context, cmd booking.BuildCommand) (string, error) {
	s.got = cmd
	return s.id, s.err
}

type stubPayments struct {
	session payment.CheckoutSession
	outcome payment.Outcome
	err     error
	sig     string
	payload []byte
}

func (s *stubPayments) CreateCheckout(context.Context, payment.CheckoutCommand) (payment.CheckoutSession, error) {
	return s.session, s.err
}

func (s *stubPayments) HandleEvent(_ context.Context, payload []byte, sigHeader string) (payment.Outcome, error) {
	s.payload = payload
	s.sig = sigHeader
	return s.outcome, s.err
}

type stubPlaces struct {
	preds []maps.Prediction
	err   error
}

func (s *stubPlaces) Autocomplete(context.Context, string) ([]maps.Prediction, error) {
	return s.preds, s.err
}

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQuoteHandler(t *testing.T) {
	loc := chicago(t)
	quoted := &quote.Quote{
		TravelSeconds:   3900,
		BillableSeconds: 3900,
		Price:           types.USD(4333),
		MinimumCharge:   types.USD(1000),
	}

	tests := []struct {
		name       string
		quotes     *stubQuotes
		slots      *stubSlots
		body       any
		wantStatus int
	}{
		{
			name:       "prices a valid request",
			quotes:     &stubQuotes{q: quoted},
			slots:      &stubSlots{bookable: true},
			body:       gin.H{"pickup": "A", "dropoff": "B", "rideDate": "2026-01-20", "rideTime": "14:00"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejects an unavailable slot",
			quotes:     &stubQuotes{q: quoted},
			slots:      &stubSlots{bookable: false},
			body:       gin.H{"pickup": "A", "dropoff": "B", "rideDate": "2026-01-20", "rideTime": "14:00"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "maps missing address to 400",
			quotes:     &stubQuotes{err: quote.ErrMissingAddress},
			slots:      &stubSlots{bookable: true},
			body:       gin.H{"pickup": "", "dropoff": "B"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "maps route failure to 502",
			quotes:     &stubQuotes{err: fmt.Errorf("%w: timeout", quote.ErrRouteUnavailable)},
			slots:      &stubSlots{bookable: true},
			body:       gin.H{"pickup": "A", "dropoff": "B"},
			wantStatus: http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/quote", NewQuoteHandler(tt.quotes, tt.slots, loc).Create)

			w := doJSON(t, r, http.MethodPost, "/api/quote", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp quoteResp
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, int64(3900), resp.RouteSeconds)
				assert.Equal(t, 43.33, resp.Price)
				assert.Equal(t, 10.0, resp.MinimumCharge)
			}
		})
	}
}

func TestQuoteHandlerPassesDepartureInstant(t *testing.T) {
	loc := chicago(t)
	quotes := &stubQuotes{q: &quote.Quote{Price: types.USD(1000), MinimumCharge: types.USD(1000)}}
	r := gin.New()
	r.POST("/api/quote", NewQuoteHandler(quotes, &stubSlots{bookable: true}, loc).Create)

	w := doJSON(t, r, http.MethodPost, "/api/quote", gin.H{
		"pickup": "A", "dropoff": "B", "rideDate": "2026-01-20", "rideTime": "14:30",
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, quotes.got.DepartAt)
	want := time.Date(2026, 1, 20, 14, 30, 0, 0, loc)
	assert.True(t, quotes.got.DepartAt.Equal(want))
}

func TestBookingHandler(t *testing.T) {
	body := gin.H{
		"name": "Ada", "pickup": "A", "dropoff": "B",
		"rideDate": "2026-01-20", "rideTime": "14:00", "price": 43.33,
	}

	t.Run("creates a booking", func(t *testing.T) {
		bookings := &stubBookings{id: "bk_1"}
		r := gin.New()
		r.POST("/api/bookings", NewBookingHandler(bookings, &stubSlots{bookable: true}).Create)

		w := doJSON(t, r, http.MethodPost, "/api/bookings", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "bk_1", resp["id"])
		assert.Equal(t, int64(4333), bookings.got.Price.Cents)
	})

	t.Run("rejects an unavailable slot without persisting", func(t *testing.T) {
		bookings := &stubBookings{id: "bk_1"}
		r := gin.New()
		r.POST("/api/bookings", NewBookingHandler(bookings, &stubSlots{bookable: false}).Create)

		w := doJSON(t, r, http.MethodPost, "/api/bookings", body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, bookings.got.Pickup)
	})

	t.Run("maps missing address to 400", func(t *testing.T) {
		bookings := &stubBookings{err: booking.ErrMissingAddress}
		r := gin.New()
		r.POST("/api/bookings", NewBookingHandler(bookings, &stubSlots{bookable: true}).Create)

		w := doJSON(t, r, http.MethodPost, "/api/bookings", gin.H{"pickup": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutHandler(t *testing.T) {
	loc := chicago(t)
	body := gin.H{
		"name": "Ada", "email": "ada@example.com", "pickup": "A", "dropoff": "B",
		"rideDate": "2026-01-20", "rideTime": "14:00",
	}

	t.Run("returns the session url", func(t *testing.T) {
		payments := &stubPayments{session: payment.CheckoutSession{ID: "cs_1", URL: "https://stripe.test/cs_1"}}
		r := gin.New()
		r.POST("/api/checkout", NewPaymentHandler(payments, &stubSlots{bookable: true}, loc, logrus.New()).CreateCheckout)

		w := doJSON(t, r, http.MethodPost, "/api/checkout", body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "https://stripe.test/cs_1", resp["url"])
	})

	t.Run("rejects an unavailable slot before charging", func(t *testing.T) {
		payments := &stubPayments{}
		r := gin.New()
		r.POST("/api/checkout", NewPaymentHandler(payments, &stubSlots{bookable: false}, loc, logrus.New()).CreateCheckout)

		w := doJSON(t, r, http.MethodPost, "/api/checkout", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestWebhookHandler(t *testing.T) {
	loc := chicago(t)

	tests := []struct {
		name       string
		payments   *stubPayments
		wantStatus int
	}{
		{
			name:       "acknowledges a processed event",
			payments:   &stubPayments{outcome: payment.OutcomeFinalized},
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejects a bad signature",
			payments:   &stubPayments{err: fmt.Errorf("%w: mismatch", payment.ErrInvalidSignature)},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "returns 5xx when persistence fails so the event is redelivered",
			payments:   &stubPayments{err: errors.New("db down")},
			wantStatus: http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/stripe-webhook", NewPaymentHandler(tt.payments, nil, loc, logrus.New()).Webhook)

			req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", bytes.NewReader([]byte(`{"id":"evt_1"}`)))
			req.Header.Set("Stripe-Signature", "t=1,v1=abc")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "t=1,v1=abc", tt.payments.sig)
				assert.Equal(t, []byte(`{"id":"evt_1"}`), tt.payments.payload)
				assert.Contains(t, w.Body.String(), `"received":true`)
			}
		})
	}
}

func TestBlockedHandler(t *testing.T) {
	t.Run("lists blocked times", func(t *testing.T) {
		r := gin.New()
		r.GET("/api/blocked", NewAvailabilityHandler(&stubSlots{blocked: []string{"09:00", "14:30"}}).Blocked)

		w := doJSON(t, r, http.MethodGet, "/api/blocked?rideDate=2026-01-20", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"blocked":["09:00","14:30"]}`, w.Body.String())
	})

	t.Run("empty date means nothing blocked", func(t *testing.T) {
		r := gin.New()
		r.GET("/api/blocked", NewAvailabilityHandler(&stubSlots{blocked: []string{"09:00"}}).Blocked)

		w := doJSON(t, r, http.MethodGet, "/api/blocked", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"blocked":[]}`, w.Body.String())
	})
}

func TestPlacesHandler(t *testing.T) {
	t.Run("returns predictions", func(t *testing.T) {
		r := gin.New()
		r.GET("/api/places", NewPlacesHandler(&stubPlaces{preds: []maps.Prediction{
			{Description: "Union Station, Chicago", PlaceID: "pl_1"},
		}}).Autocomplete)

		w := doJSON(t, r, http.MethodGet, "/api/places?input=union", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Union Station")
	})

	t.Run("maps provider failure to 502", func(t *testing.T) {
		r := gin.New()
		r.GET("/api/places", NewPlacesHandler(&stubPlaces{err: errors.New("quota")}).Autocomplete)

		w := doJSON(t, r, http.MethodGet, "/api/places?input=union", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
