package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"storefront-core/internal/domain/payment"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/shared"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var errInvalidAmount = errs.New("payment amount must be positive")

// IntentClient is the part of the Stripe payment intents API in use.
type IntentClient interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeGateway struct {
	intents IntentClient
}

func NewStripeClient(cfg config.GatewayConfig) IntentClient {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return sc.PaymentIntents
}

func NewStripeGateway(intents IntentClient) *StripeGateway {
	return &StripeGateway{intents: intents}
}

// CreatePaymentIntent charges amount in the currency's minor unit.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (payment.Intent, error) {
	minor := ToMinorUnits(amount)
	if minor <= 0 {
		return payment.Intent{}, errInvalidAmount
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minor),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		return payment.Intent{}, errs.Wrap(err, "stripe: create payment intent")
	}
	return toIntent(pi), nil
}

// ConfirmPaymentIntent reads the intent back; confirmation itself happens on
// the client with the secret.
func (g *StripeGateway) ConfirmPaymentIntent(ctx context.Context, intentID string) (payment.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(intentID, params)
	if err != nil {
		return payment.Intent{}, errs.Wrapf(err, "stripe: get payment intent %s", intentID)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) payment.Intent {
	return payment.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       payment.IntentStatus(pi.Status),
	}
}

func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(cfg config.GatewayConfig) *WebhookVerifier {
	return &WebhookVerifier{secret: cfg.WebhookSecret}
}

// ParseEvent checks the Stripe-Signature header and decodes payment intent
// events. Other event types come back with only Type set.
func (v *WebhookVerifier) ParseEvent(payload []byte, signature string) (shared.GatewayEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return shared.GatewayEvent{}, errs.Wrap(err, "stripe: verify webhook")
	}

	out := shared.GatewayEvent{Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "payment_intent.") || event.Data == nil {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return shared.GatewayEvent{}, errs.Wrap(err, "stripe: decode payment intent")
	}
	out.IntentID = pi.ID
	out.Metadata = pi.Metadata
	return out, nil
}
