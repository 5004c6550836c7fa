package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Each transition kind owns its payload shape and required-field set. The
// payload serializes into the history entry's details column as JSON with a
// "kind" discriminator, so readers never guess the shape from which keys
// happen to be present.
type PayloadKind string

const (
	PayloadKindComment       PayloadKind = "comment"
	PayloadKindOrderPrepared PayloadKind = "order_prepared"
	PayloadKindDelivery      PayloadKind = "delivery"
	PayloadKindCompletion    PayloadKind = "completion"
	PayloadKindCancellation  PayloadKind = "cancellation"
)

type Payload interface {
	Kind() PayloadKind
	Validate() error
}

// CommentPayload carries free-form remarks on a transition.
type CommentPayload struct {
	Comments string `json:"comments"`
}

func (p CommentPayload) Kind() PayloadKind { return PayloadKindComment }
func (p CommentPayload) Validate() error   { return nil }

// OrderPreparedPayload records what was picked and packed.
type OrderPreparedPayload struct {
	ProcessDetails string `json:"process_details"`
}

func (p OrderPreparedPayload) Kind() PayloadKind { return PayloadKindOrderPrepared }
func (p OrderPreparedPayload) Validate() error   { return nil }

type DeliveryLeg string

const (
	DeliveryLegHospital DeliveryLeg = "hospital"
	DeliveryLegOffice   DeliveryLeg = "office"
)

// DeliveryPayload records the handover details for either delivery leg.
type DeliveryPayload struct {
	Leg     DeliveryLeg `json:"leg"`
	Details string      `json:"details"`
}

func (p DeliveryPayload) Kind() PayloadKind { return PayloadKindDelivery }

func (p DeliveryPayload) Validate() error {
	if p.Leg != DeliveryLegHospital && p.Leg != DeliveryLegOffice {
		return ErrMissingRequiredField.WithDetails("delivery leg must be hospital or office")
	}
	return nil
}

// CompletionPayload is mandatory when a case moves to Case Completed.
type CompletionPayload struct {
	OrderSummary string `json:"order_summary"`
	DONumber     string `json:"do_number"`
}

func (p CompletionPayload) Kind() PayloadKind { return PayloadKindCompletion }

func (p CompletionPayload) Validate() error {
	if strings.TrimSpace(p.OrderSummary) == "" {
		return ErrMissingRequiredField.WithDetails("order summary is required to complete a case")
	}
	if strings.TrimSpace(p.DONumber) == "" {
		return ErrMissingRequiredField.WithDetails("delivery order number is required to complete a case")
	}
	return nil
}

// CancellationPayload is mandatory when a case moves to Case Cancelled.
type CancellationPayload struct {
	Reason string `json:"reason"`
}

func (p CancellationPayload) Kind() PayloadKind { return PayloadKindCancellation }

func (p CancellationPayload) Validate() error {
	if strings.TrimSpace(p.Reason) == "" {
		return ErrMissingRequiredField.WithDetails("cancellation reason is required")
	}
	return nil
}

// requiredPayloadKinds maps target statuses to the payload kind they demand.
// Statuses absent from the map accept any payload, or none.
var requiredPayloadKinds = map[Status]PayloadKind{
	StatusCaseCompleted: PayloadKindCompletion,
	StatusCaseCancelled: PayloadKindCancellation,
}

func validatePayloadFor(target Status, p Payload) error {
	required, ok := requiredPayloadKinds[target]
	if ok {
		if p == nil {
			return ErrMissingRequiredField.WithDetails(fmt.Sprintf("status %q requires a %s payload", target, required))
		}
		if p.Kind() != required {
			return ErrMissingRequiredField.WithDetails(fmt.Sprintf("status %q requires a %s payload, got %s", target, required, p.Kind()))
		}
	}
	if p == nil {
		return nil
	}
	return p.Validate()
}

type detailsEnvelope struct {
	Kind    PayloadKind     `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeDetails serializes a payload for the history entry's details column.
func EncodeDetails(p Payload) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(detailsEnvelope{Kind: p.Kind(), Payload: body})
}

// DecodeDetails deserializes a details column back into its typed payload.
func DecodeDetails(raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var envelope detailsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	var p Payload
	switch envelope.Kind {
	case PayloadKindComment:
		p = &CommentPayload{}
	case PayloadKindOrderPrepared:
		p = &OrderPreparedPayload{}
	case PayloadKindDelivery:
		p = &DeliveryPayload{}
	case PayloadKindCompletion:
		p = &CompletionPayload{}
	case PayloadKindCancellation:
		p = &CancellationPayload{}
	default:
		return nil, fmt.Errorf("unknown payload kind: %q", envelope.Kind)
	}
	if err := json.Unmarshal(envelope.Payload, p); err != nil {
		return nil, err
	}
	return p, nil
}
