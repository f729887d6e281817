package order

import "fmt"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

var orderTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusReturned},
}

func (s Status) CanTransitionTo(next Status) bool {
	return allowed(orderTransitions, s, next)
}

func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentPaid:    {PaymentRefunded, PaymentPartiallyRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return allowed(paymentTransitions, s, next)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}

type RefundStatus string

const (
	RefundNone       RefundStatus = "none"
	RefundRequested  RefundStatus = "requested"
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
	RefundRejected   RefundStatus = "rejected"
)

var refundTransitions = map[RefundStatus][]RefundStatus{
	RefundNone:       {RefundRequested},
	RefundRequested:  {RefundProcessing},
	RefundProcessing: {RefundCompleted, RefundRejected},
}

func (s RefundStatus) CanTransitionTo(next RefundStatus) bool {
	return allowed(refundTransitions, s, next)
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IllegalTransitionError is returned when a status change is not permitted by
// its state machine.
type IllegalTransitionError struct {
	Machine string
	From    string
	To      string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition from %q to %q", e.Machine, e.From, e.To)
}
