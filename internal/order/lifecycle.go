package order

import (
	"errors"
	"fmt"
)

// The fulfillment chain. Transitions move exactly one step forward along it;
// cancelled is reachable from any non-terminal status. Fulfillment tooling
// outside this service drives the later steps and must pass the same checks.
var statusChain = []OrderStatus{
	StatusQuoteGenerated,
	StatusDepositPaid,
	StatusInProduction,
	StatusManufactured,
	StatusReadyForDelivery,
	StatusDelivered,
}

var statusRank = func() map[OrderStatus]int {
	ranks := make(map[OrderStatus]int, len(statusChain))
	for i, s := range statusChain {
		ranks[s] = i
	}
	return ranks
}()

var (
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrPaymentFlagInvariant    = errors.New("payment flags inconsistent with order status")
	ErrUnknownStatus           = errors.New("unknown order status")
)

// IsTerminal reports whether no further transitions are allowed.
func (os OrderStatus) IsTerminal() bool {
	return os == StatusDelivered || os == StatusCancelled
}

// IsValidStatus reports whether the value is one of the known statuses.
func IsValidStatus(status OrderStatus) bool {
	if status == StatusCancelled {
		return true
	}
	_, ok := statusRank[status]
	return ok
}

// CanCreateIn reports whether an order may be created directly in the given
// status: quote_generated for quotes awaiting payment, deposit_paid for the
// checkout flow where the deposit charge succeeds at creation.
func CanCreateIn(status OrderStatus) bool {
	return status == StatusQuoteGenerated || status == StatusDepositPaid
}

// ValidateTransition checks one status change. It rejects moves out of a
// terminal status, backward moves, and forward jumps of more than one step;
// cancellation is allowed from any non-terminal status.
func ValidateTransition(from, to OrderStatus) error {
	if from == to {
		return fmt.Errorf("%w: order is already %s", ErrInvalidStatusTransition, from)
	}

	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidStatusTransition, from)
	}

	if to == StatusCancelled {
		return nil
	}

	fromRank, ok := statusRank[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, from)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, to)
	}

	if toRank < fromRank {
		return fmt.Errorf("%w: cannot move backward from %s to %s", ErrInvalidStatusTransition, from, to)
	}
	if toRank != fromRank+1 {
		return fmt.Errorf("%w: cannot skip from %s to %s", ErrInvalidStatusTransition, from, to)
	}

	return nil
}

// ValidatePaymentFlags checks the payment flags against a status. A paid
// deposit requires the order to be past quote_generated; a paid balance
// requires ready_for_delivery or delivered. Cancelled orders keep whatever
// flags they had when cancelled.
func ValidatePaymentFlags(status OrderStatus, depositPaid, balancePaid bool) error {
	if status == StatusCancelled {
		return nil
	}

	if depositPaid && status == StatusQuoteGenerated {
		return fmt.Errorf("%w: deposit_paid=true is not allowed in %s", ErrPaymentFlagInvariant, status)
	}
	if !depositPaid && status != StatusQuoteGenerated {
		return fmt.Errorf("%w: status %s requires a paid deposit", ErrPaymentFlagInvariant, status)
	}
	if balancePaid && status != StatusReadyForDelivery && status != StatusDelivered {
		return fmt.Errorf("%w: balance_paid=true is not allowed in %s", ErrPaymentFlagInvariant, status)
	}

	return nil
}

// ValidateTotals checks the financial identity the order was created with.
func ValidateTotals(o *Order) error {
	if o.Subtotal != o.DepositAmount+o.RemainingBalance {
		return fmt.Errorf("order %s: subtotal %.2f != deposit %.2f + remaining %.2f",
			o.OrderNumber, o.Subtotal, o.DepositAmount, o.RemainingBalance)
	}
	return nil
}
