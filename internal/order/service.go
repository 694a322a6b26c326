package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/cart"
	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/messaging"
)

const (
	estimatedDeliveryDays   = 28
	estimatedProductionDays = 21
	depositShare            = 0.5
	defaultShippingCountry  = "Portugal"
)

var (
	ErrEmptyCart         = errors.New("cart must contain at least one item")
	ErrItemPriceMismatch = errors.New("cart item prices are inconsistent")
)

type ShippingDetails struct {
	Name       string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// CheckoutInput is the snapshot Order Assembly works from: the cart's items
// at the moment the simulated deposit charge succeeded, plus shipping and
// buyer contact.
type CheckoutInput struct {
	UserID        uuid.UUID
	Items         []cart.Item
	Shipping      ShippingDetails
	CustomerEmail string
	Notes         string
}

// OrderConfirmedEvent is published after a checkout commits.
type OrderConfirmedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        uuid.UUID `json:"user_id"`
	Subtotal      float64   `json:"subtotal"`
	DepositAmount float64   `json:"deposit_amount"`
}

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error
	MarkBalancePaid(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	orderRepo   Repository
	publisher   messaging.Publisher
	ordersTopic string
	now         func() time.Time
}

func NewService(orderRepo Repository, publisher messaging.Publisher, ordersTopic string) Service {
	return &service{
		orderRepo:   orderRepo,
		publisher:   publisher,
		ordersTopic: ordersTopic,
		now:         time.Now,
	}
}

// Checkout assembles and persists the whole order bundle: the order in
// deposit_paid with its payment split, one frozen item per cart line, the
// companion service order, and the buyer's confirmation notification. The
// repository writes all of it in one transaction; callers keep the cart
// intact on failure so the buyer can retry.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*Order, error) {
	if len(input.Items) == 0 {
		log.Warn().Stringer("user_id", input.UserID).Msg("service: attempt to checkout with empty cart")
		return nil, ErrEmptyCart
	}

	subtotal := 0.0
	for i := range input.Items {
		item := &input.Items[i]
		if item.TotalPrice != item.UnitPrice*float64(item.Quantity) {
			return nil, fmt.Errorf("%w: item %s total %.2f != unit %.2f x %d",
				ErrItemPriceMismatch, item.ID, item.TotalPrice, item.UnitPrice, item.Quantity)
		}
		subtotal += item.TotalPrice
	}
	depositAmount := subtotal * depositShare
	remainingBalance := subtotal - depositAmount

	now := s.now().UTC()
	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate order id: %w", err)
	}

	shipping := input.Shipping
	if shipping.Country == "" {
		shipping.Country = defaultShippingCountry
	}

	depositPaidAt := now
	estimatedDelivery := now.AddDate(0, 0, estimatedDeliveryDays)

	newOrder := &Order{
		ID:                    orderID,
		OrderNumber:           fmt.Sprintf("WC-%d", now.UnixMilli()),
		UserID:                input.UserID,
		Status:                StatusDepositPaid,
		Subtotal:              subtotal,
		DepositAmount:         depositAmount,
		DepositPaid:           true,
		DepositPaidAt:         &depositPaidAt,
		RemainingBalance:      remainingBalance,
		BalancePaid:           false,
		ShippingName:          shipping.Name,
		ShippingPhone:         shipping.Phone,
		ShippingAddress:       shipping.Address,
		ShippingCity:          shipping.City,
		ShippingPostalCode:    shipping.PostalCode,
		ShippingCountry:       shipping.Country,
		Notes:                 input.Notes,
		EstimatedDeliveryDate: &estimatedDelivery,
	}

	if !CanCreateIn(newOrder.Status) {
		return nil, fmt.Errorf("%w: orders cannot be created in %s", ErrInvalidStatusTransition, newOrder.Status)
	}
	if err := ValidatePaymentFlags(newOrder.Status, newOrder.DepositPaid, newOrder.BalancePaid); err != nil {
		return nil, err
	}
	if err := ValidateTotals(newOrder); err != nil {
		return nil, err
	}

	items, specLines, err := buildOrderItems(orderID, input.Items)
	if err != nil {
		return nil, err
	}
	newOrder.Items = items

	serviceOrderID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate service order id: %w", err)
	}
	serviceOrder := &ServiceOrder{
		ID:                      serviceOrderID,
		ServiceOrderNumber:      fmt.Sprintf("SO-%d", now.UnixMilli()),
		OrderID:                 orderID,
		CustomerName:            shipping.Name,
		CustomerPhone:           shipping.Phone,
		CustomerEmail:           input.CustomerEmail,
		TechnicalSpecifications: TechnicalSpecifications{Items: specLines},
		TotalPrice:              subtotal,
		DepositPaid:             depositAmount,
		RemainingBalance:        remainingBalance,
		EstimatedProductionDays: estimatedProductionDays,
		QRCodeData:              newOrder.OrderNumber,
	}

	notificationID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate notification id: %w", err)
	}
	notification := &Notification{
		ID:      notificationID,
		UserID:  input.UserID,
		OrderID: orderID,
		Type:    "order_confirmed",
		Title:   "Pedido Confirmado",
		Message: fmt.Sprintf("Tu pedido %s ha sido confirmado. Anticipo de €%.0f recibido. La producción comenzará en breve.",
			newOrder.OrderNumber, depositAmount),
		WouldSendEmail: true,
	}

	if err := s.orderRepo.CreateOrderBundle(ctx, newOrder, serviceOrder, notification); err != nil {
		log.Error().Err(err).Stringer("user_id", input.UserID).Msg("service: failed to create order bundle")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}
	newOrder.ServiceOrder = serviceOrder

	event := OrderConfirmedEvent{
		OrderID:       newOrder.ID,
		OrderNumber:   newOrder.OrderNumber,
		UserID:        newOrder.UserID,
		Subtotal:      newOrder.Subtotal,
		DepositAmount: newOrder.DepositAmount,
	}
	if err := s.publisher.PublishEvent(ctx, s.ordersTopic, newOrder.ID.String(), event); err != nil {
		log.Warn().Err(err).Stringer("order_id", newOrder.ID).Msg("service: failed to publish order confirmed event")
	}

	log.Info().Stringer("order_id", newOrder.ID).Str("order_number", newOrder.OrderNumber).Stringer("user_id", input.UserID).Msg("service: order created successfully")

	return newOrder, nil
}

func buildOrderItems(orderID uuid.UUID, cartItems []cart.Item) ([]OrderItem, []SpecLine, error) {
	items := make([]OrderItem, 0, len(cartItems))
	specLines := make([]SpecLine, 0, len(cartItems))

	for _, cartItem := range cartItems {
		itemID, err := uuid.NewV4()
		if err != nil {
			return nil, nil, fmt.Errorf("service: failed to generate order item id: %w", err)
		}

		switch cartItem.Type {
		case cart.ItemStandard:
			if cartItem.Product == nil {
				return nil, nil, fmt.Errorf("service: standard cart item %s has no product", cartItem.ID)
			}
			productID := cartItem.Product.ID
			items = append(items, OrderItem{
				ID:           itemID,
				OrderID:      orderID,
				ProductID:    &productID,
				IsCustom:     false,
				Quantity:     cartItem.Quantity,
				UnitPrice:    cartItem.UnitPrice,
				TotalPrice:   cartItem.TotalPrice,
				CustomExtras: make([]uuid.UUID, 0),
			})
			specLines = append(specLines, SpecLine{
				Type:      string(cart.ItemStandard),
				Name:      cartItem.Product.Name,
				Quantity:  cartItem.Quantity,
				UnitPrice: cartItem.UnitPrice,
			})
		case cart.ItemCustom:
			if cartItem.CustomConfig == nil {
				return nil, nil, fmt.Errorf("service: custom cart item %s has no configuration", cartItem.ID)
			}
			config := cartItem.CustomConfig
			furnitureType := config.FurnitureType
			woodTypeID := config.WoodType.ID
			finishID := config.Finish.ID
			length := config.Length
			width := config.Width
			height := config.Height

			extraIDs := make([]uuid.UUID, 0, len(config.Extras))
			for _, extra := range config.Extras {
				extraIDs = append(extraIDs, extra.ID)
			}

			items = append(items, OrderItem{
				ID:                  itemID,
				OrderID:             orderID,
				IsCustom:            true,
				Quantity:            1,
				UnitPrice:           cartItem.UnitPrice,
				TotalPrice:          cartItem.TotalPrice,
				CustomFurnitureType: &furnitureType,
				CustomWoodTypeID:    &woodTypeID,
				CustomFinishID:      &finishID,
				CustomLength:        &length,
				CustomWidth:         &width,
				CustomHeight:        &height,
				CustomExtras:        extraIDs,
				CustomNotes:         config.Notes,
			})
			specLines = append(specLines, SpecLine{
				Type:      string(cart.ItemCustom),
				Name:      catalog.FurnitureTypeLabels[config.FurnitureType],
				Quantity:  1,
				UnitPrice: cartItem.UnitPrice,
			})
		default:
			return nil, nil, fmt.Errorf("service: unknown cart item type %q for item %s", cartItem.Type, cartItem.ID)
		}
	}

	return items, specLines, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Err(err).Stringer("order_id", id).Msg("service: order not found by id")
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return o, nil
}

func (s *service) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch user orders in repository")
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus applies one fulfillment transition after running it
// through the lifecycle rules and the payment-flag invariants. Violations
// come back as descriptive errors and nothing is written.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error {
	currentOrder, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: order not found, cannot update status")
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to get order for status update")
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if currentOrder.Status == newStatus {
		log.Info().Stringer("order_id", orderID).Stringer("status", newStatus).Msg("service: order status is already the same, no update needed")
		return nil
	}

	if err := ValidateTransition(currentOrder.Status, newStatus); err != nil {
		log.Warn().
			Stringer("order_id", currentOrder.ID).
			Stringer("current_status", currentOrder.Status).
			Stringer("new_status", newStatus).
			Msg("service: invalid status transition attempt")
		return err
	}

	if err := ValidatePaymentFlags(newStatus, currentOrder.DepositPaid, currentOrder.BalancePaid); err != nil {
		log.Warn().
			Stringer("order_id", currentOrder.ID).
			Stringer("new_status", newStatus).
			Bool("deposit_paid", currentOrder.DepositPaid).
			Bool("balance_paid", currentOrder.BalancePaid).
			Msg("service: status change would violate payment flag invariants")
		return err
	}

	err = s.orderRepo.UpdateOrderStatus(ctx, orderID, newStatus)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: failed to update order status in repository")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("old_status", currentOrder.Status).Stringer("new_status", newStatus).Msg("service: order status updated successfully")
	return nil
}

// MarkBalancePaid records the balance payment. The balance is only payable
// once the order is ready for delivery or delivered.
func (s *service) MarkBalancePaid(ctx context.Context, orderID uuid.UUID) error {
	currentOrder, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for balance payment: %w", err)
	}

	if currentOrder.BalancePaid {
		log.Info().Stringer("order_id", orderID).Msg("service: balance already paid, no update needed")
		return nil
	}

	if err := ValidatePaymentFlags(currentOrder.Status, currentOrder.DepositPaid, true); err != nil {
		log.Warn().Stringer("order_id", orderID).Stringer("status", currentOrder.Status).Msg("service: balance payment rejected by payment flag invariants")
		return err
	}

	if err := s.orderRepo.SetBalancePaid(ctx, orderID, s.now().UTC()); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to mark balance paid: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Msg("service: balance marked paid")
	return nil
}
