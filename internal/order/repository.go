package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	// CreateOrderBundle writes the order, its items, the companion service
	// order, and the buyer notification as a single transaction. Either the
	// whole bundle becomes visible or nothing does.
	CreateOrderBundle(ctx context.Context, order *Order, serviceOrder *ServiceOrder, notification *Notification) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error
	SetBalancePaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateOrderBundle(ctx context.Context, orderInput *Order, serviceOrder *ServiceOrder, notification *Notification) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Str("order_number", orderInput.OrderNumber).Msg("Panic recovered during CreateOrderBundle, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_number", orderInput.OrderNumber).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Str("order_number", orderInput.OrderNumber).Msg("Transaction for CreateOrderBundle failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_number", orderInput.OrderNumber).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Stringer("order_id", orderInput.ID).Msg("Failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	now := time.Now().UTC()
	orderInput.CreatedAt = now
	orderInput.UpdatedAt = now

	queryOrder := `
		INSERT INTO orders (id, order_number, user_id, status, subtotal, deposit_amount, deposit_paid, deposit_paid_at,
		                    remaining_balance, balance_paid, balance_paid_at,
		                    shipping_name, shipping_phone, shipping_address, shipping_city, shipping_postal_code, shipping_country,
		                    notes, estimated_delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err = tx.Exec(ctx, queryOrder,
		orderInput.ID,
		orderInput.OrderNumber,
		orderInput.UserID,
		string(orderInput.Status),
		orderInput.Subtotal,
		orderInput.DepositAmount,
		orderInput.DepositPaid,
		orderInput.DepositPaidAt,
		orderInput.RemainingBalance,
		orderInput.BalancePaid,
		orderInput.BalancePaidAt,
		orderInput.ShippingName,
		orderInput.ShippingPhone,
		orderInput.ShippingAddress,
		orderInput.ShippingCity,
		orderInput.ShippingPostalCode,
		orderInput.ShippingCountry,
		orderInput.Notes,
		orderInput.EstimatedDeliveryDate,
		orderInput.CreatedAt,
		orderInput.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (id, order_id, product_id, is_custom, quantity, unit_price, total_price,
		                         custom_furniture_type, custom_wood_type_id, custom_finish_id,
		                         custom_length, custom_width, custom_height, custom_extras, custom_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	for i := range orderInput.Items {
		item := &orderInput.Items[i]
		item.OrderID = orderInput.ID
		item.CreatedAt = now

		var customType *string
		if item.CustomFurnitureType != nil {
			s := string(*item.CustomFurnitureType)
			customType = &s
		}

		_, err = tx.Exec(ctx, queryItem,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.IsCustom,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			customType,
			item.CustomWoodTypeID,
			item.CustomFinishID,
			item.CustomLength,
			item.CustomWidth,
			item.CustomHeight,
			item.CustomExtras,
			item.CustomNotes,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", orderInput.ID, err)
		}
	}

	specs, err := json.Marshal(serviceOrder.TechnicalSpecifications)
	if err != nil {
		return fmt.Errorf("repository: failed to encode technical specifications: %w", err)
	}

	serviceOrder.OrderID = orderInput.ID
	serviceOrder.CreatedAt = now
	serviceOrder.UpdatedAt = now

	queryServiceOrder := `
		INSERT INTO service_orders (id, service_order_number, order_id, customer_name, customer_phone, customer_email,
		                            technical_specifications, total_price, deposit_paid, remaining_balance,
		                            estimated_production_days, production_notes, qr_code_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.Exec(ctx, queryServiceOrder,
		serviceOrder.ID,
		serviceOrder.ServiceOrderNumber,
		serviceOrder.OrderID,
		serviceOrder.CustomerName,
		serviceOrder.CustomerPhone,
		serviceOrder.CustomerEmail,
		specs,
		serviceOrder.TotalPrice,
		serviceOrder.DepositPaid,
		serviceOrder.RemainingBalance,
		serviceOrder.EstimatedProductionDays,
		serviceOrder.ProductionNotes,
		serviceOrder.QRCodeData,
		serviceOrder.CreatedAt,
		serviceOrder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert service order for order %s: %w", orderInput.ID, err)
	}

	notification.OrderID = orderInput.ID
	notification.CreatedAt = now

	queryNotification := `
		INSERT INTO notifications (id, user_id, order_id, type, title, message, is_read, would_send_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, queryNotification,
		notification.ID,
		notification.UserID,
		notification.OrderID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.IsRead,
		notification.WouldSendEmail,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert notification for order %s: %w", orderInput.ID, err)
	}

	return nil
}

func (r *postgresRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, order_number, user_id, status, subtotal, deposit_amount, deposit_paid, deposit_paid_at,
		       remaining_balance, balance_paid, balance_paid_at,
		       shipping_name, shipping_phone, shipping_address, shipping_city, shipping_postal_code, shipping_country,
		       notes, estimated_delivery_date, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, queryOrder, orderID).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.DepositAmount, &o.DepositPaid, &o.DepositPaidAt,
		&o.RemainingBalance, &o.BalancePaid, &o.BalancePaidAt,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.ShippingCity, &o.ShippingPostalCode, &o.ShippingCountry,
		&o.Notes, &o.EstimatedDeliveryDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{orderID})
	if err != nil {
		return nil, err
	}
	o.Items = items[orderID]
	if o.Items == nil {
		o.Items = make([]OrderItem, 0)
	}

	serviceOrder, err := r.loadServiceOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.ServiceOrder = serviceOrder

	return &o, nil
}

func (r *postgresRepository) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	query := `
		SELECT id, order_number, user_id, status, subtotal, deposit_amount, deposit_paid, deposit_paid_at,
		       remaining_balance, balance_paid, balance_paid_at,
		       shipping_name, shipping_phone, shipping_address, shipping_city, shipping_postal_code, shipping_country,
		       notes, estimated_delivery_date, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user id %s: %w", userID, err)
	}
	defer rows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.DepositAmount, &o.DepositPaid, &o.DepositPaidAt,
			&o.RemainingBalance, &o.BalancePaid, &o.BalancePaidAt,
			&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.ShippingCity, &o.ShippingPostalCode, &o.ShippingCountry,
			&o.Notes, &o.EstimatedDeliveryDate, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user id %s: %w", userID, err)
		}
		o.Items = make([]OrderItem, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for user id %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsByOrder, err := r.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for orderID, items := range itemsByOrder {
		if o, ok := ordersMap[orderID]; ok {
			o.Items = items
		}
	}

	resultOrders := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		if o, ok := ordersMap[id]; ok {
			resultOrders = append(resultOrders, *o)
		}
	}

	return resultOrders, nil
}

func (r *postgresRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, string(newStatus), time.Now().UTC(), orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Str("new_status", string(newStatus)).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.Warn().Stringer("order_id", orderID).Str("new_status", string(newStatus)).Msg("repository: order not found for status update")
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) SetBalancePaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) error {
	query := `
		UPDATE orders
		SET balance_paid = true, balance_paid_at = $1, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, paidAt, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to mark balance paid for order %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, is_custom, quantity, unit_price, total_price,
		       custom_furniture_type, custom_wood_type_id, custom_finish_id,
		       custom_length, custom_width, custom_height, custom_extras, custom_notes, created_at
		FROM order_items
		WHERE order_id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[uuid.UUID][]OrderItem)
	for rows.Next() {
		var item OrderItem
		var customType *string
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.IsCustom, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&customType, &item.CustomWoodTypeID, &item.CustomFinishID,
			&item.CustomLength, &item.CustomWidth, &item.CustomHeight, &item.CustomExtras, &item.CustomNotes, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if customType != nil {
			ft := catalog.FurnitureType(*customType)
			item.CustomFurnitureType = &ft
		}
		if item.CustomExtras == nil {
			item.CustomExtras = make([]uuid.UUID, 0)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return itemsByOrder, nil
}

func (r *postgresRepository) loadServiceOrder(ctx context.Context, orderID uuid.UUID) (*ServiceOrder, error) {
	query := `
		SELECT id, service_order_number, order_id, customer_name, customer_phone, customer_email,
		       technical_specifications, total_price, deposit_paid, remaining_balance,
		       estimated_production_days, production_notes, qr_code_data, created_at, updated_at
		FROM service_orders
		WHERE order_id = $1
	`

	var so ServiceOrder
	var specs []byte
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&so.ID, &so.ServiceOrderNumber, &so.OrderID, &so.CustomerName, &so.CustomerPhone, &so.CustomerEmail,
		&specs, &so.TotalPrice, &so.DepositPaid, &so.RemainingBalance,
		&so.EstimatedProductionDays, &so.ProductionNotes, &so.QRCodeData, &so.CreatedAt, &so.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select service order for order %s: %w", orderID, err)
	}

	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &so.TechnicalSpecifications); err != nil {
			return nil, fmt.Errorf("repository: failed to decode technical specifications for order %s: %w", orderID, err)
		}
	}

	return &so, nil
}
