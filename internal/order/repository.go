package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/payment"
	"storefront-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Repository interface {
	// Create inserts the order and its items in one transaction. The database
	// assigns ID and CreatedAt.
	// A taken order number yields ErrDuplicateOrderNumber.
	Create(ctx context.Context, o *Order) error
	// FindByNumber returns nil, nil when no order has that number.
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_number", o.OrderNumber),
	)

	customer, err := json.Marshal(o.CustomerInfo)
	if err != nil {
		return fmt.Errorf("marshal customer info: %w", err)
	}
	paymentInfo, err := json.Marshal(o.PaymentInfo)
	if err != nil {
		return fmt.Errorf("marshal payment info: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_number, status, customer_info, payment_info, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		o.OrderNumber,
		string(o.Status),
		customer,
		paymentInfo,
		o.Total,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Warn("order number already taken")
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, variant_id, quantity, price,
				product_name, product_image, selected_size, selected_color
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			o.ID,
			it.ProductID,
			it.VariantID,
			it.Quantity,
			it.Price,
			utils.NullIfEmpty(it.ProductName),
			utils.NullIfEmpty(it.ProductImage),
			utils.NullIfEmpty(it.SelectedSize),
			utils.NullIfEmpty(it.SelectedColor),
		)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	log.Info("order persisted", zap.Int("items", len(o.Items)))
	return nil
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var (
		o           Order
		status      string
		customer    []byte
		paymentInfo []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_number, status, customer_info, payment_info, total, created_at
		FROM orders
		WHERE order_number = $1
	`, orderNumber).Scan(&o.ID, &o.OrderNumber, &status, &customer, &paymentInfo, &o.Total, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	o.Status = payment.Status(status)
	if err := json.Unmarshal(customer, &o.CustomerInfo); err != nil {
		return nil, fmt.Errorf("decode customer info: %w", err)
	}
	if err := json.Unmarshal(paymentInfo, &o.PaymentInfo); err != nil {
		return nil, fmt.Errorf("decode payment info: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, variant_id, quantity, price,
		       product_name, product_image, selected_size, selected_color
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var (
			it                       Item
			name, image, size, color sql.NullString
		)
		if err := rows.Scan(&it.ProductID, &it.VariantID, &it.Quantity, &it.Price, &name, &image, &size, &color); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.ProductName = name.String
		it.ProductImage = image.String
		it.SelectedSize = size.String
		it.SelectedColor = color.String
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return &o, nil
}
