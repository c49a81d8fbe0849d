package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-be/internal/payment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *Order {
	return &Order{
		ID:          uuid.MustParse("6f1c4a36-1d1b-4b59-9d3e-0a8c8b6a2f10"),
		OrderNumber: "ORD-123456-007",
		Status:      payment.StatusDeclined,
		CustomerInfo: CustomerInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+1 555 123 4567",
			Address:  "1 Main St",
			City:     "Springfield",
			State:    "IL",
			ZipCode:  "62704",
		},
		PaymentInfo: payment.Summary{MaskedCardNumber: "**** **** **** 2", CardLast4: "2", ExpiryDate: "12/30"},
		Items: []Item{
			{ProductID: "1", VariantID: "1-M-Red", Quantity: 2, Price: decimal.RequireFromString("21.25"), ProductName: "Mascara", SelectedSize: "M", SelectedColor: "Red"},
		},
		Total: decimal.RequireFromString("42.50"),
	}
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o := sampleOrder()
		o.ID = uuid.Nil
		assignedID := uuid.MustParse("0b7e2d4c-8a51-4f6e-9c3a-5d2f1e8b7a60")
		createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders \(order_number, status, customer_info, payment_info, total\)`).
			WithArgs(o.OrderNumber, "declined", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(assignedID.String(), createdAt))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs(assignedID, "1", "1-M-Red", 2, sqlmock.AnyArg(), sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = repo.Create(ctx, o)

		require.NoError(t, err)
		assert.Equal(t, assignedID, o.ID)
		assert.Equal(t, createdAt, o.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateOrderNumber", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_order_number_key"})
		mock.ExpectRollback()

		err = repo.Create(ctx, sampleOrder())

		assert.ErrorIs(t, err, ErrDuplicateOrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ItemInsertFails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), time.Now()))
		mock.ExpectExec(`INSERT INTO order_items`).
			WillReturnError(errors.New("violates check constraint"))
		mock.ExpectRollback()

		err = repo.Create(ctx, sampleOrder())

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicateOrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginFails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

		err = NewRepository(db).Create(ctx, sampleOrder())

		assert.ErrorContains(t, err, "begin tx")
	})
}

func TestRepository_FindByNumber(t *testing.T) {
	ctx := context.Background()
	orderCols := []string{"id", "order_number", "status", "customer_info", "payment_info", "total", "created_at"}
	itemCols := []string{"product_id", "variant_id", "quantity", "price", "product_name", "product_image", "selected_size", "selected_color"}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := "6f1c4a36-1d1b-4b59-9d3e-0a8c8b6a2f10"
		mock.ExpectQuery(`SELECT id, order_number, status, customer_info, payment_info, total, created_at FROM orders WHERE order_number = \$1`).
			WithArgs("ORD-123456-007").
			WillReturnRows(sqlmock.NewRows(orderCols).AddRow(
				id, "ORD-123456-007", "approved",
				[]byte(`{"fullName":"Jane Doe","email":"jane@example.com"}`),
				[]byte(`{"maskedCardNumber":"**** **** **** 1","cardLast4":"1","expiryDate":"12/30"}`),
				"42.50", time.Now(),
			))
		mock.ExpectQuery(`SELECT product_id, variant_id, .* FROM order_items WHERE order_id = \$1`).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow("1", "1-Std-Default", 2, "21.25", "Mascara", nil, "Std", "Default"))

		o, err := NewRepository(db).FindByNumber(ctx, "ORD-123456-007")

		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, id, o.ID.String())
		assert.Equal(t, payment.StatusApproved, o.Status)
		assert.Equal(t, "Jane Doe", o.CustomerInfo.FullName)
		assert.Equal(t, "1", o.PaymentInfo.CardLast4)
		assert.True(t, o.Total.Equal(decimal.RequireFromString("42.5")))
		require.Len(t, o.Items, 1)
		assert.Equal(t, "", o.Items[0].ProductImage)
		assert.Equal(t, "Mascara", o.Items[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM orders`).
			WithArgs("ORD-000000-000").
			WillReturnRows(sqlmock.NewRows(orderCols))

		o, err := NewRepository(db).FindByNumber(ctx, "ORD-000000-000")

		assert.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("DBError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM orders`).WillReturnError(errors.New("db down"))

		o, err := NewRepository(db).FindByNumber(ctx, "ORD-1")

		assert.Error(t, err)
		assert.Nil(t, o)
	})
}
