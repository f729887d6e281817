//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// CreateProduct inserts an active product without variants.
func CreateProduct(t *testing.T, db DBLike, sellerID uuid.UUID, price decimal.Decimal, stock int) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO products (id, seller_id, title, base_price, currency, stock, is_active)
		VALUES ($1, $2, $3, $4, 'INR', $5, true)`,
		productID, sellerID, "Product "+price.StringFixed(2), price, stock)
	require.NoError(t, err)
	return productID
}

func ProductStock(t *testing.T, db DBLike, productID uuid.UUID) int {
	t.Helper()

	var stock int
	err := db.QueryRow(context.Background(), "SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	require.NoError(t, err)
	return stock
}

func CreateAddress(t *testing.T, db DBLike, userID uuid.UUID) uuid.UUID {
	t.Helper()

	addressID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO addresses (id, user_id, line1, city, state, postal_code, country)
		VALUES ($1, $2, '12 MG Road', 'Bengaluru', 'KA', '560001', 'IN')`,
		addressID, userID)
	require.NoError(t, err)
	return addressID
}

// CreatePercentCoupon inserts an active percentage coupon usable once per user.
func CreatePercentCoupon(t *testing.T, db DBLike, code string, percent decimal.Decimal) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO coupons (id, code, discount_type, discount_value, per_user_limit, is_active)
		VALUES ($1, $2, 'percentage', $3, 1, true)`,
		couponID, code, percent)
	require.NoError(t, err)
	return couponID
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except the migration bookkeeping
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
