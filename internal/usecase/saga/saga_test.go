//go:build unit

package saga_test

import (
	"context"
	"errors"
	"testing"

	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/saga"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_Compensate(t *testing.T) {
	t.Run("runs undos in reverse order", func(t *testing.T) {
		var order []string
		s := saga.New("test", nil)
		for _, name := range []string{"order", "items", "breakdown"} {
			s.Push(name, func(context.Context) error {
				order = append(order, name)
				return nil
			})
		}

		require.NoError(t, s.Compensate(context.Background()))
		assert.Equal(t, []string{"breakdown", "items", "order"}, order)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("continues after a failed undo", func(t *testing.T) {
		boom := errors.New("boom")
		ran := 0
		s := saga.New("test", nil)
		s.Push("first", func(context.Context) error { ran++; return nil })
		s.Push("second", func(context.Context) error { return boom })

		err := s.Compensate(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, ran)
	})

	t.Run("reports every failed undo", func(t *testing.T) {
		deleteItems := errors.New("delete items: connection reset")
		deleteOrder := errors.New("delete order: connection reset")
		s := saga.New("test", nil)
		s.Push("order", func(context.Context) error { return deleteOrder })
		s.Push("items", func(context.Context) error { return deleteItems })

		err := s.Compensate(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, deleteItems))
		assert.True(t, errs.Is(err, deleteOrder))
		assert.Contains(t, err.Error(), "delete items")
		assert.Contains(t, err.Error(), "delete order")
	})

	t.Run("cancelled caller context does not stop compensation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := saga.New("test", nil)
		s.Push("check", func(ctx context.Context) error { return ctx.Err() })
		assert.NoError(t, s.Compensate(ctx))
	})

	t.Run("forget clears the stack", func(t *testing.T) {
		s := saga.New("test", nil)
		s.Push("x", func(context.Context) error { return errors.New("should not run") })
		s.Forget()
		assert.NoError(t, s.Compensate(context.Background()))
	})
}
