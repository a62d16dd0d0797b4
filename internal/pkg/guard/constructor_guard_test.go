package guard_test

import (
	"errors"
	"testing"

	"ridehail/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes with any error", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		assert.NoError(t, g.Validate(errors.New("command not constructed")))
		assert.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the supplied sentinel", func(t *testing.T) {
		var g guard.ConstructorGuard
		sentinel := errors.New("SearchDriverCommand must be created via NewSearchDriverCommand")

		assert.Equal(t, sentinel, g.Validate(sentinel))
	})

	t.Run("zero value without a sentinel uses the default", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// Commands embed the guard so a handler can reject a literal-initialized
// command before touching any state; this test exercises that shape.
func TestConstructorGuard_GuardedCommand(t *testing.T) {
	type cancelCommand struct {
		orderID string
		guard   guard.ConstructorGuard
	}

	errNotConstructed := errors.New("cancelCommand must be created via newCancelCommand")

	newCancelCommand := func(orderID string) (cancelCommand, error) {
		if orderID == "" {
			return cancelCommand{}, errors.New("order id is required")
		}
		return cancelCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed command validates", func(t *testing.T) {
		cmd, err := newCancelCommand("9cc8055a-1b51-4aa2-a9d4-6c5a787f2a3e")

		require.NoError(t, err)
		assert.NoError(t, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("struct literal is rejected", func(t *testing.T) {
		cmd := cancelCommand{orderID: "9cc8055a-1b51-4aa2-a9d4-6c5a787f2a3e"}

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("failed construction leaves the guard unset", func(t *testing.T) {
		cmd, err := newCancelCommand("")

		require.Error(t, err)
		assert.Error(t, cmd.guard.Validate(errNotConstructed))
	})
}
