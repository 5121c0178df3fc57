package customer_test

import (
	"customer-service/internal/domain/customer"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func emailsHeldBy(emails ...string) (customer.EmailTakenFunc, *[]string) {
	var asked []string
	return func(email string) (bool, error) {
		asked = append(asked, email)
		for _, e := range emails {
			if e == email {
				return true, nil
			}
		}
		return false, nil
	}, &asked
}

func TestApplyUpdate(t *testing.T) {
	current := customer.Customer{ID: 1, Name: "Name", Email: "email@mail.com", Age: 30}

	t.Run("all fields changed", func(t *testing.T) {
		taken, asked := emailsHeldBy()
		req := customer.UpdateRequest{Name: ptr("newName"), Email: ptr("newEmail@mail.com"), Age: ptr(40)}

		got, err := customer.ApplyUpdate(current, req, taken)

		require.NoError(t, err)
		assert.Equal(t, customer.Customer{ID: 1, Name: "newName", Email: "newEmail@mail.com", Age: 40}, got)
		assert.Equal(t, []string{"newEmail@mail.com"}, *asked)
	})

	t.Run("only name changes", func(t *testing.T) {
		taken, asked := emailsHeldBy()

		got, err := customer.ApplyUpdate(current, customer.UpdateRequest{Name: ptr("newName")}, taken)

		require.NoError(t, err)
		assert.Equal(t, "newName", got.Name)
		assert.Equal(t, current.Email, got.Email)
		assert.Equal(t, current.Age, got.Age)
		assert.Empty(t, *asked, "email uniqueness should not be checked")
	})

	t.Run("only age changes", func(t *testing.T) {
		taken, _ := emailsHeldBy()

		got, err := customer.ApplyUpdate(current, customer.UpdateRequest{Age: ptr(31)}, taken)

		require.NoError(t, err)
		assert.Equal(t, 31, got.Age)
		assert.Equal(t, current.Name, got.Name)
	})

	t.Run("email held by another customer", func(t *testing.T) {
		taken, _ := emailsHeldBy("other@mail.com")

		_, err := customer.ApplyUpdate(current, customer.UpdateRequest{Name: ptr("newName"), Email: ptr("other@mail.com")}, taken)

		assert.ErrorIs(t, err, customer.ErrEmailTaken)
	})

	t.Run("same values are no change", func(t *testing.T) {
		taken, asked := emailsHeldBy(current.Email)
		req := customer.UpdateRequest{Name: ptr(current.Name), Email: ptr(current.Email), Age: ptr(current.Age)}

		_, err := customer.ApplyUpdate(current, req, taken)

		assert.ErrorIs(t, err, customer.ErrNoDataChanged)
		assert.Empty(t, *asked, "own email must not be checked against itself")
	})

	t.Run("empty request is no change", func(t *testing.T) {
		taken, _ := emailsHeldBy()

		_, err := customer.ApplyUpdate(current, customer.UpdateRequest{}, taken)

		assert.ErrorIs(t, err, customer.ErrNoDataChanged)
	})

	t.Run("email comparison is case sensitive", func(t *testing.T) {
		taken, asked := emailsHeldBy()

		got, err := customer.ApplyUpdate(current, customer.UpdateRequest{Email: ptr("EMAIL@mail.com")}, taken)

		require.NoError(t, err)
		assert.Equal(t, "EMAIL@mail.com", got.Email)
		assert.Equal(t, []string{"EMAIL@mail.com"}, *asked)
	})

	t.Run("lookup failure is returned as is", func(t *testing.T) {
		lookupErr := errors.New("store unavailable")

		_, err := customer.ApplyUpdate(current, customer.UpdateRequest{Email: ptr("x@mail.com")}, func(string) (bool, error) {
			return false, lookupErr
		})

		assert.ErrorIs(t, err, lookupErr)
	})

	t.Run("input record is not modified", func(t *testing.T) {
		taken, _ := emailsHeldBy()
		before := current

		_, err := customer.ApplyUpdate(current, customer.UpdateRequest{Name: ptr("other")}, taken)

		require.NoError(t, err)
		assert.Equal(t, before, current)
	})
}
