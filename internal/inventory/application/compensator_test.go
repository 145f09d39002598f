package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

func TestCompensateRestoresStockOnce(t *testing.T) {
	stock := newFakeStock()
	reservations := newFakeReservations(stock)
	compensator := NewCompensator(slog.Default(), reservations)
	ctx := context.Background()

	stock.set(1, 10, 20)
	ok, err := stock.TryReserve(ctx, 1, 10, 6)
	require.NoError(t, err)
	require.True(t, ok)
	r, err := reservations.Append(ctx, domain.NewReservation(200, 1, 10, 6))
	require.NoError(t, err)

	require.NoError(t, compensator.Compensate(ctx, 200, []domain.Reservation{r}))
	assert.Equal(t, 20, stock.get(1, 10))

	// A second pass sees the CANCELED row in the ledger and restores nothing.
	rows, err := reservations.FindByOrder(ctx, 200)
	require.NoError(t, err)
	require.NoError(t, compensator.Compensate(ctx, 200, rows))
	assert.Equal(t, 20, stock.get(1, 10))
}

func TestCompensateSkipsCanceledInput(t *testing.T) {
	stock := newFakeStock()
	reservations := newFakeReservations(stock)
	compensator := NewCompensator(slog.Default(), reservations)
	ctx := context.Background()

	stock.set(1, 10, 5)
	r := domain.NewReservation(201, 1, 10, 3)
	r.Status = domain.StatusCanceled

	require.NoError(t, compensator.Compensate(ctx, 201, []domain.Reservation{r}))
	assert.Equal(t, 5, stock.get(1, 10))
}
