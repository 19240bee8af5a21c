//go:build containers

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/logging"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/internal/testinfra"
)

func TestTripLoader_AgainstPostgres(t *testing.T) {
	ctx := context.Background()
	ctr, err := testinfra.StartPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { ctr.Terminate(context.Background()) }) //nolint:errcheck

	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewFixedInterval(10, time.Second))
	conn, err := Connect(ctx, ctr.PostgresConfig(), "", executor, logging.NewNullLogger())
	require.NoError(t, err)
	defer conn.Close(ctx)

	trips := []dataset.Trip{sampleTrip(), {}}
	loader := NewTripLoader(logging.NewNullLogger())

	for range 2 {
		n, err := loader.Load(ctx, conn, trips)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	}

	var (
		count    int
		distance string
		rate     string
	)
	require.NoError(t, conn.QueryRow(ctx, "SELECT count(*) FROM public.raw_trips").Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, conn.QueryRow(ctx,
		"SELECT distance_km::text, discount_rate::text FROM public.raw_trips WHERE trip_id = 'T1'").Scan(&distance, &rate))
	assert.Equal(t, "12.50", distance)
	assert.Equal(t, "0.100", rate)
}
