//go:build integration

// Integration tests against a MySQL container.
// Run with: go test -tags=integration ./internal/engine/
package engine

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/leapstack-labs/tollgen/internal/generator"
	"github.com/leapstack-labs/tollgen/pkg/adapter"
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/mysql"
)

const mysqlImage = "mysql:8.0"

func startMySQL(t *testing.T) adapter.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mysqlImage,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "toll_password",
				"MYSQL_DATABASE":      "tollgen",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("ready for connections").WithOccurrence(2),
				wait.ForListeningPort("3306/tcp"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)
	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return adapter.Config{
		Type:     "mysql",
		Host:     host,
		Port:     p,
		Database: "tollgen",
		Username: "root",
		Password: "toll_password",
	}
}

func TestIntegration_MySQL(t *testing.T) {
	target := startMySQL(t)
	ctx := context.Background()

	e, err := New(ctx, Config{Target: target, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	defer e.Close()

	res, err := e.Generate(ctx, GenerateOptions{Trips: 10, Seed: 99})
	require.NoError(t, err)
	for _, tr := range res.Tables {
		assert.True(t, tr.OK(), "table %s: %v", tr.Table, tr.Err)
	}

	c := counts(res.Summary)
	assert.Equal(t, int64(10), c[generator.TableEntry])
	assert.Equal(t, int64(10), c[generator.TableExit])
	assert.Equal(t, c[generator.TableSplitDetail], c[generator.TableClearResult])
	assert.Zero(t, res.Run.Skipped)

	// Table comments come from display names.
	var comment string
	rows, err := e.db.Query(ctx,
		`SELECT TABLE_COMMENT FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`,
		"tollgen", generator.TableGantry)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&comment))
	assert.NotEmpty(t, comment)

	// A second run continues to insert without key collisions on trips.
	again, err := e.Generate(ctx, GenerateOptions{Trips: 2, Start: 11, Seed: 100})
	require.NoError(t, err)
	assert.Equal(t, 5, again.Summary.Report.Skipped(generator.TableSection))
	assert.Zero(t, again.Summary.Report.Skipped(generator.TableEntry))
}
