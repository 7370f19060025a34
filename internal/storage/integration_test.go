//go:build integration

package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kansen-app/kansen/internal/game"
)

type containerDB struct {
	driver string
	image  string
	port   string
	env    map[string]string
	wait   wait.Strategy
	dsn    func(host, port string) string
}

var containerDBs = []containerDB{
	{
		driver: DriverPostgres,
		image:  "postgres:16-alpine",
		port:   "5432/tcp",
		env: map[string]string{
			"POSTGRES_USER":     "kansen",
			"POSTGRES_PASSWORD": "kansen",
			"POSTGRES_DB":       "kansen",
		},
		wait: wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		dsn: func(host, port string) string {
			return fmt.Sprintf("postgres://kansen:kansen@%s:%s/kansen?sslmode=disable", host, port)
		},
	},
	{
		driver: DriverMySQL,
		image:  "mysql:8.4",
		port:   "3306/tcp",
		env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "kansen",
			"MYSQL_DATABASE":      "kansen",
		},
		wait: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(2 * time.Minute),
		dsn: func(host, port string) string {
			return fmt.Sprintf("root:kansen@tcp(%s:%s)/kansen", host, port)
		},
	},
}

func startDB(t *testing.T, c containerDB) *Store {
	t.Helper()
	ctx := context.Background()

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        c.image,
			ExposedPorts: []string{c.port},
			Env:          c.env,
			WaitingFor:   c.wait,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(endpoint)
	require.NoError(t, err)

	var s *Store
	require.Eventually(t, func() bool {
		s, err = Open(ctx, Options{Driver: c.driver, DSN: c.dsn(host, port)})
		return err == nil
	}, time.Minute, time.Second)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIntegration_Upsert(t *testing.T) {
	for _, c := range containerDBs {
		t.Run(c.driver, func(t *testing.T) {
			s := startDB(t, c)
			ctx := context.Background()

			pending := game.NewGame("2024-04-14", "巨人", "阪神")
			pending.Stadium = game.ParseText("東京ドーム")

			n, err := s.UpsertGames(ctx, []*game.Game{pending, played("2024-04-14", "広島", "DeNA", 4, 1, "マツダスタジアム")})
			require.NoError(t, err)
			require.Equal(t, 2, n)

			final := played("2024-04-14", "巨人", "阪神", 3, 2, "東京ドーム")
			final.WinningPitcher = game.ParseText("戸郷")
			n, err = s.UpsertGames(ctx, []*game.Game{final, final})
			require.NoError(t, err)
			require.Equal(t, 1, n)

			games, err := s.GamesOn(ctx, "2024-04-14")
			require.NoError(t, err)
			require.Len(t, games, 2)

			stored, err := s.GameByCode(ctx, final.Code)
			require.NoError(t, err)
			require.Equal(t, "3 - 2", stored.ScoreLine())
			require.Equal(t, "戸郷", stored.WinningPitcher.String())
			require.False(t, stored.LosingPitcher.Known())

			rec, err := s.AddRecord(ctx, stored.ID, "初観戦")
			require.NoError(t, err)
			require.Equal(t, "東京ドーム", rec.Place)

			deleted, err := s.DeleteOrphanGames(ctx)
			require.NoError(t, err)
			require.EqualValues(t, 1, deleted)

			records, err := s.Records(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			require.Equal(t, final.Code, records[0].Game.Code)
		})
	}
}
