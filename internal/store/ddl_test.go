package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchq/internal/entity"
	"github.com/roach88/matchq/internal/querysql"
)

func invoicesConfig() entity.Config {
	return entity.NewConfig("invoices",
		entity.Column{Name: "customer", Type: entity.TypeText},
		entity.Column{Name: "paid_on", Type: entity.TypeTimestamp, Nullable: true},
		entity.Column{Name: "archived", Type: entity.TypeBool, Default: "false"},
	)
}

func TestCreateTableSQL_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, d := range []querysql.Dialect{querysql.SQLite, querysql.Postgres, querysql.DuckDB} {
		t.Run(d.String(), func(t *testing.T) {
			ddl, err := CreateTableSQL(d, invoicesConfig())
			require.NoError(t, err)
			g.Assert(t, "create_invoices_"+d.String(), []byte(ddl+"\n"))
		})
	}
}

func TestCreateTableSQL_RejectsInvalidConfig(t *testing.T) {
	cfg := entity.NewConfig("invoices; drop table x")
	_, err := CreateTableSQL(querysql.SQLite, cfg)
	assert.ErrorIs(t, err, entity.ErrInvalidConfig)
}

func TestRegister_PersistsInCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Register(ctx, invoicesConfig()))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	cfg, ok := reopened.Table("invoices")
	require.True(t, ok)
	assert.Equal(t, invoicesConfig(), cfg)
	assert.Len(t, reopened.Tables(), 1)
}

func TestRegister_SameColumnsIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Register(ctx, invoicesConfig()))
	require.NoError(t, s.Register(ctx, invoicesConfig()))
	assert.Len(t, s.Tables(), 1)
}

func TestRegister_DifferentColumnsFails(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Register(ctx, invoicesConfig()))

	changed := entity.NewConfig("invoices", entity.Column{Name: "customer", Type: entity.TypeText})
	err := s.Register(ctx, changed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrDuplicateTable))
}

func TestRegister_InvalidConfig(t *testing.T) {
	s := openTestStore(t)
	err := s.Register(context.Background(), entity.Config{Table: "empty"})
	assert.ErrorIs(t, err, entity.ErrInvalidConfig)
}
