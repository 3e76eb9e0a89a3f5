package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopkit/shopkit/internal/port"
	"github.com/shopkit/shopkit/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type itemRepositorySuite struct {
	suite.Suite

	repo port.ItemRepository
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestItemRepositorySuite(t *testing.T) {
	suite.Run(t, new(itemRepositorySuite))
}

// before all tests in the suite
func (suite *itemRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewItem(suite.pool)
}

// after all tests in the suite
func (suite *itemRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *itemRepositorySuite) TestCreate() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		item      domain.Item
		wantError string
	}{
		{
			name: "create product: ok",
			item: randomItem(domain.KindProduct),
		},
		{
			name: "create event: ok",
			item: randomItem(domain.KindEvent),
		},
		{
			name: "create with zero price: ok",
			item: func() domain.Item {
				item := randomItem(domain.KindProduct)
				item.Price.Amount = decimal.Zero
				return item
			}(),
		},
		{
			name: "empty name: error",
			item: func() domain.Item {
				item := randomItem(domain.KindProduct)
				item.Name = ""
				return item
			}(),
			wantError: "name is empty: invalid input",
		},
		{
			name: "negative stock: error",
			item: func() domain.Item {
				item := randomItem(domain.KindProduct)
				item.Stock = -1
				return item
			}(),
			wantError: "stock is negative: invalid input",
		},
		{
			name: "bogus kind: error",
			item: func() domain.Item {
				item := randomItem(domain.KindProduct)
				item.Kind = "Subscription"
				return item
			}(),
			wantError: `kind "Subscription": invalid input`,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			created, err := suite.repo.Create(ctx, tt.item)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, created.ID)

			got, err := suite.repo.Get(ctx, created.ID)
			require.NoError(t, err)
			assertItem(t, tt.item, got)
		})
	}
}

func (suite *itemRepositorySuite) TestGet_NotFound() {
	t := suite.T()

	_, err := suite.repo.Get(t.Context(), uuid.MustParse(gofakeit.UUID()))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *itemRepositorySuite) TestUpdate_PartialPatch() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.Create(ctx, randomItem(domain.KindProduct))
	require.NoError(t, err)

	// patch only the name, everything else must keep its stored value
	newName := gofakeit.ProductName()
	updated, err := suite.repo.Update(ctx, created.ID, domain.ItemPatch{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Stock, updated.Stock)
	assert.True(t, created.Price.Amount.Equal(updated.Price.Amount))
	assert.Equal(t, created.Kind, updated.Kind)

	// patch price and stock together
	newPrice := domain.Money{Amount: decimal.RequireFromString("10.99"), Currency: currency.USD}
	newStock := int64(42)
	updated, err = suite.repo.Update(ctx, created.ID, domain.ItemPatch{Price: &newPrice, Stock: &newStock})
	require.NoError(t, err)

	assert.True(t, updated.Price.Amount.Equal(newPrice.Amount))
	assert.Equal(t, newStock, updated.Stock)
	assert.Equal(t, newName, updated.Name)
}

func (suite *itemRepositorySuite) TestUpdate_NotFound() {
	t := suite.T()

	name := gofakeit.ProductName()
	_, err := suite.repo.Update(t.Context(), uuid.MustParse(gofakeit.UUID()), domain.ItemPatch{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *itemRepositorySuite) TestDelete() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.Create(ctx, randomItem(domain.KindProduct))
	require.NoError(t, err)

	deleted, err := suite.repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func (suite *itemRepositorySuite) TestDelete_Referenced() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.Create(ctx, randomItem(domain.KindProduct))
	require.NoError(t, err)

	var cartID uuid.UUID
	err = suite.pool.QueryRow(ctx, "INSERT INTO carts DEFAULT VALUES RETURNING id").Scan(&cartID)
	require.NoError(t, err)
	_, err = suite.pool.Exec(ctx,
		"INSERT INTO cart_lines (cart_id, item_id, quantity) VALUES ($1, $2, 1)", cartID, created.ID)
	require.NoError(t, err)

	_, err = suite.repo.Delete(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrItemReferenced)

	// still there
	_, err = suite.repo.Get(ctx, created.ID)
	require.NoError(t, err)
}

func (suite *itemRepositorySuite) TestDeleteBatch() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	first, err := suite.repo.Create(ctx, randomItem(domain.KindProduct))
	require.NoError(t, err)
	second, err := suite.repo.Create(ctx, randomItem(domain.KindEvent))
	require.NoError(t, err)

	deleted, err := suite.repo.DeleteBatch(ctx, []uuid.UUID{first.ID, second.ID, uuid.MustParse(gofakeit.UUID())})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func (suite *itemRepositorySuite) TestAdjustStock() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	item := randomItem(domain.KindProduct)
	item.Stock = 10
	created, err := suite.repo.Create(ctx, item)
	require.NoError(t, err)

	stock, err := suite.repo.AdjustStock(ctx, created.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stock)

	stock, err = suite.repo.AdjustStock(ctx, created.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(8), stock)

	// the stock >= 0 constraint refuses the overdraw
	_, err = suite.repo.AdjustStock(ctx, created.ID, -9)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := suite.repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Stock)
}

func (suite *itemRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_lines, carts, items CASCADE")
	suite.NoError(err)
}

func randomItem(kind domain.Kind) domain.Item {
	return domain.Item{
		Name:        gofakeit.ProductName(),
		Price:       domain.Money{Amount: decimal.NewFromFloat(gofakeit.Price(1, 100)), Currency: currency.USD},
		Description: gofakeit.ProductDescription(),
		Thumbnail:   gofakeit.URL(),
		Stock:       int64(gofakeit.Number(1, 50)),
		Kind:        kind,
	}
}

func assertItem(t *testing.T, expected, actual domain.Item) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Item{}, "ID", "CreatedAt", "UpdatedAt"),
		currencyComparer,
		decimalComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
}
