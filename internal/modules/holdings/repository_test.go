package holdings

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foliotrack/internal/domain"
)

func testHolding(id, name string) domain.Holding {
	return domain.Holding{
		ID:             id,
		Name:           name,
		Category:       domain.CategoryStock,
		Country:        "USA",
		Currency:       "USD",
		PurchasePrice:  100,
		Quantity:       10,
		InvestmentDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepository_AddAssignsID(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	added, err := repo.Add(testHolding("", "AAPL"))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, 1, repo.Count())
}

func TestRepository_AddRejectsDuplicate(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	_, err := repo.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)

	_, err = repo.Add(testHolding("h1", "MSFT"))
	assert.Error(t, err)
	assert.Equal(t, 1, repo.Count())
}

func TestRepository_ListPreservesInsertionOrder(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	for _, name := range []string{"AAPL", "MSFT", "GOOG", "AMZN"} {
		_, err := repo.Add(testHolding("", name))
		require.NoError(t, err)
	}

	list := repo.List()
	require.Len(t, list, 4)
	assert.Equal(t, "AAPL", list[0].Name)
	assert.Equal(t, "MSFT", list[1].Name)
	assert.Equal(t, "GOOG", list[2].Name)
	assert.Equal(t, "AMZN", list[3].Name)
}

func TestRepository_DeleteRemovesFromOrder(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	_, err := repo.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)
	_, err = repo.Add(testHolding("h2", "MSFT"))
	require.NoError(t, err)
	_, err = repo.Add(testHolding("h3", "GOOG"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete("h2"))

	list := repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, "h1", list[0].ID)
	assert.Equal(t, "h3", list[1].ID)

	_, err = repo.Get("h2")
	assert.Error(t, err)
}

func TestRepository_DeleteUnknownFails(t *testing.T) {
	repo := NewRepository(zerolog.Nop())
	assert.Error(t, repo.Delete("missing"))
}

func TestRepository_UpdateReplacesHolding(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	_, err := repo.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)

	updated := testHolding("h1", "AAPL")
	updated.Quantity = 25
	require.NoError(t, repo.Update(updated))

	got, err := repo.Get("h1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Quantity)
}

func TestRepository_ReplaceAllSwapsWholeSet(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	_, err := repo.Add(testHolding("old", "AAPL"))
	require.NoError(t, err)

	repo.ReplaceAll([]domain.Holding{
		testHolding("n1", "MSFT"),
		testHolding("n2", "GOOG"),
	})

	assert.Equal(t, 2, repo.Count())
	_, err = repo.Get("old")
	assert.Error(t, err)

	list := repo.List()
	assert.Equal(t, "n1", list[0].ID)
	assert.Equal(t, "n2", list[1].ID)
}

func TestRepository_SetCurrentPrice(t *testing.T) {
	repo := NewRepository(zerolog.Nop())

	_, err := repo.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetCurrentPrice("h1", 123.45, at))

	got, err := repo.Get("h1")
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	assert.Equal(t, 123.45, *got.CurrentPrice)
	require.NotNil(t, got.LastUpdated)
	assert.Equal(t, at, *got.LastUpdated)
}
