package ledger

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

func tx(account, card, amount string) domain.Transaction {
	return domain.Transaction{
		AccountName: account,
		CardNumber:  card,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestAggregate(t *testing.T) {
	balances := Aggregate([]domain.Transaction{
		tx("Alice", "1111", "100"),
		tx("Alice", "1111", "-30"),
		tx("Alice", "2222", "5"),
		tx("Bob", "1111", "7.25"),
	})

	require.Len(t, balances, 2)
	assert.True(t, decimal.NewFromInt(70).Equal(balances["Alice"]["1111"]))
	assert.True(t, decimal.NewFromInt(5).Equal(balances["Alice"]["2222"]))
	assert.True(t, decimal.RequireFromString("7.25").Equal(balances["Bob"]["1111"]))
}

func TestAggregate_Empty(t *testing.T) {
	balances := Aggregate(nil)
	require.NotNil(t, balances)
	assert.Empty(t, balances)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	transactions := []domain.Transaction{
		tx("X", "c", "-10"),
		tx("X", "c", "5"),
		tx("Y", "d", "3.30"),
		tx("X", "e", "0.01"),
		tx("Y", "d", "-3.30"),
	}

	want := Aggregate(transactions)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.Transaction, len(transactions))
		copy(shuffled, transactions)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Aggregate(shuffled)
		require.Len(t, got, len(want))
		for account, cards := range want {
			for card, total := range cards {
				assert.True(t, total.Equal(got[account][card]),
					"account %s card %s: expected %s, got %s", account, card, total, got[account][card])
			}
		}
	}
}

func TestCollections_PerTransactionSign(t *testing.T) {
	// X nets out to -5 and Y nets out to +20, but both held a negative
	// movement, so both are flagged.
	accounts := Collections([]domain.Transaction{
		tx("X", "c", "-10"),
		tx("X", "c", "5"),
		tx("Y", "d", "30"),
		tx("Y", "d", "-10"),
	})

	assert.Equal(t, []string{"X", "Y"}, accounts)
}

func TestCollections_DedupesFirstSeen(t *testing.T) {
	accounts := Collections([]domain.Transaction{
		tx("B", "1", "-1"),
		tx("A", "2", "-2"),
		tx("B", "3", "-3"),
	})

	assert.Equal(t, []string{"B", "A"}, accounts)
}

func TestCollections_NoNegatives(t *testing.T) {
	accounts := Collections([]domain.Transaction{
		tx("A", "1", "0"),
		tx("B", "2", "10"),
	})

	require.NotNil(t, accounts)
	assert.Empty(t, accounts)
}
