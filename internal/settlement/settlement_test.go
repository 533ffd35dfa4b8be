package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pending(id, payer, payee, amount string) models.Obligation {
	return models.Obligation{
		ID:      id,
		PayerID: payer,
		PayeeID: payee,
		Amount:  dec(amount),
		Status:  models.StatusPending,
	}
}

func TestComputeNetSettlements_Empty(t *testing.T) {
	balances, err := ComputeNetSettlements("alice", nil)
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestComputeNetSettlements_NetsBothDirections(t *testing.T) {
	// Alice paid 25.50 for Bob, Bob paid 10.00 for Alice.
	obligations := []models.Obligation{
		pending("o1", "alice", "bob", "25.50"),
		pending("o2", "bob", "alice", "10.00"),
	}

	balances, err := ComputeNetSettlements("alice", obligations)
	require.NoError(t, err)
	require.Len(t, balances, 1)

	bal := balances[0]
	assert.Equal(t, "bob", bal.CounterpartyID)
	assert.True(t, bal.NetAmount.Equal(dec("15.50")), "expected +15.50, got %s", bal.NetAmount)
	require.Len(t, bal.Items, 2)
}

func TestComputeNetSettlements_GroupsByCounterparty(t *testing.T) {
	obligations := []models.Obligation{
		pending("o1", "alice", "bob", "10"),
		pending("o2", "alice", "bob", "5"),
		pending("o3", "carol", "alice", "7.25"),
	}

	balances, err := ComputeNetSettlements("alice", obligations)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	byID := make(map[string]CounterpartyBalance)
	for _, bal := range balances {
		byID[bal.CounterpartyID] = bal
	}
	assert.True(t, byID["bob"].NetAmount.Equal(dec("15")))
	assert.True(t, byID["carol"].NetAmount.Equal(dec("-7.25")))
	assert.Len(t, byID["bob"].Items, 2)
	assert.Len(t, byID["carol"].Items, 1)
}

// The sum of net amounts across counterparties equals the payer-signed sum
// of the input amounts: netting never creates or destroys debt.
func TestComputeNetSettlements_ConservationOfDebt(t *testing.T) {
	obligations := []models.Obligation{
		pending("o1", "alice", "bob", "12.34"),
		pending("o2", "bob", "alice", "0.99"),
		pending("o3", "alice", "carol", "40"),
		pending("o4", "dave", "alice", "7.77"),
		pending("o5", "carol", "alice", "39.99"),
	}

	want := decimal.Zero
	for _, o := range obligations {
		if o.PayerID == "alice" {
			want = want.Add(o.Amount)
		} else {
			want = want.Sub(o.Amount)
		}
	}

	balances, err := ComputeNetSettlements("alice", obligations)
	require.NoError(t, err)

	got := decimal.Zero
	for _, bal := range balances {
		got = got.Add(bal.NetAmount)
	}
	assert.True(t, got.Equal(want), "net sum %s != signed input sum %s", got, want)
}

func TestComputeNetSettlements_SkipsPaid(t *testing.T) {
	paid := pending("o1", "alice", "bob", "100")
	paid.Status = models.StatusPaid
	paid.PaidAt = 1700000000

	balances, err := ComputeNetSettlements("alice", []models.Obligation{
		paid,
		pending("o2", "alice", "bob", "3"),
	})
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].NetAmount.Equal(dec("3")))
}

func TestComputeNetSettlements_RejectsSamePayerPayee(t *testing.T) {
	_, err := ComputeNetSettlements("alice", []models.Obligation{
		pending("o1", "alice", "alice", "10"),
	})
	require.ErrorIs(t, err, models.ErrSameParticipants)
}

func TestComputeNetSettlements_RejectsNonPositiveAmount(t *testing.T) {
	_, err := ComputeNetSettlements("alice", []models.Obligation{
		pending("o1", "alice", "bob", "0"),
	})
	require.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = ComputeNetSettlements("alice", []models.Obligation{
		pending("o1", "alice", "bob", "-5"),
	})
	require.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestComputeNetSettlements_RejectsNonParty(t *testing.T) {
	_, err := ComputeNetSettlements("zed", []models.Obligation{
		pending("o1", "alice", "bob", "10"),
	})
	require.Error(t, err)
}

func TestComputeNetSettlements_LineItemDirections(t *testing.T) {
	obligations := []models.Obligation{
		pending("o1", "alice", "bob", "20"),
		pending("o2", "bob", "alice", "8"),
	}

	balances, err := ComputeNetSettlements("alice", obligations)
	require.NoError(t, err)
	require.Len(t, balances, 1)

	directions := make(map[string]Direction)
	for _, item := range balances[0].Items {
		directions[item.ObligationID] = item.Direction
	}
	assert.Equal(t, DirectionOwedToUser, directions["o1"])
	assert.Equal(t, DirectionUserOwes, directions["o2"])
}

func TestPartition_SplitsBySign(t *testing.T) {
	p := Partition([]CounterpartyBalance{
		{CounterpartyID: "bob", NetAmount: dec("15.50")},
		{CounterpartyID: "carol", NetAmount: dec("-7.25")},
	})
	require.Len(t, p.OwedToUser, 1)
	require.Len(t, p.UserOwes, 1)
	assert.Equal(t, "bob", p.OwedToUser[0].CounterpartyID)
	assert.Equal(t, "carol", p.UserOwes[0].CounterpartyID)
}

// Balances at exactly the threshold count as settled on both sides.
func TestPartition_ThresholdBoundary(t *testing.T) {
	p := Partition([]CounterpartyBalance{
		{CounterpartyID: "at", NetAmount: dec("0.01")},
		{CounterpartyID: "negAt", NetAmount: dec("-0.01")},
		{CounterpartyID: "zero", NetAmount: dec("0")},
		{CounterpartyID: "above", NetAmount: dec("0.02")},
		{CounterpartyID: "below", NetAmount: dec("-0.02")},
	})

	require.Len(t, p.OwedToUser, 1)
	require.Len(t, p.UserOwes, 1)
	assert.Equal(t, "above", p.OwedToUser[0].CounterpartyID)
	assert.Equal(t, "below", p.UserOwes[0].CounterpartyID)
}

// Mutual debts that cancel out vanish from both partitions.
func TestPartition_NettedToZeroIsSettled(t *testing.T) {
	balances, err := ComputeNetSettlements("alice", []models.Obligation{
		pending("o1", "alice", "bob", "10"),
		pending("o2", "bob", "alice", "10"),
	})
	require.NoError(t, err)

	p := Partition(balances)
	assert.Empty(t, p.OwedToUser)
	assert.Empty(t, p.UserOwes)
}
