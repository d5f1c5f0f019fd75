package fees

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/btc-txkit/pkg/tx"
)

// txWithTotalSize builds a single-input transaction whose witness-inclusive
// serialization is exactly size bytes, by padding the input's signature
// script. The fixed overhead is 53 bytes plus the script length prefix.
func txWithTotalSize(t *testing.T, size int64) *tx.Transaction {
	t.Helper()

	scriptLen := size - 56 // 3-byte length prefix
	if scriptLen > 65535 {
		scriptLen = size - 58 // 5-byte length prefix
	}
	require.Positive(t, scriptLen)

	in := tx.NewTxInput()
	in.SignatureScript = make([]byte, scriptLen)

	transaction := tx.NewTransaction()
	require.NoError(t, transaction.AddInput(in))
	require.Equal(t, size, int64(transaction.TotalSize()))
	return transaction
}

func TestFeeForSize(t *testing.T) {
	e := NewEstimator(Policy{})

	tests := []struct {
		name string
		size int64
		rate int64
		want int64
	}{
		{"half chunk", 500, 1000, 1000},
		{"exact chunk", 1000, 1000, 1000},
		{"one byte over", 1001, 1000, 2000},
		{"three chunks", 2500, 1000, 3000},
		{"zero rate", 5000, 0, 0},
		{"negative rate", 5000, -1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.FeeForSize(tc.size, tc.rate))
		})
	}
}

func TestMinimumFeeSizeTiers(t *testing.T) {
	e := NewEstimator(Policy{})

	t.Run("small transaction is free", func(t *testing.T) {
		// newBlockSize = 6000, inside the 27000-byte free area.
		transaction := txWithTotalSize(t, 5000)
		assert.Equal(t, int64(0), e.MinimumFee(transaction, true))
	})

	t.Run("30000 bytes pays per started kilobyte", func(t *testing.T) {
		// minFee = (1 + 30000/1000) * 10000 = 310000.
		transaction := txWithTotalSize(t, 30000)
		assert.Equal(t, int64(310000), e.MinimumFee(transaction, true))
	})
}

func TestMinimumFeeSendingFlag(t *testing.T) {
	e := NewEstimator(Policy{
		MinimumFee:      10000,
		MinimumRelayFee: 20000,
	})
	transaction := txWithTotalSize(t, 30000)

	assert.Equal(t, int64(310000), e.MinimumFee(transaction, true))
	assert.Equal(t, int64(620000), e.MinimumFee(transaction, false))
}

func TestMinimumFeeDustOverride(t *testing.T) {
	e := NewEstimator(Policy{})

	transaction := tx.NewTransaction()
	require.NoError(t, transaction.AddInput(tx.NewTxInput()))
	require.NoError(t, transaction.AddOutput(tx.NewTxOutput(DefaultDustThreshold-1, nil)))

	// Small enough to be free, but the below-threshold output
	// forces the base fee.
	assert.Equal(t, DefaultMinimumFee, e.MinimumFee(transaction, true))
}

func TestMinimumFeeCongestion(t *testing.T) {
	e := NewEstimator(Policy{MaxBlockSize: 100000})

	t.Run("surcharge past half capacity", func(t *testing.T) {
		// newBlockSize = 61000; scale factor 100000/39000 = 2.
		transaction := txWithTotalSize(t, 60000)
		assert.Equal(t, int64(2*61*10000), e.MinimumFee(transaction, true))
	})

	t.Run("at capacity returns the money cap", func(t *testing.T) {
		transaction := txWithTotalSize(t, 99000)
		assert.Equal(t, int64(btcutil.MaxSatoshi), e.MinimumFee(transaction, true))
	})
}

func TestMinimumFeeClampsToMaxMoney(t *testing.T) {
	e := NewEstimator(Policy{MaxMoney: 50000})

	transaction := txWithTotalSize(t, 30000)
	assert.Equal(t, int64(50000), e.MinimumFee(transaction, true))
}

func TestNewEstimatorDefaults(t *testing.T) {
	e := NewEstimator(Policy{})
	assert.Equal(t, DefaultPolicy(), e.Policy())
}

func TestNewEstimatorFromStore(t *testing.T) {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	defer store.Close()

	t.Run("unset keys fall back to defaults", func(t *testing.T) {
		e := NewEstimatorFromStore(Policy{}, store)
		assert.Equal(t, DefaultMinimumFee, e.Policy().MinimumFee)
		assert.Equal(t, DefaultMinimumRelayFee, e.Policy().MinimumRelayFee)
	})

	t.Run("persisted values win", func(t *testing.T) {
		require.NoError(t, store.SetInt64(SettingMinimumFee, 25000))
		require.NoError(t, store.SetInt64(SettingMinimumRelayFee, 5000))

		e := NewEstimatorFromStore(Policy{}, store)
		assert.Equal(t, int64(25000), e.Policy().MinimumFee)
		assert.Equal(t, int64(5000), e.Policy().MinimumRelayFee)
	})
}

func TestBoltStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetInt64("answer", 42))
	require.NoError(t, store.Close())

	// Values survive reopening.
	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, int64(42), store.Int64("answer", 0))
	assert.Equal(t, int64(7), store.Int64("unset", 7))
}
