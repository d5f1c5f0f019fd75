// Package fees implements size-based fee calculation and the legacy
// size-tiered minimum relay/send fee policy.
//
// All policy knobs are explicit configuration threaded into the Estimator at
// construction, so behavior is reproducible and testable without shared
// process-wide state. The two legacy defaults (minimum fee and minimum relay
// fee) can optionally be loaded from a persisted settings Store.
package fees

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/suffix-labs/btc-txkit/pkg/tx"
)

// Policy holds the fee-policy configuration.
type Policy struct {
	// MinimumFee is the base fee per started kilobyte applied when the
	// wallet sends a transaction.
	MinimumFee int64

	// MinimumRelayFee is the base fee per started kilobyte applied when
	// relaying a transaction built elsewhere.
	MinimumRelayFee int64

	// DustThreshold is the output value below which the anti-dust
	// override forces the base fee.
	DustThreshold int64

	// MaxBlockSize is the block size used by the congestion surcharge.
	MaxBlockSize int64

	// MaxMoney caps every fee this policy can produce.
	MaxMoney int64
}

// Default policy values. The 10000 base fee and the 27000-byte free-block
// carve-out replicate the historical relay policy this package models.
const (
	DefaultMinimumFee      int64 = 10000
	DefaultMinimumRelayFee int64 = 10000
	DefaultDustThreshold   int64 = 1000000 // 0.01 coin
	DefaultMaxBlockSize    int64 = 1000000

	freeBlockSizeLimit int64 = 27000
	freeTxSizeLimit    int64 = 10000
)

// Settings store keys for the two persisted legacy defaults.
const (
	SettingMinimumFee      = "minimumFee"
	SettingMinimumRelayFee = "minimumRelayFee"
)

// DefaultPolicy returns the policy with historical default values and
// MaxMoney set to the total monetary supply.
func DefaultPolicy() Policy {
	return Policy{
		MinimumFee:      DefaultMinimumFee,
		MinimumRelayFee: DefaultMinimumRelayFee,
		DustThreshold:   DefaultDustThreshold,
		MaxBlockSize:    DefaultMaxBlockSize,
		MaxMoney:        btcutil.MaxSatoshi,
	}
}

// Estimator computes fees under a fixed Policy. The zero value is not
// usable; construct with NewEstimator or NewEstimatorFromStore.
type Estimator struct {
	policy Policy
}

// NewEstimator returns an estimator for the given policy. Zero-valued
// policy fields fall back to their defaults.
func NewEstimator(policy Policy) *Estimator {
	def := DefaultPolicy()
	if policy.MinimumFee == 0 {
		policy.MinimumFee = def.MinimumFee
	}
	if policy.MinimumRelayFee == 0 {
		policy.MinimumRelayFee = def.MinimumRelayFee
	}
	if policy.DustThreshold == 0 {
		policy.DustThreshold = def.DustThreshold
	}
	if policy.MaxBlockSize == 0 {
		policy.MaxBlockSize = def.MaxBlockSize
	}
	if policy.MaxMoney == 0 {
		policy.MaxMoney = def.MaxMoney
	}
	return &Estimator{policy: policy}
}

// NewEstimatorFromStore returns an estimator whose two legacy base fees are
// read from the persisted settings store, falling back to the defaults for
// unset keys. The remaining policy fields come from policy as in
// NewEstimator.
func NewEstimatorFromStore(policy Policy, store Store) *Estimator {
	policy.MinimumFee = store.Int64(SettingMinimumFee, DefaultMinimumFee)
	policy.MinimumRelayFee = store.Int64(SettingMinimumRelayFee, DefaultMinimumRelayFee)
	return NewEstimator(policy)
}

// Policy returns the estimator's configuration.
func (e *Estimator) Policy() Policy { return e.policy }

// FeeForSize charges the full rate once per started 1000-byte chunk. A
// non-positive rate yields zero; a non-multiple remainder still incurs a
// full chunk's charge.
func (e *Estimator) FeeForSize(size, feeRatePerKB int64) int64 {
	if feeRatePerKB <= 0 {
		return 0
	}
	var fee int64
	for size > 0 {
		size -= 1000
		fee += feeRatePerKB
	}
	return fee
}

// MinimumFee computes the legacy size-tiered minimum fee for relaying
// (sending=false) or sending (sending=true) the transaction.
func (e *Estimator) MinimumFee(transaction *tx.Transaction, sending bool) int64 {
	baseFee := e.policy.MinimumRelayFee
	if sending {
		baseFee = e.policy.MinimumFee
	}
	if baseFee > e.policy.MaxMoney {
		baseFee = e.policy.MaxMoney
	}

	txSize := int64(transaction.TotalSize())
	newBlockSize := 1000 + txSize
	minFee := (1 + txSize/1000) * baseFee

	// Free-transaction carve-outs.
	if newBlockSize == 1 {
		if txSize < freeTxSizeLimit {
			minFee = 0
		}
	} else if newBlockSize < freeBlockSizeLimit {
		minFee = 0
	}

	// Anti-dust override: a below-threshold output disqualifies the
	// transaction from going below the base fee.
	if minFee < baseFee {
		for _, out := range transaction.Outputs() {
			if out.Value < e.policy.DustThreshold {
				minFee = baseFee
				break
			}
		}
	}

	// Congestion surcharge.
	if newBlockSize >= e.policy.MaxBlockSize/2 {
		if newBlockSize >= e.policy.MaxBlockSize {
			return e.policy.MaxMoney
		}
		minFee *= e.policy.MaxBlockSize / (e.policy.MaxBlockSize - newBlockSize)
	}

	if minFee < 0 || minFee > e.policy.MaxMoney {
		minFee = e.policy.MaxMoney
	}
	return minFee
}
