// Amount bookkeeping.
//
// A transaction's fee and its total input amount are mutually derived:
// knowing one plus the always-computable outputs amount determines the
// other. The two fields therefore share the AmountUnknown sentinel and are
// never both independently authoritative: setting one explicitly
// invalidates the other, which stays re-derivable.
package tx

// OutputsAmount is the sum of all output values. Outputs always carry known
// values, so the result is always known.
func (t *Transaction) OutputsAmount() int64 {
	var sum int64
	for _, out := range t.outs {
		sum += out.Value
	}
	return sum
}

// SetFee records an explicit fee and marks the cached inputs amount unknown.
func (t *Transaction) SetFee(fee int64) {
	t.fee = fee
	t.inputsAmount = AmountUnknown
}

// SetInputsAmount records an explicit total input amount and marks the
// cached fee unknown.
func (t *Transaction) SetInputsAmount(amount int64) {
	t.inputsAmount = amount
	t.fee = AmountUnknown
}

// InputsAmount is the total amount entering the transaction. Resolution
// order: the explicitly set value; else fee + OutputsAmount when the fee is
// known; else the sum of per-input cached values. If any input's cached
// value is unknown the whole result is AmountUnknown; no partial sums.
func (t *Transaction) InputsAmount() int64 {
	if t.inputsAmount != AmountUnknown {
		return t.inputsAmount
	}
	if t.fee != AmountUnknown {
		return t.fee + t.OutputsAmount()
	}
	var sum int64
	for _, in := range t.ins {
		if in.Value == AmountUnknown {
			return AmountUnknown
		}
		sum += in.Value
	}
	return sum
}

// Fee is the difference between what enters and what leaves the
// transaction: the explicitly set value, else InputsAmount − OutputsAmount
// when the inputs amount is known, else AmountUnknown.
func (t *Transaction) Fee() int64 {
	if t.fee != AmountUnknown {
		return t.fee
	}
	if in := t.InputsAmount(); in != AmountUnknown {
		return in - t.OutputsAmount()
	}
	return AmountUnknown
}
