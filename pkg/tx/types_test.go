package tx

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputOwnership(t *testing.T) {
	a := NewTransaction()
	b := NewTransaction()

	in := NewTxInput()
	require.NoError(t, a.AddInput(in))

	// Attaching an input owned by A into B is a consistency violation.
	err := b.AddInput(in)
	require.Error(t, err)
	var oerr *OwnershipError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "input", oerr.Entity)
	assert.Empty(t, b.Inputs())

	// Re-linking to the owner is a no-op, not a duplicate.
	require.NoError(t, a.AddInput(in))
	assert.Len(t, a.Inputs(), 1)
}

func TestOutputOwnership(t *testing.T) {
	a := NewTransaction()
	b := NewTransaction()

	out := NewTxOutput(1000, []byte{0x51})
	require.NoError(t, a.AddOutput(out))

	var oerr *OwnershipError
	require.ErrorAs(t, b.AddOutput(out), &oerr)

	require.NoError(t, a.AddOutput(out))
	assert.Len(t, a.Outputs(), 1)
}

func TestOutputCachesResetOnAttach(t *testing.T) {
	out := NewTxOutput(1000, []byte{0x51})
	out.SetIndex(3)
	out.SetTransactionHash(chainhash.Hash{0xaa})

	a := NewTransaction()
	require.NoError(t, a.AddOutput(out))

	assert.Equal(t, IndexUnknown, out.Index())
	assert.Nil(t, out.TransactionHash())
}

func TestSetOutput(t *testing.T) {
	a := NewTransaction()
	old := NewTxOutput(1000, []byte{0x51})
	require.NoError(t, a.AddOutput(old))

	repl := NewTxOutput(2000, []byte{0x52})
	repl.SetIndex(9)
	require.NoError(t, a.SetOutput(0, repl))

	outs := a.Outputs()
	require.Len(t, outs, 1)
	assert.Equal(t, int64(2000), outs[0].Value)
	assert.Equal(t, IndexUnknown, repl.Index(), "replacement cache must reset")

	// The replaced output is detached and reusable elsewhere.
	b := NewTransaction()
	require.NoError(t, b.AddOutput(old))

	// Out-of-range replacement and stealing an attached output both fail.
	require.Error(t, a.SetOutput(5, NewTxOutput(1, nil)))
	require.Error(t, a.SetOutput(0, old))
}

func TestRemoveAllDetaches(t *testing.T) {
	a := NewTransaction()
	in := NewTxInput()
	out := NewTxOutput(500, nil)
	require.NoError(t, a.AddInput(in))
	require.NoError(t, a.AddOutput(out))

	a.RemoveAllInputs()
	a.RemoveAllOutputs()
	assert.Empty(t, a.Inputs())
	assert.Empty(t, a.Outputs())

	// Detached entities can join another transaction.
	b := NewTransaction()
	require.NoError(t, b.AddInput(in))
	require.NoError(t, b.AddOutput(out))
}

func TestCloneIsIndependent(t *testing.T) {
	orig := buildSampleTx(t)
	orig.SetFee(1500)
	orig.UserInfo = "annotation"
	orig.Confirmations = 2

	clone := orig.Clone()

	assert.Equal(t, orig.Serialize(WitnessEncoding), clone.Serialize(WitnessEncoding))
	assert.Equal(t, orig.Fee(), clone.Fee())
	assert.Equal(t, orig.UserInfo, clone.UserInfo)
	assert.Equal(t, orig.Confirmations, clone.Confirmations)

	// The clone owns fresh copies: mutating it leaves the original alone.
	cloneIns := clone.Inputs()
	cloneIns[0].SignatureScript[0] ^= 0xff
	cloneIns[0].Witness[0][0] ^= 0xff
	clone.Outputs()[0].Value = 1

	assert.NotEqual(t, orig.Serialize(WitnessEncoding), clone.Serialize(WitnessEncoding))
	assert.Equal(t, byte(0x51), orig.Inputs()[0].SignatureScript[0])

	// Clone inputs are linked to the clone, not to the original.
	var oerr *OwnershipError
	require.ErrorAs(t, orig.AddInput(cloneIns[0]), &oerr)
}
