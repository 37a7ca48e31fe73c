// Package composer implements the Atomic Transaction Composer: a small state
// machine that accumulates transactions and ABI method calls into one atomic
// group, signs, submits, and decodes method return values, per spec.md
// section 4.F. Grounded directly on
// _examples/original_source/src/atomic_transaction_composer/mod.rs.
package composer

import (
	"context"

	"github.com/google/uuid"

	"github.com/algopulse/algoabi/abi"
	"github.com/algopulse/algoabi/internal/logging"
	"github.com/algopulse/algoabi/method"
	"github.com/algopulse/algoabi/node"
	"github.com/algopulse/algoabi/signer"
	"github.com/algopulse/algoabi/txn"
)

// Status is the composer's monotonically increasing state.
type Status int

const (
	StatusBuilding Status = iota
	StatusBuilt
	StatusSigned
	StatusSubmitted
	StatusCommitted
)

func (s Status) String() string {
	switch s {
	case StatusBuilding:
		return "Building"
	case StatusBuilt:
		return "Built"
	case StatusSigned:
		return "Signed"
	case StatusSubmitted:
		return "Submitted"
	case StatusCommitted:
		return "Committed"
	default:
		return "Unknown"
	}
}

// maxGroupSize is the chain's hard limit on an atomic transaction group.
const maxGroupSize = 16

// maxAbiArgCount is the number of ABI app-call argument slots available
// before the remaining arguments must be wrapped into one trailing tuple
// (the selector occupies the first app-call argument, leaving 15 for the
// method's own arguments; the 15th of those becomes a tuple once a 16th is
// needed).
const maxAbiArgCount = 15

// foreignObjectUintBits is the ABI type width used to encode a resolved
// foreign-array index.
const foreignObjectUintBits = 8

// entry is one slot in the group under construction.
type entry struct {
	txn    txn.Transaction
	signer signer.TransactionSigner
	method *method.Method // nil unless this slot is an ABI method call
}

// Composer accumulates transactions (plain or ABI method calls) into one
// atomic group and carries it through signing, submission, and confirmation.
type Composer struct {
	status  Status
	entries []entry

	signedTxs  []txn.SignedTransaction
	submitted  []string
	result     *ExecuteResult

	// confirmationRoundLimit bounds how many wait-for-block cycles Execute
	// will spend waiting for the group's first method call to confirm.
	confirmationRoundLimit int
}

// New returns an empty composer in the Building state.
func New() *Composer {
	return &Composer{confirmationRoundLimit: 10}
}

// WithConfirmationRoundLimit overrides the default number of rounds Execute
// will wait for confirmation before giving up.
func (c *Composer) WithConfirmationRoundLimit(rounds int) *Composer {
	c.confirmationRoundLimit = rounds
	return c
}

// Status reports the composer's current state.
func (c *Composer) Status() Status { return c.status }

// Count reports the number of transactions currently in the group.
func (c *Composer) Count() int { return len(c.entries) }

// Clone returns a new Building composer seeded with the same transactions,
// each with its group id cleared, per spec.md section 4.F.
func (c *Composer) Clone() *Composer {
	cloned := &Composer{confirmationRoundLimit: c.confirmationRoundLimit}
	for _, e := range c.entries {
		t := e.txn
		t.Group = [32]byte{}
		cloned.entries = append(cloned.entries, entry{txn: t, signer: e.signer, method: e.method})
	}
	return cloned
}

// AddTransaction adds an already-built transaction and its signer to the
// group.
func (c *Composer) AddTransaction(t txn.Transaction, s signer.TransactionSigner) error {
	if c.status != StatusBuilding {
		return newError(KindWrongState, "status must be Building to add transactions, got %s", c.status)
	}
	if len(c.entries) >= maxGroupSize {
		return newError(KindGroupFull, "reached max group size: %d", maxGroupSize)
	}
	if t.HasGroup() {
		return newError(KindInvalidValue, "transaction already carries a group id")
	}
	c.entries = append(c.entries, entry{txn: t, signer: s})
	return nil
}

// MethodCallParams carries everything needed to synthesize one ABI method
// call's application-call transaction (and any companion transactions its
// Tx-classified arguments bring along).
type MethodCallParams struct {
	AppID  uint64
	Method *method.Method
	Args   []MethodArg

	Sender       [32]byte
	OnCompletion txn.OnCompletion

	ApprovalProgram   []byte
	ClearProgram      []byte
	GlobalSchema      txn.StateSchema
	LocalSchema       txn.StateSchema
	ExtraProgramPages uint64

	Note    []byte
	Lease   [32]byte
	RekeyTo [32]byte

	SuggestedParams node.SuggestedParams
	Signer          signer.TransactionSigner
}

// AddMethodCall classifies each argument per the method's descriptor,
// resolves reference arguments against this call's foreign arrays,
// collects transaction arguments as companion group entries, ABI-encodes
// the selector plus the remaining arguments (wrapping any overflow past
// maxAbiArgCount into a trailing tuple), and appends the synthesized
// application-call transaction to the group.
func (c *Composer) AddMethodCall(params MethodCallParams) error {
	if c.status != StatusBuilding {
		return newError(KindWrongState, "status must be Building to add a method call, got %s", c.status)
	}
	if len(params.Args) != len(params.Method.Args) {
		return newError(KindInvalidValue, "incorrect number of arguments: got %d, method declares %d",
			len(params.Args), len(params.Method.Args))
	}
	txCount := params.Method.TxCount()
	if len(c.entries)+txCount > maxGroupSize {
		return newError(KindGroupFull, "reached max group size: %d", maxGroupSize)
	}

	foreign := foreignArrays{sender: params.Sender, appID: params.AppID}

	var companions []entry
	var abiTypes []abi.Type
	var abiValues []abi.Value

	for i, argDesc := range params.Method.Args {
		arg := params.Args[i]

		switch argDesc.Class() {
		case method.ArgClassTx:
			if arg.Kind != MethodArgTx {
				return newError(KindInvalidValue, "argument %d: expected a transaction, got a different kind", i)
			}
			if arg.Tx.Transaction.HasGroup() {
				return newError(KindInvalidValue, "argument %d: transaction already carries a group id", i)
			}
			if kind := argDesc.TransactionKind(); kind != method.TxnAny {
				if want, ok := transactionKindToTxnType(kind); ok && arg.Tx.Transaction.Type != want {
					return newError(KindInvalidValue, "argument %d: expected transaction type %s, got %s", i, want, arg.Tx.Transaction.Type)
				}
			}
			companions = append(companions, entry{txn: arg.Tx.Transaction, signer: arg.Tx.Signer})

		case method.ArgClassRef:
			idxType, err := abi.UintType(foreignObjectUintBits)
			if err != nil {
				return wrapError(KindInvalidType, err, "building foreign-object index type")
			}
			var idx uint8
			switch argDesc.ReferenceKind() {
			case method.RefAccount:
				if arg.Kind != MethodArgRefAccount {
					return newError(KindInvalidValue, "argument %d: expected an account reference", i)
				}
				idx = foreign.addAccount(arg.RefAccount)
			case method.RefAsset:
				if arg.Kind != MethodArgRefAsset {
					return newError(KindInvalidValue, "argument %d: expected an asset reference", i)
				}
				idx = foreign.addAsset(arg.RefAssetID)
			case method.RefApplication:
				if arg.Kind != MethodArgRefApplication {
					return newError(KindInvalidValue, "argument %d: expected an application reference", i)
				}
				idx = foreign.addApplication(arg.RefApplicationID)
			}
			abiTypes = append(abiTypes, idxType)
			abiValues = append(abiValues, abi.Uint64Value(uint64(idx)))

		case method.ArgClassAbiObj:
			if arg.Kind != MethodArgAbi {
				return newError(KindInvalidValue, "argument %d: expected a plain ABI value", i)
			}
			t, _ := argDesc.AbiType()
			abiTypes = append(abiTypes, t)
			abiValues = append(abiValues, arg.Abi)
		}
	}

	if len(abiTypes) > maxAbiArgCount {
		wrapFrom := maxAbiArgCount - 1
		tupleType, err := abi.TupleType(abiTypes[wrapFrom:])
		if err != nil {
			return wrapError(KindEncodeOverflow, err, "wrapping overflowing method arguments into a tuple")
		}
		tupleValue := abi.ArrayValue(append([]abi.Value(nil), abiValues[wrapFrom:]...))
		abiTypes = append(abiTypes[:wrapFrom], tupleType)
		abiValues = append(abiValues[:wrapFrom], tupleValue)
	}

	selector := params.Method.Selector()
	appArgs := make([][]byte, 0, 1+len(abiTypes))
	appArgs = append(appArgs, append([]byte{}, selector[:]...))
	for i, t := range abiTypes {
		encoded, err := abi.Encode(t, abiValues[i])
		if err != nil {
			return wrapError(KindEncodeOverflow, err, "encoding method argument %d", i)
		}
		appArgs = append(appArgs, encoded)
	}

	appCall := txn.Transaction{
		Type:              txn.TypeAppCall,
		Sender:            params.Sender,
		Fee:               params.SuggestedParams.MinFee,
		FirstValid:        params.SuggestedParams.FirstValid,
		LastValid:         params.SuggestedParams.LastValid,
		GenesisID:         params.SuggestedParams.GenesisID,
		GenesisHash:       params.SuggestedParams.GenesisHash,
		Note:              params.Note,
		Lease:             params.Lease,
		RekeyTo:           params.RekeyTo,
		ApplicationID:     params.AppID,
		OnCompletion:      params.OnCompletion,
		ApprovalProgram:   params.ApprovalProgram,
		ClearProgram:      params.ClearProgram,
		GlobalSchema:      params.GlobalSchema,
		LocalSchema:       params.LocalSchema,
		ExtraProgramPages: params.ExtraProgramPages,
		ApplicationArgs:   appArgs,
	}
	foreign.apply(&appCall)

	c.entries = append(c.entries, companions...)
	c.entries = append(c.entries, entry{txn: appCall, signer: params.Signer, method: params.Method})

	return nil
}

// transactionKindToTxnType maps a method argument's pinned transaction kind
// to the corresponding txn.Type, when it names one (TxnAny has none).
func transactionKindToTxnType(k method.TransactionKind) (txn.Type, bool) {
	switch k {
	case method.TxnPay:
		return txn.TypePayment, true
	case method.TxnKeyReg:
		return txn.TypeKeyReg, true
	case method.TxnAssetConfig:
		return txn.TypeAssetConfig, true
	case method.TxnAssetXfer:
		return txn.TypeAssetXfer, true
	case method.TxnAssetFreeze:
		return txn.TypeAssetFreeze, true
	case method.TxnAppCall:
		return txn.TypeAppCall, true
	default:
		return "", false
	}
}

// BuildGroup assigns a group id across every transaction currently in the
// composer (skipped when there is exactly one) and transitions to Built.
// Idempotent: calling it again once already Built or later is a no-op.
func (c *Composer) BuildGroup() error {
	if c.status >= StatusBuilt {
		return nil
	}
	if len(c.entries) == 0 {
		return newError(KindWrongState, "cannot build a transaction group with 0 transactions")
	}
	if len(c.entries) > 1 {
		members := make([]txn.Transaction, len(c.entries))
		for i, e := range c.entries {
			members[i] = e.txn
		}
		gid := txn.GroupID(members)
		for i := range c.entries {
			c.entries[i].txn.Group = gid
		}
	}
	c.status = StatusBuilt
	return nil
}

// GatherSignatures builds the group if needed, then signs every transaction
// by partitioning entries by signer identity (each partition holds every
// entry, contiguous or not, whose signer matches the first unvisited entry's)
// and calling SignBatch once per partition, folding results back into their
// original positions. Idempotent once Signed or later.
func (c *Composer) GatherSignatures() error {
	if c.status >= StatusSigned {
		return nil
	}
	if err := c.BuildGroup(); err != nil {
		return err
	}

	signed := make([]txn.SignedTransaction, len(c.entries))
	visited := make([]bool, len(c.entries))

	for i := range c.entries {
		if visited[i] {
			continue
		}

		var groupIdx []int
		for j := i; j < len(c.entries); j++ {
			if !visited[j] && c.entries[j].signer.Identity() == c.entries[i].signer.Identity() {
				groupIdx = append(groupIdx, j)
				visited[j] = true
			}
		}

		batch := make([]txn.Transaction, len(groupIdx))
		for k, idx := range groupIdx {
			batch[k] = c.entries[idx].txn
		}
		batchSigned, err := c.entries[i].signer.SignBatch(batch)
		if err != nil {
			return wrapError(KindSignerMismatch, err, "signing batch for signer %s", c.entries[i].signer.Identity())
		}
		if len(batchSigned) != len(groupIdx) {
			return newError(KindSignerMismatch, "signer %s returned %d signed transactions for a batch of %d",
				c.entries[i].signer.Identity(), len(batchSigned), len(groupIdx))
		}
		for k, idx := range groupIdx {
			signed[idx] = batchSigned[k]
		}
	}

	c.signedTxs = signed
	c.status = StatusSigned
	return nil
}

// txIDs computes each entry's transaction id locally from its (now
// group-assigned) transaction, in group order.
func (c *Composer) txIDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = txn.ID(e.txn)
	}
	return ids
}

// Submit gathers signatures if needed, broadcasts the signed group as one
// atomic payload, and transitions to Submitted. Idempotent: once already
// Submitted or later, returns the cached transaction ids.
func (c *Composer) Submit(ctx context.Context, n node.Node) ([]string, error) {
	if c.status >= StatusSubmitted {
		return c.submitted, nil
	}
	if err := c.GatherSignatures(); err != nil {
		return nil, err
	}

	correlationID := uuid.New().String()
	raw := node.EncodeSignedGroup(c.signedTxs)
	if _, err := n.BroadcastRaw(ctx, raw); err != nil {
		logging.WithField("correlation_id", correlationID).Errorf("composer: broadcast failed: %v", err)
		return nil, wrapError(KindSubmissionFailed, err, "broadcasting transaction group")
	}

	c.submitted = c.txIDs()
	c.status = StatusSubmitted
	logging.WithFields(map[string]interface{}{
		"correlation_id": correlationID,
		"group_size":     len(c.submitted),
	}).Infof("composer: submitted transaction group")
	return c.submitted, nil
}

// MethodResult is the decoded outcome of one method-call entry in the
// executed group.
type MethodResult struct {
	TxID        string
	Info        node.PendingTransactionInfo
	ReturnValue ReturnValue
}

// ExecuteResult is the outcome of a successful Execute call.
type ExecuteResult struct {
	ConfirmedRound uint64
	TxIDs          []string
	MethodResults  []MethodResult
}

// Execute submits the group (if needed), waits for the group's first
// method-call transaction to confirm, fetches confirmation info for every
// other method-call entry, decodes each one's return value, and transitions
// to Committed. Idempotent: once already Committed, returns the cached
// result.
func (c *Composer) Execute(ctx context.Context, n node.Node) (*ExecuteResult, error) {
	if c.status >= StatusCommitted {
		return c.result, nil
	}

	txIDs, err := c.Submit(ctx, n)
	if err != nil {
		return nil, err
	}

	waitIdx := -1
	for i, e := range c.entries {
		if e.method != nil {
			waitIdx = i
			break
		}
	}

	var anchor node.PendingTransactionInfo
	if waitIdx >= 0 {
		anchor, err = c.awaitConfirmation(ctx, n, txIDs[waitIdx], c.entries[waitIdx].txn.FirstValid)
		if err != nil {
			return nil, err
		}
	}

	var results []MethodResult
	for i, e := range c.entries {
		if e.method == nil {
			continue
		}
		info := anchor
		if i != waitIdx {
			fetched, err := n.PendingTransaction(ctx, txIDs[i])
			if err != nil {
				results = append(results, MethodResult{
					TxID:        txIDs[i],
					ReturnValue: ReturnValue{Err: wrapError(KindAbiReturnDecodeError, err, "fetching confirmation for %s", txIDs[i])},
				})
				continue
			}
			info = fetched
		}
		results = append(results, MethodResult{
			TxID:        txIDs[i],
			Info:        info,
			ReturnValue: decodeReturnValue(e.method, info),
		})
	}

	result := &ExecuteResult{
		ConfirmedRound: anchor.ConfirmedRound,
		TxIDs:          txIDs,
		MethodResults:  results,
	}
	c.result = result
	c.status = StatusCommitted
	logging.WithField("confirmed_round", result.ConfirmedRound).Infof("composer: group committed")
	return result, nil
}

// awaitConfirmation polls the node for txID's confirmation, blocking on the
// node's native wait-for-block endpoint between attempts rather than
// sleeping client-side, bounded by the composer's confirmation round limit.
func (c *Composer) awaitConfirmation(ctx context.Context, n node.Node, txID string, firstValid uint64) (node.PendingTransactionInfo, error) {
	round := firstValid
	for attempt := 0; attempt < c.confirmationRoundLimit; attempt++ {
		info, err := n.PendingTransaction(ctx, txID)
		if err != nil {
			return node.PendingTransactionInfo{}, wrapError(KindSubmissionFailed, err, "fetching pending transaction %s", txID)
		}
		if info.PoolError != "" {
			return node.PendingTransactionInfo{}, newError(KindSubmissionFailed, "transaction %s rejected from pool: %s", txID, info.PoolError)
		}
		if info.Confirmed() {
			return info, nil
		}
		if err := n.WaitAfterBlock(ctx, round); err != nil {
			return node.PendingTransactionInfo{}, wrapError(KindSubmissionFailed, err, "waiting for block after round %d", round)
		}
		round++
	}
	return node.PendingTransactionInfo{}, newError(KindConfirmationTimeout,
		"transaction %s did not confirm within %d rounds", txID, c.confirmationRoundLimit)
}
