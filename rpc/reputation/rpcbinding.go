// Package reputation contains RPC wrappers for Prediction Reputation contract.
package reputation

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// ReputationRecord is a contract-specific reputation.Record type used by its methods.
type ReputationRecord struct {
	PredictionCount *big.Int
	CorrectPredictions *big.Int
	TotalStake *big.Int
	ReputationScore *big.Int
}

// OutcomeRecordedEvent represents "OutcomeRecorded" event emitted by the contract.
type OutcomeRecordedEvent struct {
	User util.Uint160
	WasCorrect bool
	Stake *big.Int
	ReputationScore *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetReputation invokes `getReputation` method of contract.
func (c *ContractReader) GetReputation(user util.Uint160) (*ReputationRecord, error) {
	return itemToReputationRecord(unwrap.Item(c.invoker.Call(c.hash, "getReputation", user)))
}

// ReputationScore invokes `reputationScore` method of contract.
func (c *ContractReader) ReputationScore(user util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "reputationScore", user))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

func (c *Contract) scriptForRecordOutcome(user util.Uint160, wasCorrect bool, stake *big.Int) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(c.hash, "recordOutcome", user, wasCorrect, stake)
}

// RecordOutcome creates a transaction invoking `recordOutcome` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RecordOutcome(user util.Uint160, wasCorrect bool, stake *big.Int) (util.Uint256, uint32, error) {
	script, err := c.scriptForRecordOutcome(user, wasCorrect, stake)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

// RecordOutcomeTransaction creates a transaction invoking `recordOutcome` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RecordOutcomeTransaction(user util.Uint160, wasCorrect bool, stake *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForRecordOutcome(user, wasCorrect, stake)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

// RecordOutcomeUnsigned creates a transaction invoking `recordOutcome` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RecordOutcomeUnsigned(user util.Uint160, wasCorrect bool, stake *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForRecordOutcome(user, wasCorrect, stake)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToReputationRecord converts stack item into *ReputationRecord.
func itemToReputationRecord(item stackitem.Item, err error) (*ReputationRecord, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ReputationRecord)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of ReputationRecord from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ReputationRecord) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.PredictionCount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field PredictionCount: %w", err)
	}

	index++
	res.CorrectPredictions, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CorrectPredictions: %w", err)
	}

	index++
	res.TotalStake, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalStake: %w", err)
	}

	index++
	res.ReputationScore, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReputationScore: %w", err)
	}

	return nil
}

// OutcomeRecordedEventsFromApplicationLog retrieves a set of all emitted events
// with "OutcomeRecorded" name from the provided [result.ApplicationLog].
func OutcomeRecordedEventsFromApplicationLog(log *result.ApplicationLog) ([]*OutcomeRecordedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OutcomeRecordedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OutcomeRecorded" {
				continue
			}
			event := new(OutcomeRecordedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OutcomeRecordedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OutcomeRecordedEvent or
// returns an error if it's not possible to do to so.
func (e *OutcomeRecordedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.User, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	index++
	e.WasCorrect, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field WasCorrect: %w", err)
	}

	index++
	e.Stake, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Stake: %w", err)
	}

	index++
	e.ReputationScore, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReputationScore: %w", err)
	}

	return nil
}
