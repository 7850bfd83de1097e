// Package funding contains RPC wrappers for Research Funding contract.
package funding

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// FundingProject is a contract-specific funding.Project type used by its methods.
type FundingProject struct {
	Creator util.Uint160
	Title string
	Description string
	FundingGoal *big.Int
	CurrentFunding *big.Int
	ExpirationDate *big.Int
}

// ProjectCreatedEvent represents "ProjectCreated" event emitted by the contract.
type ProjectCreatedEvent struct {
	ProjectID *big.Int
	Creator util.Uint160
	FundingGoal *big.Int
	ExpirationDate *big.Int
}

// ProjectFundedEvent represents "ProjectFunded" event emitted by the contract.
type ProjectFundedEvent struct {
	ProjectID *big.Int
	Funder util.Uint160
	Amount *big.Int
}

// FundsWithdrawnEvent represents "FundsWithdrawn" event emitted by the contract.
type FundsWithdrawnEvent struct {
	ProjectID *big.Int
	Creator util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
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

// Count invokes `count` method of contract.
func (c *ContractReader) Count() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "count"))
}

// Funders invokes `funders` method of contract.
func (c *ContractReader) Funders(projectID *big.Int) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "funders", projectID))
}

// GetFunderContribution invokes `getFunderContribution` method of contract.
func (c *ContractReader) GetFunderContribution(projectID *big.Int, funder util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getFunderContribution", projectID, funder))
}

// GetProject invokes `getProject` method of contract.
func (c *ContractReader) GetProject(projectID *big.Int) (*FundingProject, error) {
	return itemToFundingProject(unwrap.Item(c.invoker.Call(c.hash, "getProject", projectID)))
}

// IsExpired invokes `isExpired` method of contract.
func (c *ContractReader) IsExpired(projectID *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isExpired", projectID))
}

// ProjectsOf invokes `projectsOf` method of contract.
func (c *ContractReader) ProjectsOf(creator util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "projectsOf", creator))
}

// ProjectsOfExpanded is similar to ProjectsOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ProjectsOfExpanded(creator util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "projectsOf", _numOfIteratorItems, creator))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateProject creates a transaction invoking `createProject` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateProject(creator util.Uint160, title string, description string, fundingGoal *big.Int, duration *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createProject", creator, title, description, fundingGoal, duration)
}

// CreateProjectTransaction creates a transaction invoking `createProject` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateProjectTransaction(creator util.Uint160, title string, description string, fundingGoal *big.Int, duration *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createProject", creator, title, description, fundingGoal, duration)
}

// CreateProjectUnsigned creates a transaction invoking `createProject` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateProjectUnsigned(creator util.Uint160, title string, description string, fundingGoal *big.Int, duration *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createProject", nil, creator, title, description, fundingGoal, duration)
}

func (c *Contract) scriptForFundProject(projectID *big.Int, funder util.Uint160, amount *big.Int) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(c.hash, "fundProject", projectID, funder, amount)
}

// FundProject creates a transaction invoking `fundProject` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FundProject(projectID *big.Int, funder util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	script, err := c.scriptForFundProject(projectID, funder, amount)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

// FundProjectTransaction creates a transaction invoking `fundProject` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FundProjectTransaction(projectID *big.Int, funder util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForFundProject(projectID, funder, amount)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

// FundProjectUnsigned creates a transaction invoking `fundProject` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FundProjectUnsigned(projectID *big.Int, funder util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForFundProject(projectID, funder, amount)
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

// WithdrawFunds creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) WithdrawFunds(projectID *big.Int, caller util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdrawFunds", projectID, caller)
}

// WithdrawFundsTransaction creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawFundsTransaction(projectID *big.Int, caller util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdrawFunds", projectID, caller)
}

// WithdrawFundsUnsigned creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawFundsUnsigned(projectID *big.Int, caller util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdrawFunds", nil, projectID, caller)
}

// itemToFundingProject converts stack item into *FundingProject.
func itemToFundingProject(item stackitem.Item, err error) (*FundingProject, error) {
	if err != nil {
		return nil, err
	}
	var res = new(FundingProject)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of FundingProject from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *FundingProject) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Creator, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Creator: %w", err)
	}

	index++
	res.Title, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.Description, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.FundingGoal, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field FundingGoal: %w", err)
	}

	index++
	res.CurrentFunding, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CurrentFunding: %w", err)
	}

	index++
	res.ExpirationDate, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ExpirationDate: %w", err)
	}

	return nil
}

// ProjectCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ProjectCreated" name from the provided [result.ApplicationLog].
func ProjectCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ProjectCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ProjectCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ProjectCreated" {
				continue
			}
			event := new(ProjectCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ProjectCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ProjectCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *ProjectCreatedEvent) FromStackItem(item *stackitem.Array) error {
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
	e.ProjectID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ProjectID: %w", err)
	}

	index++
	e.Creator, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Creator: %w", err)
	}

	index++
	e.FundingGoal, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field FundingGoal: %w", err)
	}

	index++
	e.ExpirationDate, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ExpirationDate: %w", err)
	}

	return nil
}

// ProjectFundedEventsFromApplicationLog retrieves a set of all emitted events
// with "ProjectFunded" name from the provided [result.ApplicationLog].
func ProjectFundedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ProjectFundedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ProjectFundedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ProjectFunded" {
				continue
			}
			event := new(ProjectFundedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ProjectFundedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ProjectFundedEvent or
// returns an error if it's not possible to do to so.
func (e *ProjectFundedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ProjectID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ProjectID: %w", err)
	}

	index++
	e.Funder, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Funder: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FundsWithdrawnEventsFromApplicationLog retrieves a set of all emitted events
// with "FundsWithdrawn" name from the provided [result.ApplicationLog].
func FundsWithdrawnEventsFromApplicationLog(log *result.ApplicationLog) ([]*FundsWithdrawnEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FundsWithdrawnEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "FundsWithdrawn" {
				continue
			}
			event := new(FundsWithdrawnEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FundsWithdrawnEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FundsWithdrawnEvent or
// returns an error if it's not possible to do to so.
func (e *FundsWithdrawnEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ProjectID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ProjectID: %w", err)
	}

	index++
	e.Creator, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Creator: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
