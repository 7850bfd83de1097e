package funding

import (
	"github.com/nspcc-dev/dapp-ledger-contract/common"
	cst "github.com/nspcc-dev/dapp-ledger-contract/contracts/funding/fundingconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Project is a research project raising funds.
type Project struct {
	// Account which created the project and may withdraw its funds.
	Creator interop.Hash160
	// Opaque texts set on creation.
	Title       string
	Description string
	// Amount required for the creator to withdraw.
	FundingGoal int
	// Amount collected since creation or the last withdrawal.
	CurrentFunding int
	// Block height starting from which funding is rejected.
	ExpirationDate int
}

const (
	nextIDKey = 'n'

	projectPrefix      = 'p'
	contributionPrefix = 'f'
	creatorIndexPrefix = 'o'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	runtime.Log("funding contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("funding contract updated")
}

// CreateProject method registers new project and returns its identifier.
// Identifiers are sequential starting from 0 and are never reused.
//
// Expiration height is the current block height plus duration. Neither goal
// nor duration are validated: zero goal can be withdrawn right away, and
// non-positive duration creates a project which is already expired.
//
// It produces ProjectCreated notification.
func CreateProject(creator interop.Hash160, title, description string, fundingGoal, duration int) int {
	if !common.IsAccount(creator) {
		panic(cst.InvalidCreatorError)
	}

	ctx := storage.GetContext()

	id := common.GetInt(ctx, nextIDKey)
	storage.Put(ctx, nextIDKey, id+1)

	p := Project{
		Creator:        creator,
		Title:          title,
		Description:    description,
		FundingGoal:    fundingGoal,
		CurrentFunding: 0,
		ExpirationDate: ledger.CurrentIndex() + duration,
	}

	idKey := projectIDKey(id)
	common.SetSerialized(ctx, projectKey(idKey), p)
	storage.Put(ctx, creatorIndexKey(creator, idKey), id)

	runtime.Notify("ProjectCreated", id, creator, fundingGoal, p.ExpirationDate)

	return id
}

// FundProject method adds amount to the project funding and to the
// contribution of the funder. Repeated calls accumulate. Funding above the
// goal is allowed.
//
// If the project doesn't exist, it panics with NotFoundError. If current block
// height has reached project expiration height, it panics with ExpiredError.
//
// It produces ProjectFunded notification.
func FundProject(projectID int, funder interop.Hash160, amount int) bool {
	if !common.IsAccount(funder) {
		panic(cst.InvalidFunderError)
	}
	if amount <= 0 {
		panic(cst.NonPositiveAmountError)
	}

	ctx := storage.GetContext()
	idKey := projectIDKey(projectID)
	key := projectKey(idKey)

	p, ok := getProject(ctx, key)
	if !ok {
		panic(cst.NotFoundError)
	}
	if isExpired(p) {
		panic(cst.ExpiredError)
	}

	p.CurrentFunding = p.CurrentFunding + amount
	common.SetSerialized(ctx, key, p)

	cKey := contributionKey(idKey, funder)
	storage.Put(ctx, cKey, common.GetInt(ctx, cKey)+amount)

	runtime.Notify("ProjectFunded", projectID, funder, amount)

	return true
}

// WithdrawFunds method resets project funding to zero and returns the amount
// it had. Only the project creator can withdraw (the transaction must be
// witnessed by the creator), and only once the funding goal is reached.
// Expiration doesn't matter. Contributions of the funders stay unchanged.
//
// If the project doesn't exist, it panics with NotFoundError. Both wrong
// caller and unreached goal lead to panic with UnauthorizedError.
//
// It produces FundsWithdrawn notification.
func WithdrawFunds(projectID int, caller interop.Hash160) int {
	ctx := storage.GetContext()
	key := projectKey(projectIDKey(projectID))

	p, ok := getProject(ctx, key)
	if !ok {
		panic(cst.NotFoundError)
	}
	if !common.IsAccount(caller) || !caller.Equals(p.Creator) || !runtime.CheckWitness(caller) {
		runtime.Log("withdrawal denied: caller is not the project creator")
		panic(cst.UnauthorizedError)
	}
	if p.CurrentFunding < p.FundingGoal {
		runtime.Log("withdrawal denied: funding goal is not reached")
		panic(cst.UnauthorizedError)
	}

	amount := p.CurrentFunding
	p.CurrentFunding = 0
	common.SetSerialized(ctx, key, p)

	runtime.Notify("FundsWithdrawn", projectID, caller, amount)

	return amount
}

// GetProject method returns the project.
//
// If the project doesn't exist, it panics with NotFoundError.
func GetProject(projectID int) Project {
	ctx := storage.GetReadOnlyContext()

	p, ok := getProject(ctx, projectKey(projectIDKey(projectID)))
	if !ok {
		panic(cst.NotFoundError)
	}

	return p
}

// GetFunderContribution method returns the total amount the funder has put
// into the project. It returns 0 for unknown funders and projects.
func GetFunderContribution(projectID int, funder interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, contributionKey(projectIDKey(projectID), funder))
}

// IsExpired method checks whether the project accepts no more funding.
//
// If the project doesn't exist, it panics with NotFoundError.
func IsExpired(projectID int) bool {
	return isExpired(GetProject(projectID))
}

// Count method returns the number of created projects.
func Count() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, nextIDKey)
}

// ProjectsOf method returns an iterator over identifiers of the projects
// created by the given account.
func ProjectsOf(creator interop.Hash160) iterator.Iterator {
	if !common.IsAccount(creator) {
		panic(cst.InvalidCreatorError)
	}

	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{creatorIndexPrefix}, creator...), storage.ValuesOnly)
}

// Funders method returns all accounts which have ever funded the project.
//
// If the project doesn't exist, it panics with NotFoundError.
func Funders(projectID int) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	idKey := projectIDKey(projectID)

	_, ok := getProject(ctx, projectKey(idKey))
	if !ok {
		panic(cst.NotFoundError)
	}

	list := []interop.Hash160{}

	it := storage.Find(ctx, append([]byte{contributionPrefix}, idKey...), storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		funder := iterator.Value(it).(interop.Hash160) // it MUST BE `storage.KeysOnly`
		list = append(list, funder)
	}

	return list
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// projectIDKey encodes project identifier for storage keys. Serialized
// integers carry their length, so keys of different projects never share
// a prefix.
func projectIDKey(id int) []byte {
	return std.Serialize(id)
}

func projectKey(idKey []byte) []byte {
	return append([]byte{projectPrefix}, idKey...)
}

func contributionKey(idKey []byte, funder interop.Hash160) []byte {
	key := append([]byte{contributionPrefix}, idKey...)
	return append(key, funder...)
}

func creatorIndexKey(creator interop.Hash160, idKey []byte) []byte {
	key := append([]byte{creatorIndexPrefix}, creator...)
	return append(key, idKey...)
}

func getProject(ctx storage.Context, key []byte) (Project, bool) {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(Project), true
	}

	return Project{}, false
}

func isExpired(p Project) bool {
	return ledger.CurrentIndex() >= p.ExpirationDate
}
