package reputation

import (
	"github.com/nspcc-dev/dapp-ledger-contract/common"
	cst "github.com/nspcc-dev/dapp-ledger-contract/contracts/reputation/reputationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Record is a prediction history of the user along with the reputation
	// score derived from it.
	Record struct {
		// Total number of recorded predictions.
		PredictionCount int
		// Number of predictions which turned out to be correct.
		CorrectPredictions int
		// Sum of stakes of all predictions.
		TotalStake int
		// Accuracy percentage plus one point per StakeUnit of TotalStake.
		ReputationScore int
	}

	// counters is the stored part of Record. Score is never stored, it is
	// recomputed from the counters every time.
	counters struct {
		PredictionCount    int
		CorrectPredictions int
		TotalStake         int
	}
)

const reputationPrefix = 'r'

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	runtime.Log("reputation contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("reputation contract updated")
}

// RecordOutcome method accounts one more prediction of the user: whether it
// was correct and how much was staked on it. The first call for the user
// creates the record. Reputation score is recomputed after every call.
//
// It produces OutcomeRecorded notification and always returns true.
func RecordOutcome(user interop.Hash160, wasCorrect bool, stake int) bool {
	if !common.IsAccount(user) {
		panic(cst.InvalidUserError)
	}
	if stake < 0 {
		panic(cst.NegativeStakeError)
	}

	ctx := storage.GetContext()
	key := reputationKey(user)

	c, _ := getCounters(ctx, key)
	c.PredictionCount = c.PredictionCount + 1
	if wasCorrect {
		c.CorrectPredictions = c.CorrectPredictions + 1
	}
	c.TotalStake = c.TotalStake + stake

	common.SetSerialized(ctx, key, c)

	runtime.Notify("OutcomeRecorded", user, wasCorrect, stake, score(c))

	return true
}

// GetReputation method returns the prediction history of the user along with
// the current reputation score.
//
// If no outcome has been recorded for the user, it panics with NotFoundError.
func GetReputation(user interop.Hash160) Record {
	ctx := storage.GetReadOnlyContext()

	c, ok := getCounters(ctx, reputationKey(user))
	if !ok {
		panic(cst.NotFoundError)
	}

	return Record{
		PredictionCount:    c.PredictionCount,
		CorrectPredictions: c.CorrectPredictions,
		TotalStake:         c.TotalStake,
		ReputationScore:    score(c),
	}
}

// ReputationScore method returns current reputation score of the user.
//
// If no outcome has been recorded for the user, it panics with NotFoundError.
func ReputationScore(user interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()

	c, ok := getCounters(ctx, reputationKey(user))
	if !ok {
		panic(cst.NotFoundError)
	}

	return score(c)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func reputationKey(user interop.Hash160) []byte {
	return append([]byte{reputationPrefix}, user...)
}

func getCounters(ctx storage.Context, key []byte) (counters, bool) {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(counters), true
	}

	return counters{}, false
}

// score is not capped: accuracy contributes at most 100 points while stake
// contributes without limit.
func score(c counters) int {
	accuracy := c.CorrectPredictions * 100 / c.PredictionCount
	return accuracy + c.TotalStake/cst.StakeUnit
}
