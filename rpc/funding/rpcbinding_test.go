package funding

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke

	batches     [][]stackitem.Item
	traverseErr error
	terminated  []uuid.UUID
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) TraverseIterator(_ uuid.UUID, _ *result.Iterator, num int) ([]stackitem.Item, error) {
	if t.traverseErr != nil {
		return nil, t.traverseErr
	}
	if len(t.batches) == 0 {
		return nil, nil
	}
	b := t.batches[0]
	t.batches = t.batches[1:]
	if len(b) > num {
		panic("batch exceeds requested size")
	}
	return b, nil
}

func (t *testInv) TerminateSession(id uuid.UUID) error {
	t.terminated = append(t.terminated, id)
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: "HALT",
		Stack: items,
	}
}

func projectItem(creator util.Uint160) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(creator.BytesBE()),
		stackitem.NewByteArray([]byte("title")),
		stackitem.NewByteArray([]byte("description")),
		stackitem.Make(1000),
		stackitem.Make(250),
		stackitem.Make(142),
	})
}

func TestGetProject(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})
	creator := util.Uint160{4, 5, 6}

	ti.err = errors.New("bad")
	_, err := r.GetProject(big.NewInt(0))
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(projectItem(creator))
	p, err := r.GetProject(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, &FundingProject{
		Creator:        creator,
		Title:          "title",
		Description:    "description",
		FundingGoal:    big.NewInt(1000),
		CurrentFunding: big.NewInt(250),
		ExpirationDate: big.NewInt(142),
	}, p)

	t.Run("fault", func(t *testing.T) {
		ti.res = &result.Invoke{State: "FAULT", FaultException: "project does not exist"}
		_, err := r.GetProject(big.NewInt(999))
		require.ErrorContains(t, err, "project does not exist")
	})

	t.Run("malformed", func(t *testing.T) {
		for _, item := range []stackitem.Item{
			stackitem.Make(42),
			stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)}),
			stackitem.NewStruct([]stackitem.Item{
				stackitem.NewByteArray([]byte{1, 2, 3}),
				stackitem.NewByteArray([]byte("title")),
				stackitem.NewByteArray([]byte("description")),
				stackitem.Make(1000),
				stackitem.Make(250),
				stackitem.Make(142),
			}),
			stackitem.NewStruct([]stackitem.Item{
				stackitem.NewByteArray(creator.BytesBE()),
				stackitem.NewByteArray([]byte{0xff, 0xfe}),
				stackitem.NewByteArray([]byte("description")),
				stackitem.Make(1000),
				stackitem.Make(250),
				stackitem.Make(142),
			}),
		} {
			ti.res = halt(item)
			_, err := r.GetProject(big.NewInt(0))
			require.Error(t, err)
		}
	})
}

func TestReaderScalars(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Make(7))
	n, err := r.Count()
	require.NoError(t, err)
	require.EqualValues(t, 7, n.Int64())

	v, err := r.GetFunderContribution(big.NewInt(0), util.Uint160{9})
	require.NoError(t, err)
	require.EqualValues(t, 7, v.Int64())

	ti.res = halt(stackitem.Make(true))
	expired, err := r.IsExpired(big.NewInt(0))
	require.NoError(t, err)
	require.True(t, expired)

	ti.res = halt(stackitem.Make([]stackitem.Item{}))
	_, err = r.Count()
	require.Error(t, err)

	ti.err = errors.New("bad")
	_, err = r.Version()
	require.Error(t, err)
}

func TestFunders(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})
	a, b := util.Uint160{1}, util.Uint160{2}

	ti.res = halt(stackitem.Make([]stackitem.Item{
		stackitem.NewByteArray(a.BytesBE()),
		stackitem.NewByteArray(b.BytesBE()),
	}))
	list, err := r.Funders(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{a, b}, list)

	ti.res = halt(stackitem.Make([]stackitem.Item{
		stackitem.NewByteArray([]byte{1}),
	}))
	_, err = r.Funders(big.NewInt(0))
	require.Error(t, err)
}

func TestProjectIDsOf(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})
	creator := util.Uint160{4, 5, 6}

	_, err := r.ProjectIDsOf(creator, 0)
	require.ErrorIs(t, err, ErrInvalidBatchSize)

	ti.err = errors.New("bad")
	_, err = r.ProjectIDsOf(creator, 2)
	require.Error(t, err)

	ti.err = nil
	sessionID, iteratorID := uuid.New(), uuid.New()
	ti.res = halt(stackitem.NewInterop(result.Iterator{ID: &iteratorID}))
	ti.res.Session = sessionID

	ti.batches = [][]stackitem.Item{
		{stackitem.Make(0), stackitem.Make(3)},
		{stackitem.Make(5), stackitem.Make(8)},
		{stackitem.Make(13)},
	}
	ids, err := r.ProjectIDsOf(creator, 2)
	require.NoError(t, err)
	require.Equal(t, []*big.Int{big.NewInt(0), big.NewInt(3), big.NewInt(5), big.NewInt(8), big.NewInt(13)}, ids)
	require.Equal(t, []uuid.UUID{sessionID}, ti.terminated)

	t.Run("exact batches", func(t *testing.T) {
		ti.terminated = nil
		ti.batches = [][]stackitem.Item{
			{stackitem.Make(1), stackitem.Make(2)},
		}
		ids, err := r.ProjectIDsOf(creator, 2)
		require.NoError(t, err)
		require.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(2)}, ids)
		require.Equal(t, []uuid.UUID{sessionID}, ti.terminated)
	})

	t.Run("bad item", func(t *testing.T) {
		ti.terminated = nil
		ti.batches = [][]stackitem.Item{
			{stackitem.Make([]stackitem.Item{})},
		}
		_, err := r.ProjectIDsOf(creator, 2)
		require.Error(t, err)
		require.Equal(t, []uuid.UUID{sessionID}, ti.terminated)
	})

	t.Run("traverse error", func(t *testing.T) {
		ti.terminated = nil
		ti.traverseErr = errors.New("bad")
		_, err := r.ProjectIDsOf(creator, 2)
		require.Error(t, err)
		require.Equal(t, []uuid.UUID{sessionID}, ti.terminated)
	})
}

func TestEventsFromApplicationLog(t *testing.T) {
	creator, funder := util.Uint160{1}, util.Uint160{2}

	_, err := ProjectCreatedEventsFromApplicationLog(nil)
	require.Error(t, err)

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "ProjectCreated",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(0),
						stackitem.NewByteArray(creator.BytesBE()),
						stackitem.Make(1000),
						stackitem.Make(110),
					}),
				},
				{
					Name: "ProjectFunded",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(0),
						stackitem.NewByteArray(funder.BytesBE()),
						stackitem.Make(300),
					}),
				},
				{
					Name: "FundsWithdrawn",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(0),
						stackitem.NewByteArray(creator.BytesBE()),
						stackitem.Make(300),
					}),
				},
			},
		}},
	}

	created, err := ProjectCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*ProjectCreatedEvent{{
		ProjectID:      big.NewInt(0),
		Creator:        creator,
		FundingGoal:    big.NewInt(1000),
		ExpirationDate: big.NewInt(110),
	}}, created)

	funded, err := ProjectFundedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*ProjectFundedEvent{{
		ProjectID: big.NewInt(0),
		Funder:    funder,
		Amount:    big.NewInt(300),
	}}, funded)

	withdrawn, err := FundsWithdrawnEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*FundsWithdrawnEvent{{
		ProjectID: big.NewInt(0),
		Creator:   creator,
		Amount:    big.NewInt(300),
	}}, withdrawn)

	log.Executions[0].Events[1].Item = stackitem.NewArray([]stackitem.Item{stackitem.Make(0)})
	_, err = ProjectFundedEventsFromApplicationLog(log)
	require.Error(t, err)
}
