package funding

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrInvalidBatchSize is returned by [ContractReader.ProjectIDsOf] for
// non-positive batch sizes.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

// ProjectIDsOf returns identifiers of all projects created by the given
// account. It opens an iterator session with ProjectsOf, reads it in batches
// of the given size and terminates the session before returning.
func (c *ContractReader) ProjectIDsOf(creator util.Uint160, batchSize int) ([]*big.Int, error) {
	if batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	sessionID, iter, err := c.ProjectsOf(creator)
	if err != nil {
		return nil, fmt.Errorf("open iterator: %w", err)
	}
	defer func() {
		_ = c.invoker.TerminateSession(sessionID)
	}()

	var res []*big.Int
	for {
		items, err := c.invoker.TraverseIterator(sessionID, &iter, batchSize)
		if err != nil {
			return nil, fmt.Errorf("traverse iterator: %w", err)
		}

		for i := range items {
			id, err := items[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("project #%d: %w", len(res), err)
			}
			res = append(res, id)
		}

		if len(items) < batchSize {
			return res, nil
		}
	}
}
