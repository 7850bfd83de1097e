package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

// errUpdatesDisabled is returned when on-chain contract must be updated, but
// there is no committee account to witness the update.
var errUpdatesDisabled = errors.New("contract update requires committee account")

type contractStateGetter interface {
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

type contractDeployer interface {
	Deploy(exe *nef.File, manif *manifest.Manifest, data any) (util.Uint256, uint32, error)
}

type contractUpdater interface {
	Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error)
}

type transactionWaiter interface {
	WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (*state.AppExecResult, error)
}

// syncContractPrm groups parameters of single contract synchronization.
type syncContractPrm struct {
	logger *zap.Logger

	blockchain contractStateGetter
	deployer   contractDeployer
	waiter     transactionWaiter

	// account sending deployment transactions
	sender util.Uint160

	common CommonDeployPrm

	// nil when updates are disabled
	newUpdater func(util.Uint160) contractUpdater
}

// syncContract makes the on-chain contract match the local one and returns
// its address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := prm.common.Address
	known := !addr.Equals(util.Uint160{})
	if !known {
		addr = state.CreateContractHash(prm.sender, prm.common.NEF.Checksum, prm.common.Manifest.Name)
	}

	l := prm.logger.With(zap.String("contract", prm.common.Manifest.Name), zap.Stringer("address", addr))

	onChain, err := prm.blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return util.Uint160{}, fmt.Errorf("get state of the contract %s: %w", addr.StringLE(), err)
		}

		if known {
			return util.Uint160{}, fmt.Errorf("contract %s is missing on the chain: %w", addr.StringLE(), err)
		}

		l.Info("contract is missing on the chain, deploying...")

		txHash, vub, err := prm.deployer.Deploy(&prm.common.NEF, &prm.common.Manifest, nil)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("send transaction deploying the contract: %w", err)
		}

		err = awaitSuccess(ctx, prm.waiter, txHash, vub)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy the contract: %w", err)
		}

		l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

		return addr, nil
	}

	if onChain.NEF.Checksum == prm.common.NEF.Checksum {
		l.Info("on-chain contract matches the local one, skip")
		return addr, nil
	}

	l.Info("on-chain contract differs from the local one, updating...",
		zap.Uint32("on-chain checksum", onChain.NEF.Checksum),
		zap.Uint32("local checksum", prm.common.NEF.Checksum),
		zap.Int("update counter", int(onChain.UpdateCounter)))

	if prm.newUpdater == nil {
		return util.Uint160{}, errUpdatesDisabled
	}

	bNEF, err := prm.common.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode local NEF: %w", err)
	}

	jManifest, err := json.Marshal(prm.common.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode local manifest: %w", err)
	}

	txHash, vub, err := prm.newUpdater(addr).Update(bNEF, jManifest, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction updating the contract: %w", err)
	}

	err = awaitSuccess(ctx, prm.waiter, txHash, vub)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("update the contract: %w", err)
	}

	l.Info("contract successfully updated", zap.Stringer("tx", txHash))

	return addr, nil
}

func awaitSuccess(ctx context.Context, w transactionWaiter, txHash util.Uint256, vub uint32) error {
	res, err := w.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed with %s state: %s", txHash.StringLE(), res.VMState, res.FaultException)
	}

	return nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
