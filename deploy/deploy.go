package deploy

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/dapp-ledger-contract/contracts"
	"github.com/nspcc-dev/dapp-ledger-contract/rpc/funding"
	"github.com/nspcc-dev/dapp-ledger-contract/rpc/reputation"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the ledger contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest

	// Address of the already deployed contract. Zero value means the contract
	// is deployed by Prm.LocalAccount (if it is not yet) and gets address
	// derived from the local account, NEF and manifest name.
	Address util.Uint160
}

// ReputationContractPrm groups deployment parameters of the Prediction
// Reputation contract.
type ReputationContractPrm struct {
	Common CommonDeployPrm
}

// FundingContractPrm groups deployment parameters of the Research Funding
// contract.
type FundingContractPrm struct {
	Common CommonDeployPrm
}

// Prm groups all parameters of the ledger contracts deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays for all transactions and deploys missing contracts.
	LocalAccount *wallet.Account

	// Committee multi-sig account witnessing contract updates (must be
	// unlocked). Optional: without it outdated contracts can't be updated and
	// Deploy fails on them.
	CommitteeAccount *wallet.Account

	ReputationContract ReputationContractPrm
	FundingContract    FundingContractPrm
}

// Contracts groups on-chain addresses of the ledger contracts.
type Contracts struct {
	Reputation util.Uint160
	Funding    util.Uint160
}

// ReadContracts reads compiled ledger contracts from the given file system
// (see [contracts.Read] for the expected layout) into the corresponding
// parameters of prm. Already set addresses are kept.
func ReadContracts(fsys fs.FS, prm *Prm) error {
	cs, err := contracts.Read(fsys)
	if err != nil {
		return fmt.Errorf("read compiled contracts: %w", err)
	}

	prm.ReputationContract.Common.NEF = cs.Reputation.NEF
	prm.ReputationContract.Common.Manifest = cs.Reputation.Manifest
	prm.FundingContract.Common.NEF = cs.Funding.NEF
	prm.FundingContract.Common.Manifest = cs.Funding.Manifest

	return nil
}

// Deploy synchronizes ledger contracts on the Neo network represented by
// given Prm.Blockchain with the local ones: missing contracts are deployed,
// contracts which differ from the local ones are updated, the rest are left
// as is. The contracts are independent, they are processed one by one.
//
// Deploy aborts by context or on the first failed transaction. Deployment
// progress is logged in detail.
func Deploy(ctx context.Context, prm Prm) (Contracts, error) {
	var res Contracts

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	var committeeActor *actor.Actor
	if prm.CommitteeAccount != nil {
		committeeActor, err = actor.New(prm.Blockchain, []actor.SignerAccount{
			{
				Signer: transaction.Signer{
					Account: prm.LocalAccount.ScriptHash(),
					Scopes:  transaction.None,
				},
				Account: prm.LocalAccount,
			},
			{
				Signer: transaction.Signer{
					Account: prm.CommitteeAccount.ScriptHash(),
					Scopes:  transaction.CalledByEntry,
				},
				Account: prm.CommitteeAccount,
			},
		})
		if err != nil {
			return res, fmt.Errorf("init transaction sender witnessed by the committee: %w", err)
		}
	} else {
		prm.Logger.Info("committee account is not set, contract updates are disabled")
	}

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		deployer:   management.New(localActor),
		waiter:     localActor,
		sender:     prm.LocalAccount.ScriptHash(),
	}

	// 1. Reputation
	syncPrm.common = prm.ReputationContract.Common
	syncPrm.newUpdater = nil
	if committeeActor != nil {
		syncPrm.newUpdater = func(addr util.Uint160) contractUpdater {
			return reputation.New(committeeActor, addr)
		}
	}

	prm.Logger.Info("synchronizing Reputation contract with the chain...")

	res.Reputation, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync Reputation contract with the chain: %w", err)
	}

	prm.Logger.Info("Reputation contract successfully synchronized", zap.Stringer("address", res.Reputation))

	// 2. Funding
	syncPrm.common = prm.FundingContract.Common
	syncPrm.newUpdater = nil
	if committeeActor != nil {
		syncPrm.newUpdater = func(addr util.Uint160) contractUpdater {
			return funding.New(committeeActor, addr)
		}
	}

	prm.Logger.Info("synchronizing Funding contract with the chain...")

	res.Funding, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync Funding contract with the chain: %w", err)
	}

	prm.Logger.Info("Funding contract successfully synchronized", zap.Stringer("address", res.Funding))

	return res, nil
}
