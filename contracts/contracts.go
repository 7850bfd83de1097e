/*
Package contracts provides access to the compiled ledger contracts.

Compiled contracts are expected to be laid out the same way as their sources:
every contract has its own directory with contract.nef and manifest.json files
inside, e.g.

	reputation/contract.nef
	reputation/manifest.json
	funding/contract.nef
	funding/manifest.json
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	reputationDir = "reputation"
	fundingDir    = "funding"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set groups all ledger contracts.
type Set struct {
	Reputation Contract
	Funding    Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// Read reads compiled ledger contracts from the given file system.
func Read(fsys fs.FS) (Set, error) {
	var (
		res Set
		err error
	)

	res.Reputation, err = readContractFromDir(fsys, reputationDir)
	if err != nil {
		return res, fmt.Errorf("read contract %s: %w", reputationDir, err)
	}

	res.Funding, err = readContractFromDir(fsys, fundingDir)
	if err != nil {
		return res, fmt.Errorf("read contract %s: %w", fundingDir, err)
	}

	return res, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths are always slash-separated, so filepath.Join() is not
	// applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
