package common

import "github.com/nspcc-dev/neo-go/pkg/interop"

// IsAccount checks that the passed value has a length of the script hash.
func IsAccount(acc interop.Hash160) bool {
	return len(acc) == interop.Hash160Len
}
