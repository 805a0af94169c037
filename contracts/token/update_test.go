package token_test

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/ft-contract/common"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	x := newEnv(t, testTotalSupply)

	x.ownerInv.Invoke(t, common.Version, "version")
}

func TestUpdate(t *testing.T) {
	x := newEnv(t, testTotalSupply)
	ctr := compileToken(t, x.e)

	rawNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)

	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	x.ownerInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "update", rawNEF, rawManifest, nil)

	x.e.CommitteeInvoker(x.hash).InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}
