package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxKindIsMint(t *testing.T) {
	assert.True(t, TxMintNative.IsMint())
	assert.True(t, TxMintERC20.IsMint())
	assert.False(t, TxApprove.IsMint())
	assert.False(t, TxFaucetMint.IsMint())
}
