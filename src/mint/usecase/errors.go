package usecase

import (
	"errors"
	"strings"
)

var (
	ErrInvalidQuantity     = errors.New("invalid amount specified")
	ErrInvalidAmount       = errors.New("please enter a valid amount")
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrMintInProgress      = errors.New("a transaction of this kind is already in flight")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionNotFinal = errors.New("transaction has not reached a terminal phase")
	errTransactionReverted = errors.New("transaction reverted")
)

const maxErrorMessageLen = 100

// rejectionPhrases are what wallets put in the error when the user declines
// the signature prompt.
var rejectionPhrases = []string{"rejected", "denied", "cancelled", "canceled"}

func isWalletRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range rejectionPhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// truncateMessage keeps raw provider errors readable.
func truncateMessage(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	r := []rune(msg)
	if len(r) > maxErrorMessageLen {
		return string(r[:maxErrorMessageLen])
	}
	return msg
}
