package usecase

import (
	"fmt"

	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/mint/domain"
)

func notificationFor(tx domain.TransactionState) domain.Notification {
	switch tx.Phase {
	case domain.PhaseSubmitted:
		hash := ""
		if tx.Hash != nil {
			hash = tx.Hash.Hex()
		}
		return domain.Notification{Level: domain.LevelSuccess, Title: "Transaction Submitted", Description: "Tx hash: " + hash}
	case domain.PhaseConfirming:
		return domain.Notification{Level: domain.LevelInfo, Title: "Pending", Description: "Your transaction is processing. Please wait for confirmation..."}
	case domain.PhaseConfirmed:
		return domain.Notification{Level: domain.LevelSuccess, Title: "Confirmed", Description: confirmedText(tx)}
	case domain.PhaseRejected:
		return domain.Notification{Level: domain.LevelError, Title: "Transaction Cancelled", Description: "You rejected the transaction"}
	case domain.PhaseFailed:
		return domain.Notification{Level: domain.LevelError, Title: "Error", Description: "Transaction failed: " + tx.ErrorMessage}
	default:
		return domain.Notification{Level: domain.LevelInfo, Title: string(tx.Phase)}
	}
}

func confirmedText(tx domain.TransactionState) string {
	switch tx.Kind {
	case domain.TxApprove:
		return "Token spending approved"
	case domain.TxFaucetMint:
		return fmt.Sprintf("Your %s test tokens have been minted", tx.Amount)
	default:
		return fmt.Sprintf("Transaction confirmed: %d NFT(s) minted", tx.Quantity)
	}
}

// LogObserver writes every transition to the service log.
type LogObserver struct {
	logger *logger.Logger
}

func NewLogObserver(l *logger.Logger) *LogObserver { return &LogObserver{logger: l} }

func (o *LogObserver) OnTransition(tx domain.TransactionState, n domain.Notification) {
	l := o.logger.WithFields(map[string]interface{}{
		"tx_id": tx.ID.String(),
		"kind":  tx.Kind,
		"phase": tx.Phase,
	})
	if n.Level == domain.LevelError {
		l.Errorf("%s: %s", n.Title, n.Description)
		return
	}
	l.Infof("%s: %s", n.Title, n.Description)
}
