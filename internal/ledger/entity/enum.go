package entity

// TxType is the structured kind of a transaction log entry.
type TxType string

const (
	TxTypeDeposit     TxType = "Deposit"
	TxTypeWithdrawal  TxType = "Withdrawal"
	TxTypeTransferOut TxType = "TransferOut"
	TxTypeTransferIn  TxType = "TransferIn"
)

// IsTransfer reports whether t is one leg of a transfer.
func (t TxType) IsTransfer() bool {
	return t == TxTypeTransferOut || t == TxTypeTransferIn
}

// Valid reports whether t is a known kind.
func (t TxType) Valid() bool {
	switch t {
	case TxTypeDeposit, TxTypeWithdrawal, TxTypeTransferOut, TxTypeTransferIn:
		return true
	default:
		return false
	}
}
