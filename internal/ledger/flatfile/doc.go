// Package flatfile persists the ledger as three comma-delimited text files,
// one record per line, no header and no escaping:
//
//	customers.txt     id,name
//	accounts.txt      id,customerId,balance
//	transactions.txt  id,accountId,amount,type[,counterpartyId]
//
// The last field of a customer line absorbs any further commas. Deposit and
// withdrawal lines carry four fields; transfer legs carry a fifth holding the
// other account. Older lines that spell a transfer as "Transfer to account N"
// are still understood.
package flatfile
