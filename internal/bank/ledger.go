package bank

import (
	"iter"
	"slices"
)

// Ledger 為單一客戶僅可追加的交易序列，插入順序即時間順序。
// 唯一寫入者為轉帳引擎與快照還原，因此 Append 不做檢核。
type Ledger struct {
	txs []Transaction
}

// Append 追加一筆交易。
func (l *Ledger) Append(tx Transaction) {
	l.txs = append(l.txs, tx)
}

// All 依插入順序走訪交易；可重複呼叫。
func (l *Ledger) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.txs {
			if !yield(tx) {
				return
			}
		}
	}
}

// Len 回傳交易筆數。
func (l *Ledger) Len() int { return len(l.txs) }

// Last 回傳最後一筆交易。
func (l *Ledger) Last() (Transaction, bool) {
	if len(l.txs) == 0 {
		return Transaction{}, false
	}
	return l.txs[len(l.txs)-1], true
}

func (l Ledger) clone() Ledger {
	return Ledger{txs: slices.Clone(l.txs)}
}
