package bank

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"custledger/internal/storage"
)

// Store 為啟動時載入、每次變更後寫回的持久層。
type Store interface {
	Persister
	Load() (storage.LoadResult, error)
}

// Snapshot 匯出登錄表到可持久化的 storage.Snapshot（依註冊順序）。
func (b *Bank) Snapshot() storage.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Bank) snapshot() storage.Snapshot {
	s := storage.Snapshot{Customers: make([]storage.PersistCustomer, 0, len(b.order))}
	for _, id := range b.order {
		c := b.customers[id]
		pc := storage.PersistCustomer{
			ID:           c.ID,
			Name:         c.Name,
			AccountType:  c.AccountType.String(),
			DOB:          c.DOB,
			Address:      c.Address,
			Area:         c.Area,
			Balance:      c.Balance,
			BalanceKnown: true,
		}
		for tx := range c.Ledger.All() {
			pc.Transactions = append(pc.Transactions, storage.PersistTransaction{
				Date:          tx.Time,
				Type:          tx.Kind(),
				Amount:        tx.Amount,
				Balance:       tx.Balance,
				RecipientID:   tx.CounterpartyID,
				TransactionID: tx.ID,
				UTR:           tx.UTR,
			})
		}
		s.Customers = append(s.Customers, pc)
	}
	return s
}

// Restore 由 storage.Snapshot 重建登錄表，取代目前內容。
// 編號格式不符的客戶整筆略過；種類無法辨識的交易單列略過。
// 帳戶類型無法辨識的列只忽略該欄位，客戶與其交易照常還原。
// 回傳所有略過的列與原因。
func (b *Bank) Restore(s storage.Snapshot) []storage.Skipped {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()

	var skipped []storage.Skipped
	skip := func(line int, id, reason string) {
		skipped = append(skipped, storage.Skipped{Line: line, CustomerID: id, Reason: reason})
		b.log.Warn("skipping restored row", zap.Int("line", line), zap.String("customer_id", id), zap.String("reason", reason))
	}

	for _, pc := range s.Customers {
		id := NormalizeID(pc.ID)
		if !ValidCustomerID(id) {
			skip(pc.Line, pc.ID, "unrecognized customer id")
			continue
		}
		if _, dup := b.customers[id]; dup {
			skip(pc.Line, id, "duplicate customer id")
			continue
		}
		acct := restoreAccountType(pc, func(line int, reason string) { skip(line, id, reason) })
		c := &Customer{
			ID:          id,
			Name:        pc.Name,
			AccountType: acct,
			DOB:         pc.DOB,
			Address:     pc.Address,
			Area:        pc.Area,
			Balance:     pc.Balance.Round(moneyPlaces),
		}
		if !pc.BalanceKnown {
			if bal, ok := seedBalance(id); ok {
				c.Balance = bal
			}
		}
		for _, pt := range pc.Transactions {
			medium, dir, err := ParseKind(strings.TrimSpace(pt.Type))
			if err != nil {
				skip(pt.Line, id, err.Error())
				continue
			}
			c.Ledger.Append(Transaction{
				Time:           pt.Date,
				Medium:         medium,
				Direction:      dir,
				Amount:         pt.Amount.Round(moneyPlaces),
				Balance:        pt.Balance.Round(moneyPlaces),
				CounterpartyID: NormalizeID(pt.RecipientID),
				ID:             pt.TransactionID,
				UTR:            pt.UTR,
			})
		}
		if last, ok := c.Ledger.Last(); ok {
			c.Balance = last.Balance
		}
		b.insert(c)
	}
	return skipped
}

// restoreAccountType 採用各列中第一個有效的帳戶類型，其餘無效值逐列回報。
// 沒有任何有效值時以 Savings 還原。
func restoreAccountType(pc storage.PersistCustomer, skip func(line int, reason string)) AccountType {
	candidates := pc.AccountTypes
	if len(candidates) == 0 {
		candidates = []storage.FieldValue{{Line: pc.Line, Value: pc.AccountType}}
	}
	acct, found := Savings, false
	for _, fv := range candidates {
		a, err := ParseAccountType(fv.Value)
		if err != nil {
			skip(fv.Line, "account type ignored: "+err.Error())
			continue
		}
		if !found {
			acct, found = a, true
		}
	}
	return acct
}

// Open 建立 Bank 並從 store 載入狀態，之後每次變更都寫回 store。
//   - 檔案不存在：以示範客戶啟動，不視為錯誤。
//   - 表頭不符或無法讀取：以示範客戶啟動，並回傳包裝 ErrPersistence 的錯誤供呼叫端提示。
//   - 檔案中沒有任何可用客戶：以示範客戶啟動。
//
// 回傳的 Bank 一定可用。
func Open(store Store, opts ...Option) (*Bank, []storage.Skipped, error) {
	b := NewBank(append(opts, WithPersister(store))...)
	res, err := store.Load()
	if err != nil {
		b.Seed()
		if errors.Is(err, fs.ErrNotExist) {
			b.log.Info("no data file, starting from seed set")
			return b, nil, nil
		}
		b.log.Warn("load failed, starting from seed set", zap.Error(err))
		return b, nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	skipped := append(res.Skipped, b.Restore(res.Snapshot)...)
	if b.Len() == 0 {
		b.log.Info("data file has no usable customers, starting from seed set")
		b.Seed()
	}
	b.log.Info("registry loaded", zap.Int("customers", b.Len()), zap.Int("skipped_rows", len(skipped)))
	return b, skipped, nil
}
