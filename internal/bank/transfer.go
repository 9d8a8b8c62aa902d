package bank

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferRequest 為轉帳輸入。
// SenderIdentity / RecipientIdentity 為呼叫端持有的身分快照；
// 留空時於驗證前由登錄表擷取。
type TransferRequest struct {
	SenderID          string    `json:"sender_id"`
	RecipientID       string    `json:"recipient_id"`
	Amount            string    `json:"amount"`
	Medium            string    `json:"medium"`
	SenderIdentity    *Identity `json:"sender_identity,omitempty"`
	RecipientIdentity *Identity `json:"recipient_identity,omitempty"`
}

// Receipt 為成功轉帳的結果。
type Receipt struct {
	TransactionID       string
	UTR                 string
	Time                time.Time
	Medium              Medium
	Amount              decimal.Decimal
	Sender              Customer
	Recipient           Customer
	SenderBalanceBefore decimal.Decimal
}

// Transfer 轉帳為「單一臨界區內」的原子操作：
// 依序完成十一項檢核，全部通過後才扣款、入帳並於雙方帳本各追加一筆紀錄，
// 最後寫回持久層。任一檢核失敗皆不會改變任何客戶狀態。
// 若寫回失敗，轉帳已生效，Receipt 與 ErrPersistence 一併傳回。
func (b *Bank) Transfer(req TransferRequest) (Receipt, error) {
	senderID := NormalizeID(req.SenderID)
	recipientID := NormalizeID(req.RecipientID)
	amountStr := strings.TrimSpace(req.Amount)
	mediumStr := strings.TrimSpace(req.Medium)

	// 1) 欄位齊全
	if senderID == "" || recipientID == "" || amountStr == "" || mediumStr == "" {
		return Receipt{}, ErrMissingField
	}
	// 2) 金額可解析
	amount, err := parseMoney(amountStr)
	if err != nil {
		return Receipt{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// 3) 4) 雙方存在
	sender, ok := b.customers[senderID]
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrSenderNotFound, senderID)
	}
	recipient, ok := b.customers[recipientID]
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, recipientID)
	}
	// 5) 不得自轉
	if senderID == recipientID {
		return Receipt{}, ErrSameAccount
	}
	// 6) 管道須為已設定的種類
	medium, err := ParseMedium(mediumStr)
	if err != nil || !slices.Contains(b.media, medium) {
		return Receipt{}, fmt.Errorf("%w: %q", ErrBadMedium, mediumStr)
	}
	// 7) 8) 9) 金額規則
	if !amount.IsPositive() {
		return Receipt{}, ErrNonPositive
	}
	if amount.GreaterThan(b.ceiling) {
		return Receipt{}, fmt.Errorf("%w of %s", ErrOverCeiling, b.ceiling.StringFixed(moneyPlaces))
	}
	if sender.Balance.LessThan(amount) {
		return Receipt{}, ErrInsufficient
	}
	// 10) 11) 身分驗證
	senderWant := sender.Identity()
	if req.SenderIdentity != nil {
		senderWant = *req.SenderIdentity
	}
	if !b.verify(senderID, senderWant) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrVerification, senderID)
	}
	recipientWant := recipient.Identity()
	if req.RecipientIdentity != nil {
		recipientWant = *req.RecipientIdentity
	}
	if !b.verify(recipientID, recipientWant) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrVerification, recipientID)
	}

	txnID := b.newRef(txnIDLen)
	utr := b.newRef(utrLen)
	now := b.now().Truncate(time.Second)
	before := sender.Balance

	sender.Balance = sender.Balance.Sub(amount)
	recipient.Balance = recipient.Balance.Add(amount)
	sender.Ledger.Append(Transaction{
		Time:           now,
		Medium:         medium,
		Direction:      Out,
		Amount:         amount,
		Balance:        sender.Balance,
		CounterpartyID: recipientID,
		ID:             txnID,
		UTR:            utr,
	})
	recipient.Ledger.Append(Transaction{
		Time:           now,
		Medium:         medium,
		Direction:      In,
		Amount:         amount,
		Balance:        recipient.Balance,
		CounterpartyID: senderID,
		ID:             txnID,
		UTR:            utr,
	})

	b.log.Info("transfer committed",
		zap.String("transaction_id", txnID),
		zap.String("utr", utr),
		zap.String("sender_id", senderID),
		zap.String("recipient_id", recipientID),
		zap.String("medium", medium.String()),
		zap.String("amount", amount.StringFixed(moneyPlaces)))

	rc := Receipt{
		TransactionID:       txnID,
		UTR:                 utr,
		Time:                now,
		Medium:              medium,
		Amount:              amount,
		Sender:              sender.clone(),
		Recipient:           recipient.clone(),
		SenderBalanceBefore: before,
	}
	return rc, b.flush()
}
