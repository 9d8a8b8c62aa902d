// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式與錯誤代碼映射。
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"custledger/internal/bank"
	"custledger/internal/storage"
)

// writeJSON 統一輸出成功回應。
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr 以 {"error": "..."} 輸出錯誤回應。
func writeErr(w http.ResponseWriter, err error, code int) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusFor 將領域錯誤類別映射為 HTTP 狀態碼。
func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrBusinessRule):
		return http.StatusConflict
	case errors.Is(err, bank.ErrVerification):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// warning 在變更已生效但寫回失敗時回傳提示訊息。
func warning(err error) string {
	if err != nil && errors.Is(err, bank.ErrPersistence) {
		return err.Error()
	}
	return ""
}

type customerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	DOB         string `json:"dob"`
	Address     string `json:"address"`
	Area        string `json:"area"`
	Balance     string `json:"balance"`
	Warning     string `json:"warning,omitempty"`
}

func viewCustomer(c bank.Customer) customerView {
	return customerView{
		ID:          c.ID,
		Name:        c.Name,
		AccountType: c.AccountType.String(),
		DOB:         c.DOB,
		Address:     c.Address,
		Area:        c.Area,
		Balance:     c.Balance.StringFixed(2),
	}
}

type transactionView struct {
	Date          string `json:"date"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Balance       string `json:"balance"`
	RecipientID   string `json:"recipient_id"`
	TransactionID string `json:"transaction_id"`
	UTR           string `json:"utr"`
}

func viewTransaction(tx bank.Transaction) transactionView {
	return transactionView{
		Date:          tx.Time.Format(storage.DateLayout),
		Type:          tx.Kind(),
		Amount:        tx.Amount.StringFixed(2),
		Balance:       tx.Balance.StringFixed(2),
		RecipientID:   tx.CounterpartyID,
		TransactionID: tx.ID,
		UTR:           tx.UTR,
	}
}

type historyView struct {
	Customer     customerView      `json:"customer"`
	Transactions []transactionView `json:"transactions"`
}

type receiptView struct {
	Message             string       `json:"message"`
	TransactionID       string       `json:"transaction_id"`
	UTR                 string       `json:"utr"`
	Time                string       `json:"time"`
	Medium              string       `json:"medium"`
	Amount              string       `json:"amount"`
	SenderBalanceBefore string       `json:"sender_balance_before"`
	Sender              customerView `json:"sender"`
	Recipient           customerView `json:"recipient"`
	Warning             string       `json:"warning,omitempty"`
}

func viewReceipt(r bank.Receipt) receiptView {
	return receiptView{
		Message:             "transfer success",
		TransactionID:       r.TransactionID,
		UTR:                 r.UTR,
		Time:                r.Time.Format(storage.DateLayout),
		Medium:              r.Medium.String(),
		Amount:              r.Amount.StringFixed(2),
		SenderBalanceBefore: r.SenderBalanceBefore.StringFixed(2),
		Sender:              viewCustomer(r.Sender),
		Recipient:           viewCustomer(r.Recipient),
	}
}
