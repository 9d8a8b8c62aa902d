// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的結構模型。
// 此層只處理平面檔的欄位與數值格式，列舉與業務規則由 bank 層檢核。
package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Header 為平面檔的固定表頭，載入時必須完全一致。
var Header = []string{
	"Customer ID", "Name", "Account Type", "DOB", "Address", "Area",
	"Date", "Type", "Amount", "Balance", "Recipient ID", "Transaction ID", "UTR",
}

// 欄位索引，順序同 Header。
const (
	colCustomerID = iota
	colName
	colAccountType
	colDOB
	colAddress
	colArea
	colDate
	colType
	colAmount
	colBalance
	colRecipientID
	colTransactionID
	colUTR
	numCols
)

// DateLayout 為交易時間欄位的格式（精確到秒，本地時區）。
const DateLayout = "2006-01-02 15:04:05"

// PersistTransaction 為交易在平面檔中的一列。
type PersistTransaction struct {
	Line          int             // 來源檔案行號（1 起算，含表頭）；寫出時忽略
	Date          time.Time       // 交易時間
	Type          string          // 種類，例如 "upi_out"
	Amount        decimal.Decimal // 金額（正值）
	Balance       decimal.Decimal // 交易後擁有者餘額
	RecipientID   string          // 對手客戶編號
	TransactionID string          // 8 碼交易編號
	UTR           string          // 12 碼清算參考碼
}

// FieldValue 為某一列的欄位原始值。
type FieldValue struct {
	Line  int
	Value string
}

// PersistCustomer 為客戶在儲存層的序列化格式。
// BalanceKnown 為 false 表示檔案未提供可用餘額（舊格式的僅屬性列，或餘額欄位損毀）。
// AccountTypes 依列序保存每一列的帳戶類型，由 bank 層挑出第一個有效值；寫出時忽略。
type PersistCustomer struct {
	Line         int
	ID           string
	Name         string
	AccountType  string
	AccountTypes []FieldValue
	DOB          string
	Address      string
	Area         string
	Balance      decimal.Decimal
	BalanceKnown bool
	Transactions []PersistTransaction
}

// Snapshot 為登錄表的完整快照；Customers 依檔案中首次出現的順序排列。
type Snapshot struct {
	Customers []PersistCustomer
}

// Skipped 記錄載入時略過的一列（或一列中被忽略的欄位）與原因。
type Skipped struct {
	Line       int    `json:"line"`
	CustomerID string `json:"customer_id"`
	Reason     string `json:"reason"`
}

// LoadResult 為載入結果：可用的快照與逐列略過清單。
type LoadResult struct {
	Snapshot Snapshot
	Skipped  []Skipped
}
