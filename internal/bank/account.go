// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Customer、Transaction 與相關列舉型別，不含任何 HTTP 或儲存細節。

package bank

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType 為帳戶類型（封閉列舉）。
type AccountType int

const (
	Savings AccountType = iota + 1
	Current
)

func (t AccountType) String() string {
	switch t {
	case Savings:
		return "Savings"
	case Current:
		return "Current"
	default:
		return fmt.Sprintf("AccountType(%d)", int(t))
	}
}

// ParseAccountType 僅接受 "Savings" 或 "Current"（不分大小寫）。
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "savings":
		return Savings, nil
	case "current":
		return Current, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadAccountType, s)
}

// Medium 為轉帳管道。
type Medium int

const (
	UPI Medium = iota + 1
	BankTransfer
	NetBanking
)

// AllMedia 依顯示順序列出所有已知管道。
var AllMedia = []Medium{UPI, BankTransfer, NetBanking}

func (m Medium) String() string {
	switch m {
	case UPI:
		return "UPI"
	case BankTransfer:
		return "Bank Transfer"
	case NetBanking:
		return "Net Banking"
	default:
		return fmt.Sprintf("Medium(%d)", int(m))
	}
}

// Tag 回傳寫入交易種類欄位時使用的小寫名稱，例如 "bank transfer"。
func (m Medium) Tag() string {
	return strings.ToLower(m.String())
}

// ParseMedium 需與顯示名稱完全一致（"UPI"、"Bank Transfer"、"Net Banking"）。
func ParseMedium(s string) (Medium, error) {
	for _, m := range AllMedia {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMedium, s)
}

// Direction 表示交易相對於帳本擁有者的方向。
type Direction int

const (
	Out Direction = iota + 1
	In
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case In:
		return "in"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Identity 為驗證用的身分快照。
type Identity struct {
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	Address string `json:"address"`
	Area    string `json:"area"`
}

// Customer represents a bank customer and owns its ledger.
type Customer struct {
	ID          string
	Name        string
	AccountType AccountType
	DOB         string
	Address     string
	Area        string
	Balance     decimal.Decimal
	Ledger      Ledger
}

// Identity 擷取客戶目前的身分欄位。
func (c *Customer) Identity() Identity {
	return Identity{Name: c.Name, DOB: c.DOB, Address: c.Address, Area: c.Area}
}

// clone 回傳含獨立帳本的拷貝，避免呼叫端改寫內部切片。
func (c *Customer) clone() Customer {
	cp := *c
	cp.Ledger = c.Ledger.clone()
	return cp
}

// Transaction represents one side of a transfer.
type Transaction struct {
	Time           time.Time
	Medium         Medium
	Direction      Direction
	Amount         decimal.Decimal
	Balance        decimal.Decimal // 交易後擁有者餘額
	CounterpartyID string
	ID             string
	UTR            string
}

// Kind 回傳持久化用的種類字串，例如 "upi_out"。
func (t Transaction) Kind() string {
	return t.Medium.Tag() + "_" + t.Direction.String()
}

// ParseKind 解析 Kind 產生的字串。
func ParseKind(s string) (Medium, Direction, error) {
	i := strings.LastIndex(s, "_")
	if i < 0 {
		return 0, 0, fmt.Errorf("%w: kind %q", ErrValidation, s)
	}
	var dir Direction
	switch s[i+1:] {
	case "out":
		dir = Out
	case "in":
		dir = In
	default:
		return 0, 0, fmt.Errorf("%w: kind %q", ErrValidation, s)
	}
	tag := s[:i]
	for _, m := range AllMedia {
		if m.Tag() == tag {
			return m, dir, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: kind %q", ErrBadMedium, s)
}
