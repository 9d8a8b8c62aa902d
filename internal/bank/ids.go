package bank

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	txnIDLen = 8
	utrLen   = 12
)

var customerIDPattern = regexp.MustCompile(`^CUST\d{3,}$`)

// FormatCustomerID 產生 "CUST" + 三位補零序號。
func FormatCustomerID(seq int) string {
	return fmt.Sprintf("CUST%03d", seq)
}

// ValidCustomerID 回傳 id 是否符合客戶編號格式。
func ValidCustomerID(id string) bool {
	return customerIDPattern.MatchString(id)
}

// NormalizeID 去除空白並轉大寫。
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// RefSource 產生 n 個大寫英數字元的隨機參考碼。
type RefSource func(n int) string

// uuidRef 以 UUIDv4 去除連字號後截斷；n 不得超過 32。
func uuidRef(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return s[:n]
}
