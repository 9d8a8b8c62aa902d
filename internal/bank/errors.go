// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 頂層五個類別對應錯誤分類；具體錯誤皆以 %w 包裝其類別，
// 呼叫端可用 errors.Is 判斷類別或具體原因。

package bank

import (
	"errors"
	"fmt"
)

// 錯誤類別。
var (
	// ErrValidation 代表欄位缺漏或格式錯誤。對應 HTTP 400。
	ErrValidation = errors.New("validation error")

	// ErrNotFound 代表客戶不存在。對應 HTTP 404。
	ErrNotFound = errors.New("customer not found")

	// ErrBusinessRule 代表違反業務規則。對應 HTTP 409。
	ErrBusinessRule = errors.New("business rule violated")

	// ErrVerification 代表身分快照比對失敗。對應 HTTP 403。
	ErrVerification = errors.New("verification failed")

	// ErrPersistence 代表檔案讀寫失敗；記憶體狀態仍然有效。
	ErrPersistence = errors.New("persistence error")
)

// 具體錯誤。
var (
	ErrMissingField   = fmt.Errorf("%w: all fields are required", ErrValidation)
	ErrBadAmount      = fmt.Errorf("%w: amount is not a valid number", ErrValidation)
	ErrBadDOB         = fmt.Errorf("%w: date of birth must be YYYY-MM-DD", ErrValidation)
	ErrBadAccountType = fmt.Errorf("%w: account type must be Savings or Current", ErrValidation)

	ErrSenderNotFound    = fmt.Errorf("%w: sender", ErrNotFound)
	ErrRecipientNotFound = fmt.Errorf("%w: recipient", ErrNotFound)

	ErrDuplicateName   = fmt.Errorf("%w: customer with this name already exists", ErrBusinessRule)
	ErrNegativeBalance = fmt.Errorf("%w: initial balance cannot be negative", ErrBusinessRule)
	ErrSameAccount     = fmt.Errorf("%w: cannot transfer to the same account", ErrBusinessRule)
	ErrBadMedium       = fmt.Errorf("%w: unrecognized transaction type", ErrBusinessRule)
	ErrNonPositive     = fmt.Errorf("%w: amount must be positive", ErrBusinessRule)
	ErrOverCeiling     = fmt.Errorf("%w: amount exceeds transfer limit", ErrBusinessRule)
	ErrInsufficient    = fmt.Errorf("%w: insufficient funds", ErrBusinessRule)
)
