// internal/bank/bank.go

// Package bank 定義核心商業邏輯：客戶登錄、身分驗證、轉帳、交易帳本與快照。
// 採用單一互斥鎖 (sync.Mutex) 保障所有狀態變更「原子且序列化」；
// 每次成功變更後於同一臨界區內寫回持久層，再把控制權交還呼叫端。
// 金額一律以 decimal.Decimal 保存至小數第二位。
package bank

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"custledger/internal/storage"
)

const (
	// DefaultCeiling 為單筆轉帳上限。
	DefaultCeiling = "5000.00"

	dobLayout   = "2006-01-02"
	moneyPlaces = 2
)

// Persister 接收完整快照並寫入持久層。
type Persister interface {
	Save(storage.Snapshot) error
}

// Bank 為聚合根 (Aggregate Root)：管理全部客戶。
// - mu：序列化所有讀寫，確保轉帳的扣款與入帳不可分割。
// - customers：客戶索引表（ID → *Customer），內部指標只在臨界區內修改。
// - order：註冊順序，決定摘要與存檔的列順序。
type Bank struct {
	mu        sync.Mutex
	customers map[string]*Customer
	order     []string

	ceiling  decimal.Decimal
	media    []Medium
	verifier Verifier
	persist  Persister
	now      func() time.Time
	newRef   RefSource
	log      *zap.Logger
}

// Option 調整 Bank 的設定。
type Option func(*Bank)

// WithCeiling 設定單筆轉帳上限。
func WithCeiling(c decimal.Decimal) Option {
	return func(b *Bank) { b.ceiling = c }
}

// WithMedia 設定可接受的轉帳管道。
func WithMedia(m ...Medium) Option {
	return func(b *Bank) { b.media = append([]Medium(nil), m...) }
}

// WithVerifier 替換身分驗證實作。
func WithVerifier(v Verifier) Option {
	return func(b *Bank) { b.verifier = v }
}

// WithPersister 設定每次變更後的寫回目標。
func WithPersister(p Persister) Option {
	return func(b *Bank) { b.persist = p }
}

// WithClock 替換時間來源（測試用）。
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// WithRefSource 替換交易編號與 UTR 的產生器（測試用）。
func WithRefSource(r RefSource) Option {
	return func(b *Bank) { b.newRef = r }
}

// WithLogger 設定 zap logger。
func WithLogger(l *zap.Logger) Option {
	return func(b *Bank) { b.log = l }
}

// NewBank 建立空白的登錄表（無外部依賴）。
func NewBank(opts ...Option) *Bank {
	b := &Bank{
		customers: make(map[string]*Customer),
		ceiling:   decimal.RequireFromString(DefaultCeiling),
		media:     append([]Medium(nil), AllMedia...),
		verifier:  SnapshotVerifier{},
		now:       time.Now,
		newRef:    uuidRef,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Ceiling 回傳目前的轉帳上限。
func (b *Bank) Ceiling() decimal.Decimal { return b.ceiling }

// Media 回傳可接受的轉帳管道。
func (b *Bank) Media() []Medium { return append([]Medium(nil), b.media...) }

func (b *Bank) reset() {
	b.customers = make(map[string]*Customer)
	b.order = nil
}

func (b *Bank) insert(c *Customer) {
	b.customers[c.ID] = c
	b.order = append(b.order, c.ID)
}

// RegisterRequest 為註冊輸入；所有欄位皆為未經處理的使用者字串。
type RegisterRequest struct {
	Name           string `json:"name"`
	AccountType    string `json:"account_type"`
	DOB            string `json:"dob"`
	Address        string `json:"address"`
	Area           string `json:"area"`
	InitialBalance string `json:"initial_balance"`
}

// Register 建立新客戶並回傳其拷貝。
// 檢核全部通過才寫入；任何錯誤都不會改變登錄表。
// 若寫回失敗，客戶仍已建立，回傳值與 ErrPersistence 一併傳回。
func (b *Bank) Register(req RegisterRequest) (Customer, error) {
	name := capitalize(strings.TrimSpace(req.Name))
	dob := strings.TrimSpace(req.DOB)
	address := strings.TrimSpace(req.Address)
	area := strings.TrimSpace(req.Area)
	balStr := strings.TrimSpace(req.InitialBalance)
	if name == "" || strings.TrimSpace(req.AccountType) == "" || dob == "" ||
		address == "" || area == "" || balStr == "" {
		return Customer{}, ErrMissingField
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range b.order {
		if strings.EqualFold(b.customers[id].Name, name) {
			return Customer{}, ErrDuplicateName
		}
	}
	acct, err := ParseAccountType(req.AccountType)
	if err != nil {
		return Customer{}, err
	}
	if _, err := time.Parse(dobLayout, dob); err != nil {
		return Customer{}, ErrBadDOB
	}
	bal, err := parseMoney(balStr)
	if err != nil {
		return Customer{}, err
	}
	if bal.IsNegative() {
		return Customer{}, ErrNegativeBalance
	}

	c := &Customer{
		ID:          b.nextID(),
		Name:        name,
		AccountType: acct,
		DOB:         dob,
		Address:     address,
		Area:        area,
		Balance:     bal,
	}
	b.insert(c)
	b.log.Info("customer registered",
		zap.String("customer_id", c.ID),
		zap.String("account_type", acct.String()),
		zap.String("balance", bal.StringFixed(moneyPlaces)))

	return c.clone(), b.flush()
}

// nextID 以「目前筆數 + 1」產生編號；若該編號已被還原資料佔用則往後遞延。
func (b *Bank) nextID() string {
	seq := len(b.customers) + 1
	for {
		id := FormatCustomerID(seq)
		if _, taken := b.customers[id]; !taken {
			return id
		}
		seq++
	}
}

// Get 依 ID 取得客戶的目前快照；若不存在回傳 ErrNotFound。
func (b *Bank) Get(id string) (Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.customers[NormalizeID(id)]
	if !ok {
		return Customer{}, fmt.Errorf("%w: %s", ErrNotFound, NormalizeID(id))
	}
	return c.clone(), nil
}

// Exists 回傳客戶是否存在。
func (b *Bank) Exists(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.customers[NormalizeID(id)]
	return ok
}

// Len 回傳客戶數。
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.customers)
}

// Customers 依註冊順序回傳所有客戶的拷貝（摘要頁使用）。
func (b *Bank) Customers() []Customer {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Customer, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.customers[id].clone())
	}
	return out
}

// History 依時間順序回傳指定客戶的交易（值拷貝）。
func (b *Bank) History(id string) ([]Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.customers[NormalizeID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, NormalizeID(id))
	}
	out := make([]Transaction, 0, c.Ledger.Len())
	for tx := range c.Ledger.All() {
		out = append(out, tx)
	}
	return out, nil
}

// Flush 將目前狀態寫回持久層。
func (b *Bank) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flush()
}

// flush 必須在持有 mu 時呼叫。
func (b *Bank) flush() error {
	if b.persist == nil {
		return nil
	}
	if err := b.persist.Save(b.snapshot()); err != nil {
		b.log.Error("save failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// parseMoney 解析金額字串，最多允許兩位小數。
func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	if !d.Equal(d.Round(moneyPlaces)) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q has more than two decimal places", ErrBadAmount, s)
	}
	return d.Round(moneyPlaces), nil
}

// capitalize 首字大寫、其餘小寫。
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
