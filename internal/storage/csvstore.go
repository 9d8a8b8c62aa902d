// internal/storage/csvstore.go
//
// 提供平面 CSV 檔的序列化與反序列化實作。
// 每位客戶的每筆交易寫成一列，並重複寫入客戶屬性；無交易的客戶寫一列
// Date 欄為空的屬性列（Balance 欄保存目前餘額）。
// 寫入採「原子寫入」：先寫 .tmp 檔，再以 rename() 取代原檔。
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrBadHeader 表示表頭欄位集合或順序不符，整份檔案不予採用。
var ErrBadHeader = errors.New("invalid csv header")

// CSVStore 讀寫單一平面檔。
type CSVStore struct {
	path string
	log  *zap.Logger
}

// NewCSVStore 建立指向 path 的儲存；log 可為 nil。
func NewCSVStore(path string, log *zap.Logger) *CSVStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSVStore{path: path, log: log}
}

// Path 回傳檔案路徑。
func (s *CSVStore) Path() string { return s.path }

// Load 讀取平面檔並依客戶分組。
// 檔案不存在時回傳包裝 fs.ErrNotExist 的錯誤；表頭不符回傳 ErrBadHeader。
// 數值或時間欄位格式錯誤時只捨棄該列的交易或餘額，客戶本身仍保留；
// 略過的內容以檔案行號記入 LoadResult.Skipped。
func (s *CSVStore) Load() (LoadResult, error) {
	var res LoadResult
	f, err := os.Open(s.path)
	if err != nil {
		return res, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, fmt.Errorf("%w: empty file", ErrBadHeader)
		}
		return res, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(header, Header) {
		s.log.Warn("invalid csv header", zap.String("path", s.path), zap.Strings("got", header))
		return res, fmt.Errorf("%w: got %q", ErrBadHeader, header)
	}

	index := map[string]int{}
	skip := func(line int, id, reason string) {
		res.Skipped = append(res.Skipped, Skipped{Line: line, CustomerID: id, Reason: reason})
		s.log.Warn("skipping row", zap.Int("line", line), zap.String("customer_id", id), zap.String("reason", reason))
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skip(perr.StartLine, "", perr.Err.Error())
			continue
		}
		if err != nil {
			return LoadResult{}, fmt.Errorf("read csv: %w", err)
		}
		line, _ := r.FieldPos(0)
		if len(rec) < colDate {
			skip(line, "", fmt.Sprintf("expected at least %d columns, got %d", colDate, len(rec)))
			continue
		}
		for len(rec) < numCols {
			rec = append(rec, "")
		}

		// 屬性先行登錄，數值欄位損毀只影響該列的交易或餘額
		id := strings.ToUpper(strings.TrimSpace(rec[colCustomerID]))
		i, ok := index[id]
		if !ok {
			i = len(res.Snapshot.Customers)
			index[id] = i
			res.Snapshot.Customers = append(res.Snapshot.Customers,
				PersistCustomer{Line: line, ID: id, AccountType: rec[colAccountType]})
		}
		c := &res.Snapshot.Customers[i]
		c.Name = rec[colName]
		c.DOB = rec[colDOB]
		c.Address = rec[colAddress]
		c.Area = rec[colArea]
		c.AccountTypes = append(c.AccountTypes, FieldValue{Line: line, Value: rec[colAccountType]})

		switch {
		case rec[colDate] != "":
			t, err := parseTransaction(rec)
			if err != nil {
				skip(line, id, err.Error())
				continue
			}
			t.Line = line
			c.Transactions = append(c.Transactions, t)
			c.Balance, c.BalanceKnown = t.Balance, true
		case strings.TrimSpace(rec[colBalance]) != "":
			bal, err := decimal.NewFromString(strings.TrimSpace(rec[colBalance]))
			if err != nil {
				skip(line, id, "balance: "+err.Error())
				continue
			}
			c.Balance, c.BalanceKnown = bal, true
		}
	}
	return res, nil
}

func parseTransaction(rec []string) (PersistTransaction, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(rec[colDate]), time.Local)
	if err != nil {
		return PersistTransaction{}, fmt.Errorf("date: %w", err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[colAmount]))
	if err != nil {
		return PersistTransaction{}, fmt.Errorf("amount: %w", err)
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(rec[colBalance]))
	if err != nil {
		return PersistTransaction{}, fmt.Errorf("balance: %w", err)
	}
	return PersistTransaction{
		Date:          date,
		Type:          rec[colType],
		Amount:        amount,
		Balance:       balance,
		RecipientID:   rec[colRecipientID],
		TransactionID: rec[colTransactionID],
		UTR:           rec[colUTR],
	}, nil
}

// Save 將 Snapshot 寫成平面檔，並採原子方式取代原檔。
func (s *CSVStore) Save(snap Snapshot) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if err := writeSnapshot(f, snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	s.log.Debug("snapshot saved", zap.String("path", s.path), zap.Int("customers", len(snap.Customers)))
	return nil
}

func writeSnapshot(w io.Writer, snap Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range snap.Customers {
		attrs := []string{c.ID, c.Name, c.AccountType, c.DOB, c.Address, c.Area}
		for _, t := range c.Transactions {
			row := append(slices.Clone(attrs),
				t.Date.In(time.Local).Format(DateLayout),
				t.Type,
				t.Amount.StringFixed(2),
				t.Balance.StringFixed(2),
				t.RecipientID,
				t.TransactionID,
				t.UTR,
			)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row %s: %w", c.ID, err)
			}
		}
		if len(c.Transactions) == 0 {
			row := append(slices.Clone(attrs), "", "", "", c.Balance.StringFixed(2), "", "", "")
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row %s: %w", c.ID, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
