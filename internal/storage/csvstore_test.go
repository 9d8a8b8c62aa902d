// internal/storage/csvstore_test.go
//
// 測試目標：驗證平面檔的序列化與反序列化，以及逐列略過的行為。
// 使用 t.TempDir() 確保測試不汙染本機環境。
package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headerLine = strings.Join(Header, ",")

func writeFile(t *testing.T, lines ...string) *CSVStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return NewCSVStore(path, nil)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCSVRoundTrip(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "bank.csv"), nil)
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	orig := Snapshot{Customers: []PersistCustomer{
		{ID: "CUST001", Name: "Charan", AccountType: "Savings", DOB: "1990-05-15", Address: "123 Main St", Area: "Downtown",
			Balance: d("800.00"), BalanceKnown: true,
			Transactions: []PersistTransaction{
				{Date: when, Type: "upi_out", Amount: d("200"), Balance: d("800"), RecipientID: "CUST002", TransactionID: "ABCD1234", UTR: "ABCDEF123456"},
			}},
		{ID: "CUST002", Name: "Baba, Jr.", AccountType: "Current", DOB: "1985-08-22", Address: "456 \"Oak\" Ave", Area: "Suburb",
			Balance: d("1700.00"), BalanceKnown: true,
			Transactions: []PersistTransaction{
				{Date: when, Type: "upi_in", Amount: d("200"), Balance: d("1700"), RecipientID: "CUST001", TransactionID: "ABCD1234", UTR: "ABCDEF123456"},
			}},
		{ID: "CUST003", Name: "Gowrav", AccountType: "Savings", DOB: "1992-03-10", Address: "789 Pine Rd", Area: "City Center",
			Balance: d("2000.00"), BalanceKnown: true},
	}}

	require.NoError(t, store.Save(orig))
	_, err := os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	res, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Snapshot.Customers, 3)

	for i, want := range orig.Customers {
		got := res.Snapshot.Customers[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Address, got.Address)
		assert.True(t, want.Balance.Equal(got.Balance), "%s balance", want.ID)
		assert.True(t, got.BalanceKnown)
		require.Len(t, got.Transactions, len(want.Transactions))
		for j, wt := range want.Transactions {
			gt := got.Transactions[j]
			assert.True(t, wt.Date.Equal(gt.Date))
			assert.Equal(t, wt.Type, gt.Type)
			assert.True(t, wt.Amount.Equal(gt.Amount))
			assert.Equal(t, wt.TransactionID, gt.TransactionID)
			assert.Equal(t, wt.UTR, gt.UTR)
		}
	}
}

func TestSaveWritesOneRowPerTransaction(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "bank.csv"), nil)
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	tx := PersistTransaction{Date: when, Type: "upi_out", Amount: d("1"), Balance: d("9"), RecipientID: "CUST002", TransactionID: "X", UTR: "Y"}
	require.NoError(t, store.Save(Snapshot{Customers: []PersistCustomer{
		{ID: "CUST001", Name: "A", AccountType: "Savings", Transactions: []PersistTransaction{tx, tx}},
		{ID: "CUST002", Name: "B", AccountType: "Current", Balance: d("5")},
	}}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, headerLine, lines[0])
	assert.Equal(t, "CUST001,A,Savings,,,,2024-01-02 03:04:05,upi_out,1.00,9.00,CUST002,X,Y", lines[1])
	assert.Equal(t, "CUST002,B,Current,,,,,,,5.00,,,", lines[3])
}

func TestLoadMissingFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "nope.csv"), nil)
	_, err := store.Load()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadBadHeader(t *testing.T) {
	cases := map[string]string{
		"missing UTR":  strings.Join(Header[:len(Header)-1], ","),
		"reordered":    "Name,Customer ID,Account Type,DOB,Address,Area,Date,Type,Amount,Balance,Recipient ID,Transaction ID,UTR",
		"extra column": headerLine + ",Note",
		"renamed":      strings.Replace(headerLine, "UTR", "Utr", 1),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			store := writeFile(t, header, "CUST001,Charan,Savings,1990-05-15,a,b,,,,1.00,,,")
			_, err := store.Load()
			assert.ErrorIs(t, err, ErrBadHeader)
		})
	}

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := NewCSVStore(path, nil).Load()
		assert.ErrorIs(t, err, ErrBadHeader)
	})
}

// TestLoadSkipsMalformedRows 單列錯誤只略過該列，其餘照常載入。
func TestLoadSkipsMalformedRows(t *testing.T) {
	store := writeFile(t,
		headerLine,
		"CUST001,Charan,Savings,1990-05-15,123 Main St,Downtown,2024-01-02 03:04:05,upi_out,100.00,900.00,CUST002,AAAAAAAA,BBBBBBBBBBBB",
		"CUST001,Charan,Savings,1990-05-15,123 Main St,Downtown,2024-01-02 03:04:06,upi_out,abc,800.00,CUST002,CCCCCCCC,DDDDDDDDDDDD",
		"CUST001,Charan,Savings,1990-05-15,123 Main St,Downtown,yesterday,upi_out,1.00,799.00,CUST002,EEEEEEEE,FFFFFFFFFFFF",
		"CUST002,Baba,Current,1985-08-22,456 Oak Ave,Suburb,2024-01-02 03:04:05,upi_in,100.00,oops,CUST001,AAAAAAAA,BBBBBBBBBBBB",
		"short,row",
		"cust003,Gowrav,Savings,1992-03-10,789 Pine Rd,City Center,,,,2000.00,,,",
	)

	res, err := store.Load()
	require.NoError(t, err)

	require.Len(t, res.Skipped, 4)
	assert.Equal(t, 3, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Reason, "amount")
	assert.Equal(t, 4, res.Skipped[1].Line)
	assert.Contains(t, res.Skipped[1].Reason, "date")
	assert.Equal(t, "CUST002", res.Skipped[2].CustomerID)
	assert.Contains(t, res.Skipped[2].Reason, "balance")
	assert.Equal(t, 6, res.Skipped[3].Line)

	require.Len(t, res.Snapshot.Customers, 3)
	c1 := res.Snapshot.Customers[0]
	assert.Equal(t, "CUST001", c1.ID)
	require.Len(t, c1.Transactions, 1)
	assert.True(t, d("900").Equal(c1.Balance))
	assert.Len(t, c1.AccountTypes, 3)

	// 唯一一列交易損毀，客戶屬性仍保留
	c2 := res.Snapshot.Customers[1]
	assert.Equal(t, "CUST002", c2.ID)
	assert.Equal(t, "Baba", c2.Name)
	assert.Empty(t, c2.Transactions)
	assert.False(t, c2.BalanceKnown)

	c3 := res.Snapshot.Customers[2]
	assert.Equal(t, "CUST003", c3.ID)
	assert.True(t, c3.BalanceKnown)
	assert.True(t, d("2000").Equal(c3.Balance))
}

// TestLoadLegacyAttributeRow 舊檔的屬性列沒有餘額欄位值。
func TestLoadLegacyAttributeRow(t *testing.T) {
	store := writeFile(t, headerLine, "CUST004,Rahul,Current,1988-11-30,101 Elm St,Downtown,,,,,,,")
	res, err := store.Load()
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Customers, 1)
	assert.False(t, res.Snapshot.Customers[0].BalanceKnown)
	assert.Equal(t, "Rahul", res.Snapshot.Customers[0].Name)
}

// TestLoadAcceptsFloatFormatting 接受舊程式寫出的 "200.0" 格式。
func TestLoadAcceptsFloatFormatting(t *testing.T) {
	store := writeFile(t, headerLine,
		"CUST001,Charan,Savings,1990-05-15,123 Main St,Downtown,2024-01-02 03:04:05,upi_out,200.0,800.0,CUST002,ABCD1234,ABCDEF12-345")
	res, err := store.Load()
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Customers, 1)
	tx := res.Snapshot.Customers[0].Transactions[0]
	assert.True(t, d("200").Equal(tx.Amount))
	assert.Equal(t, "ABCDEF12-345", tx.UTR)
}

// TestLoadBadAttributeBalanceKeepsCustomer 屬性列餘額損毀時保留客戶，餘額視為未知。
func TestLoadBadAttributeBalanceKeepsCustomer(t *testing.T) {
	store := writeFile(t, headerLine,
		"CUST002,Baba,Current,1985-08-22,456 Oak Ave,Suburb,,,,15OO.00,,,")
	res, err := store.Load()
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
	assert.Equal(t, "CUST002", res.Skipped[0].CustomerID)
	require.Len(t, res.Snapshot.Customers, 1)
	c := res.Snapshot.Customers[0]
	assert.Equal(t, "CUST002", c.ID)
	assert.False(t, c.BalanceKnown)
}

// TestLoadReportsFileLineNumbers 引號內換行時，略過的列仍回報實際檔案行號。
func TestLoadReportsFileLineNumbers(t *testing.T) {
	store := writeFile(t, headerLine,
		"CUST001,Charan,Savings,1990-05-15,\"123 Main St\nFlat 4\nBlock B\",Downtown,,,,1000.00,,,",
		"CUST002,Baba,Current,1985-08-22,456 Oak Ave,Suburb,2024-01-02 03:04:05,upi_in,abc,1500.00,CUST001,AAAAAAAA,BBBBBBBBBBBB",
		"CUST003,\"Go\"wrav,Savings,1992-03-10,789 Pine Rd,City Center,,,,2000.00,,,",
		"CUST004,Rahul,Current,1988-11-30,101 Elm St,Downtown,,,,800.00,,,",
	)
	res, err := store.Load()
	require.NoError(t, err)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 5, res.Skipped[0].Line)
	assert.Equal(t, "CUST002", res.Skipped[0].CustomerID)
	assert.Equal(t, 6, res.Skipped[1].Line)

	require.Len(t, res.Snapshot.Customers, 3)
	assert.Equal(t, "123 Main St\nFlat 4\nBlock B", res.Snapshot.Customers[0].Address)
	assert.Equal(t, 7, res.Snapshot.Customers[2].Line)
}

// TestSaveWritesLocalTime 非本地時區的時間以本地時間寫出，載入後仍為同一時刻。
func TestSaveWritesLocalTime(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "bank.csv"), nil)
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("UTC+9", 9*3600))
	require.NoError(t, store.Save(Snapshot{Customers: []PersistCustomer{
		{ID: "CUST001", Name: "A", AccountType: "Savings", Transactions: []PersistTransaction{
			{Date: when, Type: "upi_out", Amount: d("1"), Balance: d("9"), RecipientID: "CUST002", TransactionID: "X", UTR: "Y"},
		}},
	}}))

	res, err := store.Load()
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Customers, 1)
	got := res.Snapshot.Customers[0].Transactions[0].Date
	assert.True(t, when.Equal(got), "got %s want %s", got, when)
}
