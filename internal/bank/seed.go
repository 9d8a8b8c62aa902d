package bank

import "github.com/shopspring/decimal"

type seedCustomer struct {
	name        string
	dob         string
	address     string
	area        string
	balance     string
	accountType AccountType
}

// seedSet 為無可用存檔時的示範客戶，依序對應 CUST001…CUST010。
var seedSet = []seedCustomer{
	{"Charan", "1990-05-15", "123 Main St", "Downtown", "1000.00", Savings},
	{"Baba", "1985-08-22", "456 Oak Ave", "Suburb", "1500.00", Current},
	{"Gowrav", "1992-03-10", "789 Pine Rd", "City Center", "2000.00", Savings},
	{"Rahul", "1988-11-30", "101 Elm St", "Downtown", "800.00", Current},
	{"Priya", "1995-07-19", "202 Maple Dr", "Suburb", "1200.00", Savings},
	{"Amit", "1987-04-25", "303 Cedar Ln", "City Center", "1800.00", Current},
	{"Sneha", "1993-09-12", "404 Birch Ave", "Downtown", "900.00", Savings},
	{"Vikram", "1986-02-17", "505 Spruce St", "Suburb", "2500.00", Current},
	{"Anjali", "1991-12-05", "606 Willow Rd", "City Center", "1100.00", Savings},
	{"Rohan", "1989-06-08", "707 Ash Dr", "Downtown", "1700.00", Current},
}

// seedBalance 回傳示範客戶的初始餘額。
func seedBalance(id string) (decimal.Decimal, bool) {
	for i, s := range seedSet {
		if FormatCustomerID(i+1) == id {
			return decimal.RequireFromString(s.balance), true
		}
	}
	return decimal.Decimal{}, false
}

// Seed 以示範客戶取代目前的登錄表。
func (b *Bank) Seed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
	for i, s := range seedSet {
		b.insert(&Customer{
			ID:          FormatCustomerID(i + 1),
			Name:        s.name,
			AccountType: s.accountType,
			DOB:         s.dob,
			Address:     s.address,
			Area:        s.area,
			Balance:     decimal.RequireFromString(s.balance),
		})
	}
}
