package bank

import "strings"

// Verifier 在轉帳提交前重新確認客戶身分。
// 預設實作只比對登錄表內的資料；若接上外部身分服務，替換此介面即可。
type Verifier interface {
	Verify(current Customer, want Identity) bool
}

// SnapshotVerifier 以登錄表的資料比對呼叫端提供的快照：
// 姓名、地址、區域不分大小寫，生日須完全相同。
type SnapshotVerifier struct{}

func (SnapshotVerifier) Verify(current Customer, want Identity) bool {
	return strings.EqualFold(current.Name, want.Name) &&
		current.DOB == want.DOB &&
		strings.EqualFold(current.Address, want.Address) &&
		strings.EqualFold(current.Area, want.Area)
}

// Verify 回傳 id 對應的客戶是否符合 want；客戶不存在時回傳 false。
func (b *Bank) Verify(id string, want Identity) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.verify(NormalizeID(id), want)
}

func (b *Bank) verify(id string, want Identity) bool {
	c, ok := b.customers[id]
	if !ok {
		return false
	}
	return b.verifier.Verify(*c, want)
}
