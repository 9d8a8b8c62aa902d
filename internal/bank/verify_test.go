package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	b, _ := newTestBank(t)
	charan := Identity{Name: "Charan", DOB: "1990-05-15", Address: "123 Main St", Area: "Downtown"}

	cases := []struct {
		name string
		id   string
		want Identity
		ok   bool
	}{
		{"exact", "CUST001", charan, true},
		{"lower-case id", "cust001", charan, true},
		{"case-insensitive text", "CUST001", Identity{"cHaRaN", "1990-05-15", "123 MAIN ST", "downtown"}, true},
		{"dob must match exactly", "CUST001", Identity{"Charan", "1990-5-15", "123 Main St", "Downtown"}, false},
		{"address mismatch", "CUST001", Identity{"Charan", "1990-05-15", "124 Main St", "Downtown"}, false},
		{"area mismatch", "CUST001", Identity{"Charan", "1990-05-15", "123 Main St", "Uptown"}, false},
		{"unknown id", "CUST999", charan, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, b.Verify(tc.id, tc.want))
		})
	}
}

// denyVerifier 模擬外部身分服務拒絕特定客戶。
type denyVerifier struct{ deny string }

func (d denyVerifier) Verify(c Customer, _ Identity) bool { return c.ID != d.deny }

// TestRecipientVerificationAbortsBeforeMutation 第二道驗證失敗時，扣款也不得發生。
func TestRecipientVerificationAbortsBeforeMutation(t *testing.T) {
	b, st := newTestBank(t, WithVerifier(denyVerifier{deny: "CUST002"}))
	before := fingerprint(b)

	_, err := b.Transfer(TransferRequest{SenderID: "CUST001", RecipientID: "CUST002", Amount: "10", Medium: "UPI"})
	require.ErrorIs(t, err, ErrVerification)
	assert.Equal(t, before, fingerprint(b))
	assert.Zero(t, st.saves)

	_, err = b.Transfer(TransferRequest{SenderID: "CUST001", RecipientID: "CUST003", Amount: "10", Medium: "UPI"})
	require.NoError(t, err)
}
