package submission

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Variants(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		action  Action
		wantErr error
	}{
		{
			name:   "driver register",
			raw:    `{"action":"driver_register","name":"Ahmed","payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			action: ActionDriverRegister,
		},
		{
			name:   "add product",
			raw:    `{"action":"add_product","title":"Phone","price":150,"payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			action: ActionAddProduct,
		},
		{
			name:   "charge wallet",
			raw:    `{"action":"charge_wallet","amount":100,"payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			action: ActionChargeWallet,
		},
		{
			name:   "withdraw",
			raw:    `{"action":"withdraw","amount":50,"payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			action: ActionWithdraw,
		},
		{
			name:    "unknown action",
			raw:     `{"action":"delete_everything"}`,
			wantErr: ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.raw))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.action, s.Action())
		})
	}
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode([]byte("not json at all"))
	require.Error(t, err)
}

func TestValidate_PaymentProof(t *testing.T) {
	actions := map[string]string{
		"driver_register": `{"action":"driver_register","name":"Ahmed",%s}`,
		"add_product":     `{"action":"add_product","title":"Phone",%s}`,
		"charge_wallet":   `{"action":"charge_wallet","amount":100,%s}`,
		"withdraw":        `{"action":"withdraw","amount":50,%s}`,
	}

	// Каждое действие должно отклоняться при отсутствии любого из трёх
	// платёжных полей.
	proofs := []struct {
		name   string
		fields string
	}{
		{name: "missing payerName", fields: `"payerPhone":"0911","paymentReceipt":"img1"`},
		{name: "missing payerPhone", fields: `"payerName":"Ali","paymentReceipt":"img1"`},
		{name: "missing paymentReceipt", fields: `"payerName":"Ali","payerPhone":"0911"`},
	}

	for action, tmpl := range actions {
		for _, proof := range proofs {
			t.Run(action+" "+proof.name, func(t *testing.T) {
				raw := []byte(fmt.Sprintf(tmpl, proof.fields))

				s, err := Decode(raw)
				require.NoError(t, err)

				require.ErrorIs(t, s.Validate(), ErrPaymentProof)
			})
		}
	}
}

func TestValidate_Amounts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name: "positive amount ok",
			raw:  `{"action":"charge_wallet","amount":100,"payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
		},
		{
			name:    "zero amount rejected",
			raw:     `{"action":"charge_wallet","amount":0,"payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing amount rejected",
			raw:     `{"action":"withdraw","payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			raw:     `{"action":"withdraw","amount":-5,"payerName":"Ali","payerPhone":"0911","paymentReceipt":"img1"}`,
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.raw))
			require.NoError(t, err)

			err = s.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
