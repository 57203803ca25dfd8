package customer_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpos/backend/internal/customer"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCustomer_WillExceedCreditLimit(t *testing.T) {
	type testCase struct {
		name       string
		balance    string
		limit      string
		additional string
		want       bool
	}

	tests := []testCase{
		{name: "WellUnderLimit", balance: "0", limit: "100", additional: "50", want: false},
		{name: "ExactlyAtLimit", balance: "80", limit: "100", additional: "20", want: false},
		{name: "OverLimit", balance: "80", limit: "100", additional: "20.01", want: true},
		{name: "ZeroLimit", balance: "0", limit: "0", additional: "1", want: true},
		{name: "AlreadyOverLoweredLimit", balance: "120", limit: "100", additional: "1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &customer.Customer{
				CreditBalance: dec(tt.balance),
				CreditLimit:   dec(tt.limit),
			}

			assert.Equal(t, tt.want, c.WillExceedCreditLimit(dec(tt.additional)))
		})
	}
}

func TestCustomer_CheckCreditLimit(t *testing.T) {
	c := &customer.Customer{
		CreditBalance: dec("80"),
		CreditLimit:   dec("100"),
	}

	assert.NoError(t, c.CheckCreditLimit(dec("20")))

	err := c.CheckCreditLimit(dec("25"))

	var limitErr *customer.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.True(t, limitErr.Limit.Equal(dec("100")))
	assert.True(t, limitErr.Balance.Equal(dec("80")))
	assert.True(t, limitErr.Requested.Equal(dec("25")))
	assert.Equal(t, "credit limit exceeded. Limit: 100, Current: 80, New credit: 25", limitErr.Error())
}
