package endpoints

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_GatewayPaths(t *testing.T) {
	r := New("http://localhost:8000/")

	assert.Equal(t, "http://localhost:8000", r.BaseURL)
	assert.Equal(t, "http://localhost:8000/order/orders", r.Order.Create)
	assert.Equal(t, "http://localhost:8000/order/confirm/42", r.Order.Confirm("42"))
	assert.Equal(t, "http://localhost:8000/order/notify-shipping/42", r.Order.NotifyShipping("42"))
	assert.Equal(t, "http://localhost:8000/inventory/products", r.Inventory.GetAll)
	assert.Equal(t, "http://localhost:8000/inventory/products/7", r.Inventory.GetByID("7"))
	assert.Equal(t, "http://localhost:8000/inventory/products", r.Inventory.Update)
	assert.Equal(t, "http://localhost:8000/notification/renter/notify", r.Notification.Renter)
	assert.Equal(t, "http://localhost:8000/notification/order/confirm", r.Notification.OrderConfirm)
	assert.Equal(t, "http://localhost:8000/notification/damage/report", r.Notification.DamageReport)
	assert.Equal(t, "http://localhost:8000/condition/compareImages", r.Condition.Check)
	assert.Equal(t, "http://localhost:8000/transaction/purchase", r.Transaction.Purchase)
	assert.Equal(t, "http://localhost:8000/transaction/refund", r.Transaction.Refund)
	assert.Equal(t, "http://localhost:8000/shipping/abc/label", r.Shipping.GetLabel("abc"))
	assert.Equal(t, "http://localhost:8000/shipping/abc", r.Shipping.GetInfo("abc"))
	assert.Equal(t, "http://localhost:8000/damage/report-damage", r.Damage.Report)
}

func TestNew_ExternalEndpointsFixed(t *testing.T) {
	a := New("http://one:8000")
	b := New("https://two.example.com")

	assert.Equal(t, a.External, b.External)
	assert.Equal(t, DefaultIdentityBaseURL+"/login", a.External.Login)
	assert.Equal(t, DefaultIdentityBaseURL+"/addUser", a.External.Signup)
	assert.Equal(t, DefaultIdentityBaseURL+"/getEmail/", a.External.UserEmail)
	assert.Equal(t, DefaultIdentityBaseURL+"/getUserInfo", a.External.UserInfo)
	assert.Equal(t, DefaultIdentityBaseURL+"/getStripeCusID/", a.External.StripeCustomer)
}

func TestParameterizedEndpointsAreIdempotent(t *testing.T) {
	r := New("http://localhost:8000")

	for _, fn := range []URLFunc{
		r.Order.Confirm, r.Order.NotifyShipping, r.Inventory.GetByID,
		r.Shipping.GetLabel, r.Shipping.GetInfo,
	} {
		assert.Equal(t, fn("order-1"), fn("order-1"))
	}
}

func TestWithID(t *testing.T) {
	r := New("http://localhost:8000")
	assert.Equal(t, DefaultIdentityBaseURL+"/getEmail/?id=12", WithID(r.External.UserEmail, "12"))
	assert.Equal(t, DefaultIdentityBaseURL+"/getUserInfo?id=a+b", WithID(r.External.UserInfo, "a b"))
}

func TestEntries(t *testing.T) {
	r := NewWithIdentity("http://gw", "http://identity/")
	entries := r.Entries()
	require.Len(t, entries, 20)

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	confirm := byName["order.confirm"]
	assert.True(t, confirm.Parameterized)
	assert.Equal(t, "http://gw/order/confirm/{id}", confirm.URL)

	label := byName["shipping.get_label"]
	assert.Equal(t, "http://gw/shipping/{id}/label", label.URL)

	assert.Equal(t, "http://identity/login", byName["external.login"].URL)
	for _, e := range entries {
		assert.Equal(t, e.Parameterized, strings.Contains(e.URL, Placeholder), e.Name)
	}
}
