package gateway

import (
	"context"
	"net/http"
)

// CreateOrder places a rental order
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := c.check(ctx, "create order", req); err != nil {
		return nil, err
	}

	var order Order
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Order.Create, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ConfirmOrder charges the renter and confirms the order
func (c *Client) ConfirmOrder(ctx context.Context, orderID string) (*OrderConfirmation, error) {
	var out OrderConfirmation
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Order.Confirm(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NotifyShipping tells both parties the order has shipped
func (c *Client) NotifyShipping(ctx context.Context, orderID string) (*ShippingNotice, error) {
	var out ShippingNotice
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Order.NotifyShipping(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts returns the whole rental catalog
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.Request(ctx, http.MethodGet, c.endpoints.Inventory.GetAll, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := c.Request(ctx, http.MethodGet, c.endpoints.Inventory.GetByID(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SaveProduct lists a product (or replaces a listing) through the
// inventory update endpoint
func (c *Client) SaveProduct(ctx context.Context, product Product) (*Product, error) {
	if err := c.check(ctx, "save product", product); err != nil {
		return nil, err
	}

	var saved Product
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Inventory.Update, product, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// NotifyRenter emails the product owner about a new order
func (c *Client) NotifyRenter(ctx context.Context, n RenterNotification) error {
	if err := c.check(ctx, "renter notification", n); err != nil {
		return err
	}
	return c.Request(ctx, http.MethodPost, c.endpoints.Notification.Renter, n, nil)
}

// NotifyOrderConfirm emails the customer an order confirmation
func (c *Client) NotifyOrderConfirm(ctx context.Context, n OrderConfirmNotification) error {
	if err := c.check(ctx, "order confirmation notification", n); err != nil {
		return err
	}
	return c.Request(ctx, http.MethodPost, c.endpoints.Notification.OrderConfirm, n, nil)
}

// NotifyDamageReport emails the outcome of a damage report
func (c *Client) NotifyDamageReport(ctx context.Context, n DamageNotification) error {
	if err := c.check(ctx, "damage notification", n); err != nil {
		return err
	}
	return c.Request(ctx, http.MethodPost, c.endpoints.Notification.DamageReport, n, nil)
}

// CompareImages scores a product's condition from before/after images
func (c *Client) CompareImages(ctx context.Context, req ConditionCheckRequest) (*ConditionResult, error) {
	if err := c.check(ctx, "condition check", req); err != nil {
		return nil, err
	}

	var out ConditionResult
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Condition.Check, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Purchase charges the customer for an order
func (c *Client) Purchase(ctx context.Context, req PurchaseRequest) (*Transaction, error) {
	if err := c.check(ctx, "purchase", req); err != nil {
		return nil, err
	}

	var out Transaction
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Transaction.Purchase, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refund returns an order's payment
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*Refund, error) {
	if err := c.check(ctx, "refund", req); err != nil {
		return nil, err
	}

	var out Refund
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Transaction.Refund, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetShippingLabel fetches the printable label for an order
func (c *Client) GetShippingLabel(ctx context.Context, orderID string) (*ShippingLabel, error) {
	var out ShippingLabel
	if err := c.Request(ctx, http.MethodGet, c.endpoints.Shipping.GetLabel(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetShippingInfo fetches tracking details for an order
func (c *Client) GetShippingInfo(ctx context.Context, orderID string) (*ShippingInfo, error) {
	var out ShippingInfo
	if err := c.Request(ctx, http.MethodGet, c.endpoints.Shipping.GetInfo(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportDamage files a damage report for a returned rental
func (c *Client) ReportDamage(ctx context.Context, report DamageReport) (*DamageAssessment, error) {
	if err := c.check(ctx, "damage report", report); err != nil {
		return nil, err
	}

	var out DamageAssessment
	if err := c.Request(ctx, http.MethodPost, c.endpoints.Damage.Report, report, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
