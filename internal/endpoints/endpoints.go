// Package endpoints builds the fully-qualified URLs of the rental platform's
// gateway and external identity services.
package endpoints

import (
	"net/url"
	"strings"
)

// DefaultIdentityBaseURL hosts the external user service
const DefaultIdentityBaseURL = "https://personal-s5llcxwn.outsystemscloud.com/userMS/rest/user"

// Placeholder marks the identifier slot in listed templates
const Placeholder = "{id}"

// URLFunc builds a URL for a single identifier
type URLFunc func(id string) string

// Registry maps logical operations to URLs. It is immutable once built.
type Registry struct {
	BaseURL string

	Order        OrderEndpoints
	Inventory    InventoryEndpoints
	Notification NotificationEndpoints
	Condition    ConditionEndpoints
	Transaction  TransactionEndpoints
	Shipping     ShippingEndpoints
	Damage       DamageEndpoints
	External     ExternalEndpoints
}

type OrderEndpoints struct {
	Create         string
	Confirm        URLFunc
	NotifyShipping URLFunc
}

type InventoryEndpoints struct {
	GetAll  string
	GetByID URLFunc
	Update  string
}

type NotificationEndpoints struct {
	Renter       string
	OrderConfirm string
	DamageReport string
}

type ConditionEndpoints struct {
	Check string
}

type TransactionEndpoints struct {
	Purchase string
	Refund   string
}

type ShippingEndpoints struct {
	GetLabel URLFunc
	GetInfo  URLFunc
}

type DamageEndpoints struct {
	Report string
}

// ExternalEndpoints live outside the gateway. UserEmail and StripeCustomer
// end in a slash; callers add the "?id=" query themselves.
type ExternalEndpoints struct {
	UserEmail      string
	UserInfo       string
	Login          string
	Signup         string
	StripeCustomer string
}

// New builds the registry for a gateway base URL
func New(baseURL string) *Registry {
	return NewWithIdentity(baseURL, DefaultIdentityBaseURL)
}

// NewWithIdentity builds the registry with a non-default identity host
func NewWithIdentity(baseURL, identityBaseURL string) *Registry {
	base := strings.TrimRight(baseURL, "/")
	identity := strings.TrimRight(identityBaseURL, "/")
	if identity == "" {
		identity = DefaultIdentityBaseURL
	}

	withID := func(prefix, suffix string) URLFunc {
		return func(id string) string {
			return base + prefix + url.PathEscape(id) + suffix
		}
	}

	return &Registry{
		BaseURL: base,
		Order: OrderEndpoints{
			Create:         base + "/order/orders",
			Confirm:        withID("/order/confirm/", ""),
			NotifyShipping: withID("/order/notify-shipping/", ""),
		},
		Inventory: InventoryEndpoints{
			GetAll:  base + "/inventory/products",
			GetByID: withID("/inventory/products/", ""),
			Update:  base + "/inventory/products",
		},
		Notification: NotificationEndpoints{
			Renter:       base + "/notification/renter/notify",
			OrderConfirm: base + "/notification/order/confirm",
			DamageReport: base + "/notification/damage/report",
		},
		Condition: ConditionEndpoints{
			Check: base + "/condition/compareImages",
		},
		Transaction: TransactionEndpoints{
			Purchase: base + "/transaction/purchase",
			Refund:   base + "/transaction/refund",
		},
		Shipping: ShippingEndpoints{
			GetLabel: withID("/shipping/", "/label"),
			GetInfo:  withID("/shipping/", ""),
		},
		Damage: DamageEndpoints{
			Report: base + "/damage/report-damage",
		},
		External: ExternalEndpoints{
			UserEmail:      identity + "/getEmail/",
			UserInfo:       identity + "/getUserInfo",
			Login:          identity + "/login",
			Signup:         identity + "/addUser",
			StripeCustomer: identity + "/getStripeCusID/",
		},
	}
}

// WithID appends the "?id=" query the identity service expects
func WithID(endpoint, id string) string {
	return endpoint + "?id=" + url.QueryEscape(id)
}

// Entry is one registry row, for listings
type Entry struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Parameterized bool   `json:"parameterized"`
}

// Entries lists every endpoint in a stable order. Parameterized URLs show
// the Placeholder where the identifier goes.
func (r *Registry) Entries() []Entry {
	fixed := func(name, u string) Entry {
		return Entry{Name: name, URL: u}
	}
	param := func(name string, fn URLFunc) Entry {
		u := strings.ReplaceAll(fn(Placeholder), url.PathEscape(Placeholder), Placeholder)
		return Entry{Name: name, URL: u, Parameterized: true}
	}

	return []Entry{
		fixed("order.create", r.Order.Create),
		param("order.confirm", r.Order.Confirm),
		param("order.notify_shipping", r.Order.NotifyShipping),
		fixed("inventory.get_all", r.Inventory.GetAll),
		param("inventory.get_by_id", r.Inventory.GetByID),
		fixed("inventory.update", r.Inventory.Update),
		fixed("notification.renter", r.Notification.Renter),
		fixed("notification.order_confirm", r.Notification.OrderConfirm),
		fixed("notification.damage_report", r.Notification.DamageReport),
		fixed("condition.check", r.Condition.Check),
		fixed("transaction.purchase", r.Transaction.Purchase),
		fixed("transaction.refund", r.Transaction.Refund),
		param("shipping.get_label", r.Shipping.GetLabel),
		param("shipping.get_info", r.Shipping.GetInfo),
		fixed("damage.report", r.Damage.Report),
		fixed("external.user_email", r.External.UserEmail),
		fixed("external.user_info", r.External.UserInfo),
		fixed("external.login", r.External.Login),
		fixed("external.signup", r.External.Signup),
		fixed("external.stripe_customer", r.External.StripeCustomer),
	}
}
