package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID holds an identifier the upstream services send either as a JSON
// number or a JSON string. Numeric IDs are written back as numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	// Only canonical integers go out bare; "007" or "+7" stay strings
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Orders

type CreateOrderRequest struct {
	ProductID ID      `json:"productId" validate:"required"`
	RenterID  ID      `json:"renterID" validate:"required"`
	UserID    ID      `json:"userID" validate:"required"`
	StartDate string  `json:"startDate" validate:"required"`
	EndDate   string  `json:"endDate" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"` // days × daily rate, computed by the caller
}

type Order struct {
	OrderID   ID      `json:"orderID"`
	ProductID ID      `json:"productID"`
	RenterID  ID      `json:"renterID"`
	UserID    ID      `json:"userID"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Price     float64 `json:"price"`
	Status    string  `json:"status,omitempty"`
}

type OrderConfirmation struct {
	Message       string `json:"message"`
	OrderID       ID     `json:"orderID"`
	TransactionID string `json:"transactionID"`
	Status        string `json:"status"`
}

type ShippingNotice struct {
	Message        string `json:"message"`
	OrderID        ID     `json:"orderID"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

// Inventory

type Product struct {
	ProductID        ID      `json:"productID"`
	ProductName      string  `json:"productName" validate:"required"`
	ProductDesc      string  `json:"productDesc"`
	OriginalImageURL string  `json:"originalImageUrl"`
	ConditionScore   float64 `json:"conditionScore"`
	Price            float64 `json:"price" validate:"gte=0"`
	ItemPrice        float64 `json:"itemPrice" validate:"gte=0"`
	Availability     bool    `json:"availability"`
	UserID           ID      `json:"userID" validate:"required"`
}

// Notifications

type RenterNotification struct {
	RenterEmail   string `json:"renterEmail" validate:"required,email"`
	ProductID     ID     `json:"productID" validate:"required"`
	ProdDesc      string `json:"prodDesc"`
	OriginalImage string `json:"originalImage"`
}

type OrderConfirmNotification struct {
	OrderID       ID     `json:"orderID" validate:"required"`
	ProductID     ID     `json:"productID" validate:"required"`
	ProdDesc      string `json:"prodDesc"`
	OriginalImage string `json:"originalImage"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
	UserID        ID     `json:"userID" validate:"required"`
	UserEmail     string `json:"userEmail" validate:"required,email"`
}

type DamageNotification struct {
	OrderID     ID      `json:"orderID" validate:"required"`
	ProductName string  `json:"productName"`
	UserEmail   string  `json:"userEmail" validate:"required,email"`
	Description string  `json:"description"`
	DamageType  string  `json:"damageType"`
	RefundAmt   float64 `json:"refundAmt,omitempty"`
}

// Condition checking

type ConditionCheckRequest struct {
	ProductID        ID       `json:"productID" validate:"required"`
	OriginalImageURL string   `json:"originalImageUrl" validate:"required,url"`
	ReportImageURL   string   `json:"reportImageUrl" validate:"required,url"`
	DamageKeywords   []string `json:"damageKeywords,omitempty"`
	ConditionScore   float64  `json:"conditionScore"`
	Availability     bool     `json:"availability"`
}

type ConditionResult struct {
	NewConditionScore float64 `json:"newConditionScore"`
	Availability      bool    `json:"availability"`
}

// Transactions

type PurchaseRequest struct {
	OrderID    ID      `json:"orderID" validate:"required"`
	UserID     ID      `json:"userID" validate:"required"`
	PaymentAmt float64 `json:"paymentAmt" validate:"gte=0"`
}

type Transaction struct {
	TransactionID string  `json:"transactionID"`
	Status        string  `json:"status"`
	PaymentAmt    float64 `json:"paymentAmt"`
}

type RefundRequest struct {
	OrderID ID `json:"orderID" validate:"required"`
}

type Refund struct {
	RefundID  string  `json:"refundID"`
	RefundAmt float64 `json:"refundAmt"`
	Status    string  `json:"status"`
}

// Shipping

type ShippingLabel struct {
	OrderID        ID     `json:"order_id"`
	LabelURL       string `json:"label_url"`
	TrackingNumber string `json:"tracking_number"`
}

type ShippingInfo struct {
	OrderID        ID     `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	LabelURL       string `json:"label_url"`
	Status         string `json:"status"`
	UserID         ID     `json:"user_id"`
	RenterID       ID     `json:"renter_id"`
	ProductID      ID     `json:"product_id"`
}

// Damage reports

type DamageReport struct {
	OrderID        ID     `json:"orderID" validate:"required"`
	ProductID      ID     `json:"productID" validate:"required"`
	UserID         ID     `json:"userID" validate:"required"`
	ReportImageURL string `json:"reportImageUrl" validate:"required,url"`
	Description    string `json:"description"`
	DamageType     string `json:"damageType"`
}

type DamageAssessment struct {
	Message           string  `json:"message"`
	NewConditionScore float64 `json:"newConditionScore"`
	Availability      bool    `json:"availability"`
	RefundAmt         float64 `json:"refundAmt"`
}

// Identity

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Street1  string `json:"street1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	PhoneNo  string `json:"phoneNo"`
}

// AuthResult is the identity service's answer to login and signup. A
// 2xx response can still carry a failure in ErrorMessage.
type AuthResult struct {
	UserID       ID     `json:"userID"`
	Success      *bool  `json:"success,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type UserDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Street1 string `json:"street1"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	PhoneNo string `json:"phoneNo"`
}

type userInfoResponse struct {
	Details UserDetails `json:"details"`
}

type userEmailResponse struct {
	Email string `json:"email"`
}

type stripeCustomerResponse struct {
	StripeCusID string `json:"stripeCusID"`
}
