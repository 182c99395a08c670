package shopify

import "strings"

// UserError is a business-level failure reported by the API as part of an
// otherwise successful mutation. It is not a transport or protocol error.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func (e UserError) String() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return strings.Join(e.Field, ".") + ": " + e.Message
}

// FormatUserErrors renders user errors as a one-per-line report
func FormatUserErrors(errs []UserError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = "- " + e.String()
	}
	return strings.Join(lines, "\n")
}

// Product is the subset of product fields this server works with
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Order is the subset of order fields this server works with
type Order struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ShippingAddress *MailingAddress `json:"shippingAddress,omitempty"`
	BillingAddress  *MailingAddress `json:"billingAddress,omitempty"`
}

// MailingAddress mirrors the API's MailingAddress type, reused as the
// MailingAddressInput shape on order mutations.
type MailingAddress struct {
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
