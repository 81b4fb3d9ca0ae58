package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/phone"
)

var tmplFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
	"line":  func(i domain.OrderItem) string { return fmt.Sprintf("₹%.2f", i.Price*float64(i.Quantity)) },
	"tel":   phone.Display,
}

type emailView struct {
	OrderRef        string
	Label           string
	PreReservation  bool
	Details         domain.OrderDetails
	PrePaid         float64
	RemainingAmount float64
	PayLabel        string
	AddressLabel    string
}

func newEmailView(details domain.OrderDetails, orderID string, preRes bool) emailView {
	v := emailView{
		OrderRef:        orderRef(orderID, preRes),
		Label:           "ORDER CONFIRMED",
		PreReservation:  preRes,
		Details:         details,
		PrePaid:         details.RemainingPayment,
		RemainingAmount: details.GrandTotal - details.RemainingPayment,
		PayLabel:        "Pay on Delivery",
		AddressLabel:    "DELIVERY LOCATION",
	}
	if preRes {
		v.Label = "PRE-RESERVATION CONFIRMED"
		v.PayLabel = "Pay at Restaurant"
		v.AddressLabel = "RESTAURANT LOCATION"
	}
	return v
}

var customerTmpl = template.Must(template.New("customer").Funcs(tmplFuncs).Parse(`
<div style="background:#000;color:#fff;font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px">
  <h1 style="color:#FFD700">{{.Label}}</h1>
  <p style="color:#888">Order ID: #{{.OrderRef}}</p>
  {{if .PreReservation}}<p style="color:#C084FC">Table Pre-Reserved | Pay only ₹20 now</p>{{end}}
  <table style="width:100%;border-collapse:collapse">
    <tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th></tr>
    {{range .Details.Items}}
    <tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{line .}}</td></tr>
    {{end}}
    <tr><td colspan="2">Subtotal</td><td align="right">{{money .Details.Subtotal}}</td></tr>
    <tr><td colspan="2">Delivery Fee</td><td align="right">{{money .Details.DeliveryFee}}</td></tr>
    <tr><td colspan="2">Convenience Fee</td><td align="right">{{if gt .Details.DogDonation 0.0}}<s>{{money .Details.ConvenienceFee}}</s> FREE{{else}}{{money .Details.ConvenienceFee}}{{end}}</td></tr>
    {{if gt .Details.DogDonation 0.0}}<tr><td colspan="2">Dog Donation</td><td align="right">{{money .Details.DogDonation}}</td></tr>{{end}}
    <tr><td colspan="2"><b>Total</b></td><td align="right"><b>{{money .Details.GrandTotal}}</b></td></tr>
  </table>
  <h3 style="color:#FFD700">PAYMENT DETAILS</h3>
  <p>Order-Confirmation Amount (paid): {{money .PrePaid}}</p>
  <p>{{.PayLabel}}: {{money .RemainingAmount}}</p>
  <h3 style="color:#FFD700">{{.AddressLabel}}</h3>
  <p>{{.Details.DeliveryAddress}}</p>
  <h3 style="color:#FFD700">VENDOR CONTACT</h3>
  <p>Mobile: {{tel .Details.VendorPhone}}</p>
  {{if gt .Details.DogDonation 0.0}}<p style="color:#4ADE80">Thank you for your donation of {{money .Details.DogDonation}} towards our campus dogs!</p>{{end}}
  <p style="color:#888">Thank you for {{if .PreReservation}}your pre-reservation with{{else}}ordering with{{end}} Foodles</p>
</div>`))

var vendorTmpl = template.Must(template.New("vendor").Funcs(tmplFuncs).Parse(`
<div style="background:#000;color:#fff;font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px">
  <h1 style="color:#FFD700">{{if .PreReservation}}NEW PRE-RESERVATION{{else}}NEW ORDER{{end}}_{{.OrderRef}} RECEIVED</h1>
  {{if .PreReservation}}<p style="color:#C084FC">Table Pre-Reserved | Customer will dine-in | Only ₹20 collected online</p>{{end}}
  <table style="width:100%;border-collapse:collapse">
    <tr><th align="left">Item</th><th>Qty</th></tr>
    {{range .Details.Items}}
    <tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td></tr>
    {{end}}
    <tr><td><b>Total Amount</b></td><td align="right"><b>{{money .RemainingAmount}}</b></td></tr>
  </table>
  <h3 style="color:#FFD700">{{.AddressLabel}}</h3>
  <p>{{.Details.DeliveryAddress}}</p>
  <h3 style="color:#FFD700">CUSTOMER CONTACT</h3>
  <p>Mobile: {{tel .Details.CustomerPhone}}</p>
  <p style="color:#888">Please prepare the order for {{if .PreReservation}}dine-in service{{else}}delivery{{end}}</p>
</div>`))

var adminTmpl = template.Must(template.New("admin").Parse(`
<div style="font-family:Arial,sans-serif">
  <h2>Admin Order Notification - #{{.OrderID}}</h2>
  <p>Name: {{.Name}}</p>
  <p>Email: {{.Email}}</p>
  <p>Phone: {{.Phone}}</p>
  <h3>Customer Email View:</h3>{{.CustomerView}}
  <h3>Vendor Email View:</h3>{{.VendorView}}
</div>`))

func renderCustomer(details domain.OrderDetails, orderID string, preRes bool) (string, error) {
	var buf bytes.Buffer
	if err := customerTmpl.Execute(&buf, newEmailView(details, orderID, preRes)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderVendor(details domain.OrderDetails, orderID string, preRes bool) (string, error) {
	var buf bytes.Buffer
	if err := vendorTmpl.Execute(&buf, newEmailView(details, orderID, preRes)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderAdmin bundles both the customer-facing and vendor-facing renderings
// for audit.
func renderAdmin(name, email string, details domain.OrderDetails, orderID string) (string, error) {
	customerView, err := renderCustomer(details, orderID, false)
	if err != nil {
		return "", err
	}
	vendorView, err := renderVendor(details, orderID, false)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = adminTmpl.Execute(&buf, struct {
		OrderID, Name, Email, Phone string
		CustomerView, VendorView    template.HTML
	}{
		OrderID:      orderID,
		Name:         name,
		Email:        email,
		Phone:        details.CustomerPhone,
		CustomerView: template.HTML(customerView),
		VendorView:   template.HTML(vendorView),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
