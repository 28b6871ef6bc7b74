package payment

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// UPIGenerator builds upi://pay deep links and QR codes for a single
// merchant identity.
type UPIGenerator struct {
	VPA             string
	MerchantName    string
	TransactionNote string
}

func NewUPIGenerator(vpa, merchant string) *UPIGenerator {
	return &UPIGenerator{
		VPA:             vpa,
		MerchantName:    merchant,
		TransactionNote: "DineAt Food Order",
	}
}

// PaymentString renders the UPI deep link:
// upi://pay?pa=<vpa>&pn=<merchant>&am=<amount>&cu=INR&tn=<note>
func (g *UPIGenerator) PaymentString(amount decimal.Decimal, orderRef string) string {
	s := fmt.Sprintf("upi://pay?pa=%s&pn=%s", g.VPA, g.MerchantName)
	if amount.IsPositive() {
		s += fmt.Sprintf("&am=%s&cu=INR", amount.StringFixed(2))
	}
	note := g.TransactionNote
	if orderRef != "" {
		note = fmt.Sprintf("%s - Order #%s", g.TransactionNote, orderRef)
	}
	return s + "&tn=" + note
}

// Details is everything a payment page needs to present a UPI intent.
type Details struct {
	UPIID           string `json:"upi_id"`
	MerchantName    string `json:"merchant_name"`
	Amount          string `json:"amount"`
	OrderRef        string `json:"order_ref"`
	TransactionNote string `json:"transaction_note"`
	UPIString       string `json:"upi_string"`
	// QRCode is a base64 PNG of UPIString, empty when encoding failed and
	// the caller should fall back to the bare deep link.
	QRCode string `json:"qr_code,omitempty"`
}

func (g *UPIGenerator) PaymentDetails(amount decimal.Decimal, orderRef string) Details {
	uri := g.PaymentString(amount, orderRef)
	d := Details{
		UPIID:           g.VPA,
		MerchantName:    g.MerchantName,
		Amount:          amount.StringFixed(2),
		OrderRef:        orderRef,
		TransactionNote: fmt.Sprintf("%s - Order #%s", g.TransactionNote, orderRef),
		UPIString:       uri,
	}
	if png, err := qrcode.Encode(uri, qrcode.Low, 256); err == nil {
		d.QRCode = base64.StdEncoding.EncodeToString(png)
	}
	return d
}
