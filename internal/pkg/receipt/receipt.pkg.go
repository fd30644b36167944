package receipt

import (
	"bytes"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	Currency = currency.MustParseISO("BDT")
	printer  = message.NewPrinter(language.English)
)

const ShippingFree = "FREE"

type Line struct {
	ProductID uint64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"line_total"`
	Display   string  `json:"display"`
}

// Receipt is the read model behind the order receipt page.
type Receipt struct {
	OrderID         uint64                 `json:"order_id"`
	Status          enum.OrderStatusEnum   `json:"status"`
	PaymentStatus   enum.PaymentStatusEnum `json:"payment_status"`
	ShippingAddress string                 `json:"shipping_address"`
	Items           []Line                 `json:"items"`
	Subtotal        float64                `json:"subtotal"`
	Shipping        string                 `json:"shipping"`
	TotalAmount     float64                `json:"total_amount"`
	Total           string                 `json:"total"`
	Currency        string                 `json:"currency"`
	CreatedAt       time.Time              `json:"created_at"`
	ArchiveURL      string                 `json:"archive_url,omitempty"`
}

// FormatAmount renders amount as "BDT 1,250.00".
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%s %s", Currency.String(), printer.Sprint(number.Decimal(amount, number.Scale(2))))
}

func Build(order *models.Order) *Receipt {
	lines := lo.Map(order.Items, func(item models.OrderItem, _ int) Line {
		total := item.LineTotal()
		return Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: total,
			Display:   fmt.Sprintf("#%d x%d  %s", item.ProductID, item.Quantity, FormatAmount(total)),
		}
	})

	return &Receipt{
		OrderID:         order.ID,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus(),
		ShippingAddress: order.ShippingAddress,
		Items:           lines,
		Subtotal:        lo.SumBy(lines, func(l Line) float64 { return l.LineTotal }),
		Shipping:        ShippingFree,
		TotalAmount:     order.TotalAmount,
		Total:           FormatAmount(order.TotalAmount),
		Currency:        Currency.String(),
		CreatedAt:       order.CreatedAt,
	}
}

// Key is the object key the archived receipt of orderID is stored under.
func Key(orderID uint64) string {
	return fmt.Sprintf("receipts/%d.txt", orderID)
}

// Text renders the plain-text receipt archived to object storage.
func (r *Receipt) Text() []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "EcoSync Hub receipt\n")
	fmt.Fprintf(&b, "Order #%d\n", r.OrderID)
	fmt.Fprintf(&b, "Date: %s\n", r.CreatedAt.UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, "Status: %s / payment %s\n\n", r.Status, r.PaymentStatus)

	fmt.Fprintf(&b, "Ship to:\n%s\n\n", indent(r.ShippingAddress))

	for _, l := range r.Items {
		fmt.Fprintf(&b, "%s\n", l.Display)
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatAmount(r.Subtotal))
	fmt.Fprintf(&b, "Shipping: %s\n", r.Shipping)
	fmt.Fprintf(&b, "Total: %s\n", r.Total)

	return b.Bytes()
}

func indent(s string) string {
	if s == "" {
		return "  -"
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
