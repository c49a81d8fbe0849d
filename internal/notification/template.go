package notification

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const signature = "Best regards,\nE-commerce Flow Team"

// Compose renders the message of the given kind for one order.
func Compose(kind Kind, data OrderData) (Message, error) {
	if data.CustomerEmail == "" {
		return Message{}, ErrNoRecipient
	}

	var subject, body string
	switch kind {
	case KindConfirmation:
		subject = "Order Confirmation #" + data.OrderNumber
		body = confirmationBody(data)
	case KindDeclined:
		subject = "Payment Declined - Order #" + data.OrderNumber
		body = declinedBody(data)
	case KindGatewayError:
		subject = "Payment Error - Order #" + data.OrderNumber
		body = gatewayErrorBody(data)
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return Message{
		Kind:        kind,
		OrderNumber: data.OrderNumber,
		To:          data.CustomerEmail,
		Subject:     subject,
		Body:        body,
	}, nil
}

func confirmationBody(d OrderData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.CustomerName)
	b.WriteString("Thank you for your order! Your payment has been processed successfully.\n\n")
	writeOrderDetails(&b, d)
	b.WriteString("SHIPPING ADDRESS:\n")
	fmt.Fprintf(&b, "%s\n%s, %s %s\n\n", d.Address.Address, d.Address.City, d.Address.State, d.Address.ZipCode)
	b.WriteString("Your order is being processed and you will receive a shipping confirmation once your items are dispatched.\n\n")
	b.WriteString("Thank you for shopping with us!\n\n")
	b.WriteString(signature)
	return b.String()
}

func declinedBody(d OrderData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.CustomerName)
	b.WriteString("We were unable to process your payment for the following order:\n\n")
	writeOrderDetails(&b, d)
	b.WriteString("REASON: Your payment was declined by your bank or card issuer.\n\n")
	b.WriteString("NEXT STEPS:\n")
	b.WriteString("- Please check your card details and try again\n")
	b.WriteString("- Ensure you have sufficient funds available\n")
	b.WriteString("- Contact your bank if the issue persists\n")
	b.WriteString("- Try using a different payment method\n\n")
	b.WriteString("You can retry your purchase by visiting our website and going through the checkout process again.\n\n")
	b.WriteString("If you continue to experience issues, please contact our support team.\n\n")
	b.WriteString(signature)
	return b.String()
}

func gatewayErrorBody(d OrderData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.CustomerName)
	b.WriteString("We encountered a technical issue while processing your payment for the following order:\n\n")
	writeOrderDetails(&b, d)
	b.WriteString("REASON: A technical error occurred with our payment gateway.\n\n")
	b.WriteString("NEXT STEPS:\n")
	b.WriteString("- Please wait a few minutes and try your purchase again\n")
	b.WriteString("- If the issue persists, please contact our support team immediately\n")
	b.WriteString("- We apologize for any inconvenience caused\n\n")
	b.WriteString("Our technical team has been notified of this issue and is working to resolve it.\n\n")
	b.WriteString("For immediate assistance, please contact:\n")
	b.WriteString("- Support Email: support@ecommerce-flow\n")
	b.WriteString("- Support Phone: 1-800-SUPPORT\n\n")
	b.WriteString(signature)
	return b.String()
}

func writeOrderDetails(b *strings.Builder, d OrderData) {
	b.WriteString("ORDER DETAILS:\n")
	fmt.Fprintf(b, "Order Number: %s\n\n", d.OrderNumber)
	b.WriteString("ITEMS ORDERED:\n")
	b.WriteString(formatItems(d.Items))
	fmt.Fprintf(b, "\n\nTotal: %s\n\n", money(d.Total))
}

// formatItems numbers the lines from 1. "Std" sizes and "Default" colors are placeholders and are left out.
func formatItems(items []Item) string {
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		name := item.ProductName
		if name == "" {
			name = "Product"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s", i+1, name)
		if item.SelectedSize != "" && item.SelectedSize != "Std" {
			fmt.Fprintf(&b, "\n   Size: %s", item.SelectedSize)
		}
		if item.SelectedColor != "" && item.SelectedColor != "Default" {
			fmt.Fprintf(&b, "\n   Color: %s", item.SelectedColor)
		}
		fmt.Fprintf(&b, "\n   Quantity: %d", item.Quantity)
		fmt.Fprintf(&b, "\n   Price: %s", money(item.Price))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
