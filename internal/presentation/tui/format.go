package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// FormatResult renders a desk answer as markdown: the message first, then the
// order or vehicle details it carries.
func FormatResult(res domain.Result) string {
	var b strings.Builder
	b.WriteString(res.Message)
	b.WriteString("\n")

	var details []string
	if res.OrderID != "" {
		details = append(details, fmt.Sprintf("**Order:** `%s`", res.OrderID))
	}
	if res.Model != "" {
		details = append(details, "**Model:** "+res.Model)
	}
	if res.Price > 0 {
		details = append(details, "**Price:** "+domain.FormatPrice(res.Price))
	}
	if res.DeliveryDays > 0 {
		details = append(details, fmt.Sprintf("**Delivery:** %d days", res.DeliveryDays))
	}
	if res.Stock != nil {
		details = append(details, fmt.Sprintf("**In stock:** %d", *res.Stock))
	}
	if len(details) > 0 {
		b.WriteString("\n")
		for _, d := range details {
			b.WriteString("- " + d + "\n")
		}
	}

	if len(res.Suggestions) > 0 {
		b.WriteString("\n_Did you mean:_ " + strings.Join(res.Suggestions, ", ") + "\n")
	}
	if len(res.AvailableModels) > 0 {
		b.WriteString("\n_Available:_ " + strings.Join(res.AvailableModels, ", ") + "\n")
	}
	return b.String()
}

// FormatCatalog renders vehicles as a markdown table.
func FormatCatalog(vehicles []domain.Vehicle) string {
	if len(vehicles) == 0 {
		return "_The catalog is empty._\n"
	}
	var b strings.Builder
	b.WriteString("| Model | Price | Stock | Delivery | Category | Fuel |\n")
	b.WriteString("|---|---:|---:|---:|---|---|\n")
	for _, v := range vehicles {
		fmt.Fprintf(&b, "| %s | %s | %d | %d days | %s | %s |\n",
			v.Model, domain.FormatPrice(v.Price), v.Stock, v.DeliveryDays, v.Category, v.FuelType)
	}
	return b.String()
}
