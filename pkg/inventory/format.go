package inventory

import (
	"fmt"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// describe renders the best match for the kind of question asked. Out-of-stock answers
// stay short whatever was asked.
func describe(v domain.Vehicle, kind QueryType, multiple bool) domain.Result {
	price := domain.FormatPrice(v.Price)
	inStock := v.InStock()

	var msg string
	switch kind {
	case QueryAvailability:
		if inStock {
			msg = fmt.Sprintf("Yes, we have the %s in stock! We currently have %d units available.", v.Model, v.Stock)
		} else {
			msg = fmt.Sprintf("No, the %s is currently out of stock.", v.Model)
		}
	case QueryPrice:
		if inStock {
			msg = fmt.Sprintf("The %s is priced at %s. We have %d units available.", v.Model, price, v.Stock)
		} else {
			msg = fmt.Sprintf("The %s is currently out of stock. The price is %s.", v.Model, price)
		}
	case QueryQuantity:
		if inStock {
			msg = fmt.Sprintf("We have %d %s units available.", v.Stock, v.Model)
		} else {
			msg = fmt.Sprintf("The %s is currently out of stock.", v.Model)
		}
	case QueryDelivery:
		if inStock {
			msg = fmt.Sprintf("The estimated delivery time for the %s is %d days.", v.Model, v.DeliveryDays)
		} else {
			msg = fmt.Sprintf("The %s is currently out of stock. Delivery would be %d days when restocked.", v.Model, v.DeliveryDays)
		}
	default:
		if inStock {
			msg = fmt.Sprintf("The %s is available! Price: %s, Stock: %d units, Delivery: %d days.", v.Model, price, v.Stock, v.DeliveryDays)
		} else {
			msg = fmt.Sprintf("The %s is currently out of stock.", v.Model)
		}
	}

	if multiple {
		switch {
		case inStock && (kind == QueryAvailability || kind == QueryGeneral):
			msg += " Would you like me to check other similar models?"
		case !inStock:
			msg += " Would you like me to check other available models?"
		}
	}

	stock := v.Stock
	return domain.Result{
		Status:       domain.StatusFound,
		Message:      msg,
		Model:        v.Model,
		Price:        v.Price,
		DeliveryDays: v.DeliveryDays,
		Stock:        &stock,
	}
}
