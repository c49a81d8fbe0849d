package order

import (
	"storefront-be/internal/events"
	"storefront-be/internal/notification"
)

func toNotificationData(o *Order) notification.OrderData {
	items := make([]notification.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, notification.Item{
			ProductName:   it.ProductName,
			SelectedSize:  it.SelectedSize,
			SelectedColor: it.SelectedColor,
			Quantity:      it.Quantity,
			Price:         it.Price,
		})
	}

	return notification.OrderData{
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerInfo.FullName,
		CustomerEmail: o.CustomerInfo.Email,
		Items:         items,
		Total:         o.Total,
		Address: notification.Address{
			Address: o.CustomerInfo.Address,
			City:    o.CustomerInfo.City,
			State:   o.CustomerInfo.State,
			ZipCode: o.CustomerInfo.ZipCode,
		},
	}
}

func toOrderPlaced(o *Order) events.OrderPlaced {
	items := make([]events.OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, events.OrderPlacedItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	return events.OrderPlaced{
		EventType:   events.OrderPlacedEventType,
		OrderID:     o.ID.String(),
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Total:       o.Total,
		Items:       items,
		Timestamp:   o.CreatedAt.UTC(),
	}
}
