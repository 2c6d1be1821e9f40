package service

import (
	"fmt"

	"billing/internal/model"

	"github.com/shopspring/decimal"
)

const imageURL = "https://images.unsplash.com/photo-%s?w=400&h=300&fit=crop"

// DefaultMenu returns the catalog written on first run.
func DefaultMenu() []model.MenuItem {
	return []model.MenuItem{
		defaultItem("1", "Chicken Burger", "8.99", "1606755962773-d324e0a13086"),
		defaultItem("2", "Cheese Burger", "9.99", "1550547660-d9450f859349"),
		defaultItem("3", "Veg Pizza", "12.99", "1565299624946-b28f40a0ae38"),
		defaultItem("4", "Chicken Pizza", "14.99", "1571997478779-2adcbbe9ab2f"),
		defaultItem("5", "French Fries", "4.99", "1573080496219-bb080dd4f877"),
		defaultItem("6", "Chicken Wrap", "7.99", "1626700051175-6818013e1d4f"),
		defaultItem("7", "Chocolate Shake", "5.99", "1572490122747-3968b75cc699"),
		defaultItem("8", "Mojito", "6.99", "1536935338788-846bb9981813"),
		defaultItem("9", "Fried Rice", "9.99", "1603133872878-684f208fb84b"),
		defaultItem("10", "Chicken Noodles", "10.99", "1569718212165-3a8278d5f624"),
	}
}

func defaultItem(id, name, price, photo string) model.MenuItem {
	return model.MenuItem{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Image: fmt.Sprintf(imageURL, photo),
	}
}
