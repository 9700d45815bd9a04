package invoice

import (
	"strconv"
	"strings"
)

// Review lists the fields of inv a person still has to fill in.
// An empty result means the invoice is complete.
func Review(inv Invoice) []string {
	var missing []string
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	check("serialNumber", inv.SerialNumber)
	check("customerName", inv.CustomerName)
	check("date", inv.Date)
	check("customerPhone", inv.CustomerPhone)
	check("customerEmail", inv.CustomerEmail)

	if len(inv.Products) == 0 {
		missing = append(missing, "products")
	}
	for i, p := range inv.Products {
		check("products["+strconv.Itoa(i)+"].name", p.Name)
	}
	return missing
}

// Customers derives one customer per distinct name in first-seen order.
// Phone and email keep the first non-empty value; purchases are summed.
func Customers(invoices []Invoice) []Customer {
	var (
		out   []Customer
		index = make(map[string]int)
	)
	for _, inv := range invoices {
		name := strings.TrimSpace(inv.CustomerName)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			index[name] = len(out)
			out = append(out, Customer{
				Name:                name,
				PhoneNumber:         inv.CustomerPhone,
				Email:               inv.CustomerEmail,
				TotalPurchaseAmount: inv.TotalAmount,
			})
			continue
		}
		c := &out[i]
		if c.PhoneNumber == "" {
			c.PhoneNumber = inv.CustomerPhone
		}
		if c.Email == "" {
			c.Email = inv.CustomerEmail
		}
		c.TotalPurchaseAmount += inv.TotalAmount
	}
	return out
}

// ProductNames joins the product names for display
func ProductNames(products []Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		if n := strings.TrimSpace(p.Name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "not found"
	}
	return strings.Join(names, ",")
}
