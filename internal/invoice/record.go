package invoice

// Product is one line item of an invoice
type Product struct {
	SerialNumber string  `json:"serialNumber"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Tax          float64 `json:"tax"`
	PriceWithTax float64 `json:"priceWithTax"`
	Discount     float64 `json:"discount"`
}

// Invoice groups the products sold under one serial number.
// Quantity is the sum of the product quantities.
type Invoice struct {
	SerialNumber  string    `json:"serialNumber"`
	CustomerName  string    `json:"customerName"`
	Products      []Product `json:"products"`
	Quantity      float64   `json:"quantity"`
	Tax           float64   `json:"tax"`
	TotalAmount   float64   `json:"totalAmount"`
	Date          string    `json:"date"`
	CustomerPhone string    `json:"customerPhone"`
	CustomerEmail string    `json:"customerEmail"`
}

// Customer is derived from the invoices that name it
type Customer struct {
	Name                string  `json:"name"`
	PhoneNumber         string  `json:"phoneNumber"`
	Email               string  `json:"email"`
	TotalPurchaseAmount float64 `json:"totalPurchaseAmount"`
}
