package mapping

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Instruction is the fixed request sent to the oracle with every sample
var Instruction = buildInstruction()

func buildInstruction() string {
	var b strings.Builder
	b.WriteString(`Analyze this CSV data which contains invoice information.
The first row is the header row.

Map each column to the appropriate field in our data structure.

Return a JSON object that maps field names to column indices (0-based).
For example: {"serialNumber": 0, "customerName": 2}

Here are the fields we need to map:
`)
	for _, f := range Fields {
		fmt.Fprintf(&b, "- %s: %s\n", f, f.Description())
	}
	b.WriteString(`
Only return a valid JSON object with the mappings, nothing else.
If you can't find a mapping for a field, don't include it in the JSON.`)
	return b.String()
}

// mappingResponse mirrors the oracle answer for structured-output providers
type mappingResponse struct {
	SerialNumber        *int `json:"serialNumber,omitempty" jsonschema_description:"Invoice number column"`
	CustomerName        *int `json:"customerName,omitempty" jsonschema_description:"Customer name column"`
	Quantity            *int `json:"quantity,omitempty" jsonschema_description:"Total quantity column"`
	Tax                 *int `json:"tax,omitempty" jsonschema_description:"Tax percentage or amount column"`
	TotalAmount         *int `json:"totalAmount,omitempty" jsonschema_description:"Total invoice amount column"`
	Date                *int `json:"date,omitempty" jsonschema_description:"Invoice date column"`
	CustomerPhone       *int `json:"customerPhone,omitempty" jsonschema_description:"Customer phone column"`
	CustomerEmail       *int `json:"customerEmail,omitempty" jsonschema_description:"Customer email column"`
	ProductName         *int `json:"product.name,omitempty" jsonschema_description:"Product name column"`
	ProductQuantity     *int `json:"product.quantity,omitempty" jsonschema_description:"Product quantity column"`
	ProductUnitPrice    *int `json:"product.unitPrice,omitempty" jsonschema_description:"Unit price column"`
	ProductTax          *int `json:"product.tax,omitempty" jsonschema_description:"Product tax column"`
	ProductPriceWithTax *int `json:"product.priceWithTax,omitempty" jsonschema_description:"Price with tax column"`
	ProductDiscount     *int `json:"product.discount,omitempty" jsonschema_description:"Discount amount column"`
}

// ResponseSchema is the JSON schema of a mapping answer
var ResponseSchema = generateSchema[mappingResponse]()

func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
