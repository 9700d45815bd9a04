package document

// extractionPrompt asks for every invoice visible in the document
const extractionPrompt = `Extract and return structured data from the invoice document. The result should be an array of invoices, where each invoice contains an array of products. Ensure the output strictly follows the specified type format, with accurate data types and no explanatory text.

Expected data structure:

data (array of Invoice objects):
- Invoice:
- serialNumber (string): Invoice number or reference
- customerName (string): Full name of the customer
- products (array of Product objects): List of products or services (see below)
- quantity (number): Total quantity of all items
- tax (number): Tax percentage
- totalAmount (number): Total amount including tax
- date (string): Invoice date in YYYY-MM-DD format
- customerPhone (string): Phone number if available (use an empty string if missing)
- customerEmail (string): Email if available (use an empty string if missing)

Product (inside each invoice's products array):
- serialNumber (string): Invoice number or reference
- name (string): Name of the product or service
- quantity (number): Quantity of items
- unitPrice (number): Price per unit
- tax (number): Tax percentage
- priceWithTax (number): Total amount including tax
- discount (number, optional): Discount amount (use 0 if missing)

Rules:
- Return all number fields as actual numbers (not strings)
- Use empty strings for missing text fields
- Use 0 for missing or unavailable number fields
- Format the date as YYYY-MM-DD if possible
- Return only the JSON object {"data": [...]}, without any explanatory text or comments`
