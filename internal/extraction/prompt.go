package extraction

// BuildStructuringPrompt asks the agent to turn OCR markdown into the
// RawBill JSON shape.
func BuildStructuringPrompt(markdown string) string {
	return `This is a scanned restaurant bill in markdown.

Extract every line item with these fields:
- "item_name": string
- "quantity": number of units
- "price_per_unit": number, never null. If only a line total is printed,
  use total divided by quantity. If no price can be determined, leave the
  item out.
- "total": line total if printed, otherwise null

Also extract every tax or surcharge (GST, CGST, SGST, service charge, ...)
as {"name": string, "amount": number}.

Reply with JSON only, no markdown, no commentary:
{"items": [...], "taxes": [...]}

` + markdown
}
