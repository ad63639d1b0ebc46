// Package extraction turns a receipt photo into validated line items and
// taxes. An Extractor does the OCR and structuring; Parse and Normalize
// validate whatever it returns before anything reaches a bill.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrExtractionFailed wraps every upstream or output-shape failure. The
// bill stays empty and the uploader may retry.
var ErrExtractionFailed = errors.New("bill extraction failed")

// Extractor turns raw image bytes into a validated bill.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*Result, error)
}

// Result is a validated extraction, ready to be saved as a bill.
type Result struct {
	Items []models.Item
	Taxes []models.Tax

	// Dropped describes entries rejected during validation.
	Dropped []string
}

// MaxQuantity is the largest per-line quantity accepted from a receipt.
const MaxQuantity = 10000

// RawItem is one item as emitted by the structuring model. Numbers stay
// raw until Normalize so one unreadable value only drops its own entry.
type RawItem struct {
	ItemName     string          `json:"item_name"`
	Name         string          `json:"name"`
	Quantity     json.RawMessage `json:"quantity"`
	PricePerUnit json.RawMessage `json:"price_per_unit"`
	Total        json.RawMessage `json:"total"`
}

// RawTax is one tax line as emitted by the structuring model.
type RawTax struct {
	Name   string          `json:"name"`
	Amount json.RawMessage `json:"amount"`
}

// RawBill is the structuring model's JSON output. Entries are decoded one
// at a time by Normalize.
type RawBill struct {
	Items []json.RawMessage `json:"items"`
	Taxes []json.RawMessage `json:"taxes"`
}

// number decodes a JSON number or numeric string. ok is false for a
// missing or null value.
func number(raw json.RawMessage) (d decimal.Decimal, ok bool, err error) {
	if len(raw) == 0 {
		return decimal.Decimal{}, false, nil
	}
	var nd decimal.NullDecimal
	if err := json.Unmarshal(raw, &nd); err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("unreadable number %s", raw)
	}
	return nd.Decimal, nd.Valid, nil
}

// fenceRe matches markdown code fences the model sometimes adds.
var fenceRe = regexp.MustCompile("(?m)^```(?:json)?\\s*$")

// Parse decodes model output into a RawBill, tolerating code fences and
// prose around the JSON object.
func Parse(output string) (*RawBill, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(output, ""))
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var raw RawBill
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON output: %v", ErrExtractionFailed, err)
	}
	return &raw, nil
}

// Normalize validates raw entries and assigns item indexes in order.
//
// An item needs a name, a positive whole quantity up to MaxQuantity (1 when
// missing) and a non-negative unit price, either given or derived as total / quantity.
// Anything else is dropped and listed in Result.Dropped.
func Normalize(raw *RawBill) *Result {
	res := &Result{Items: []models.Item{}, Taxes: []models.Tax{}}

	for pos, entry := range raw.Items {
		var ri RawItem
		if err := json.Unmarshal(entry, &ri); err != nil {
			res.Dropped = append(res.Dropped, fmt.Sprintf("item %d: malformed entry", pos))
			continue
		}
		name := strings.TrimSpace(ri.ItemName)
		if name == "" {
			name = strings.TrimSpace(ri.Name)
		}
		if name == "" {
			res.Dropped = append(res.Dropped, fmt.Sprintf("item %d: missing name", pos))
			continue
		}

		qty, ok, err := number(ri.Quantity)
		if err != nil {
			res.Dropped = append(res.Dropped, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if !ok {
			qty = decimal.NewFromInt(1)
		}
		if !qty.IsInteger() || !qty.IsPositive() || qty.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
			res.Dropped = append(res.Dropped, fmt.Sprintf("%s: invalid quantity %s", name, qty))
			continue
		}

		price, hasPrice, err := number(ri.PricePerUnit)
		if err != nil {
			res.Dropped = append(res.Dropped, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if !hasPrice {
			total, hasTotal, err := number(ri.Total)
			if err != nil {
				res.Dropped = append(res.Dropped, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			if !hasTotal {
				res.Dropped = append(res.Dropped, fmt.Sprintf("%s: no unit price", name))
				continue
			}
			price = total.Div(qty)
		}
		if price.IsNegative() {
			res.Dropped = append(res.Dropped, fmt.Sprintf("%s: negative price %s", name, price))
			continue
		}

		res.Items = append(res.Items, models.Item{
			Index:        models.ItemKey(len(res.Items)),
			Name:         name,
			Quantity:     int(qty.IntPart()),
			PricePerUnit: price,
		})
	}

	for pos, entry := range raw.Taxes {
		var rt RawTax
		if err := json.Unmarshal(entry, &rt); err != nil {
			res.Dropped = append(res.Dropped, fmt.Sprintf("tax %d: malformed entry", pos))
			continue
		}
		amount, ok, err := number(rt.Amount)
		if err != nil || !ok || amount.IsNegative() {
			res.Dropped = append(res.Dropped, fmt.Sprintf("tax %d: invalid amount", pos))
			continue
		}
		name := strings.TrimSpace(rt.Name)
		if name == "" {
			name = "Tax"
		}
		res.Taxes = append(res.Taxes, models.Tax{Name: name, Amount: amount})
	}

	return res
}
