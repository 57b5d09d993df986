package detector

import (
	"regexp"
	"strings"

	"cargogate/internal/core/phone"
)

// Logistics is the structured data pulled out of an allowed post. Empty
// string means the field was not present. Route and cargo-type parsing live
// in the cargo-search collaborator, not here; the fields exist so the wire
// shape downstream stays stable
type Logistics struct {
	RouteFrom    string
	RouteTo      string
	CargoType    string
	Weight       string
	VehicleType  string
	ContactPhone string // canonical +998XXXXXXXXX form
	Price        string
}

var (
	// number + ton/kg unit word, latin or cyrillic
	weightRe = regexp.MustCompile(
		`(?i)(\d+(?:[.,]\d+)?)\s*(tonna|tonn|тонна|тонн|tn|kg|кг)`)

	// number + currency or magnitude word
	priceRe = regexp.MustCompile(
		`(?i)(\d[\d\s]*(?:[.,]\d+)?)\s*(mln|млн|ming|минг|тыс|so'm|som|сум|sum|usd|\$|доллар)`)
)

// ExtractLogistics pulls the contact phone, weight, vehicle type and price
// out of text via pattern matching. First match wins per field
func (d *Detector) ExtractLogistics(text string) Logistics {
	var out Logistics
	if text == "" {
		return out
	}

	if canon, ok := phone.Find(text); ok {
		out.ContactPhone = canon
	}

	if m := weightRe.FindStringSubmatch(text); m != nil {
		out.Weight = strings.TrimSpace(m[1]) + " " + strings.ToLower(m[2])
	}

	if match, ok := d.pack.MatchVehicleType(text); ok {
		out.VehicleType = match.Term
	}

	if m := priceRe.FindStringSubmatch(text); m != nil {
		out.Price = collapseDigits(m[1]) + " " + strings.ToLower(m[2])
	}

	return out
}

// collapseDigits drops grouping spaces inside a number ("1 500 000" -> "1500000")
func collapseDigits(s string) string {
	return strings.Join(strings.Fields(s), "")
}
