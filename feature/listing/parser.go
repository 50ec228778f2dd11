package listing

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"inventory-tracker/core/inventory"
	"inventory-tracker/core/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Attribute names emitted by the parser, in vendor order.
const (
	AttrTrim     = "trim"
	AttrPaint    = "paint"
	AttrWheels   = "wheels"
	AttrInterior = "interior"
)

// vendorResult is one entry of the results array. Option fields are lists
// whose first element is the selected option.
type vendorResult struct {
	VIN           string   `json:"VIN"`
	Trim          []string `json:"TRIM"`
	Paint         []string `json:"PAINT"`
	Wheels        []string `json:"WHEELS"`
	Interior      []string `json:"INTERIOR"`
	TotalPrice    any      `json:"TotalPrice"`
	StateProvince string   `json:"StateProvince"`
}

type vendorPage struct {
	// TotalMatchesFound is a string in practice but numbers are accepted.
	TotalMatchesFound any            `json:"total_matches_found"`
	Results           []vendorResult `json:"results"`
}

// VendorParser decodes inventory-results pages.
type VendorParser struct {
	// Logger receives record-level problems such as unreadable prices. Nil discards them.
	Logger *zap.Logger
}

// NewVendorParser creates a VendorParser that logs to logger.
func NewVendorParser(logger *zap.Logger) VendorParser {
	return VendorParser{Logger: logger}
}

// Parse decodes a page into records and the total match count.
func (p VendorParser) Parse(page inventory.RawPage) ([]inventory.Record, int, error) {
	body := bytes.TrimSpace(page.Body)
	if len(body) == 0 {
		return nil, 0, errors.New("empty page body")
	}

	var doc vendorPage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode page: %w", err)
	}

	total, err := totalMatches(doc.TotalMatchesFound)
	if err != nil {
		return nil, 0, err
	}

	records := make([]inventory.Record, 0, len(doc.Results))
	for _, res := range doc.Results {
		rec := res.record()
		amount, err := price(res.TotalPrice)
		if err != nil {
			p.logger().Warn("Unreadable price, stored as 0",
				zap.String("item_id", rec.ID),
				zap.String("stage", inventory.StageParse),
				zap.Int("offset", page.Offset),
				zap.Any("price", res.TotalPrice),
				zap.Error(err),
			)
		}
		rec.Price = amount
		records = append(records, rec)
	}
	return records, total, nil
}

func totalMatches(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, errors.New("missing total_matches_found")
	case float64:
		return int(t), nil
	case string:
		s := strings.TrimSpace(t)
		n := utils.ToInt(s)
		if n == 0 && s != "0" {
			return 0, fmt.Errorf("invalid total_matches_found %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid total_matches_found %v", t)
	}
}

func (r vendorResult) record() inventory.Record {
	var attrs inventory.Attributes
	for _, opt := range []struct {
		name   string
		values []string
	}{
		{AttrTrim, r.Trim},
		{AttrPaint, r.Paint},
		{AttrWheels, r.Wheels},
		{AttrInterior, r.Interior},
	} {
		if len(opt.values) > 0 {
			attrs = attrs.With(opt.name, opt.values[0])
		}
	}

	return inventory.Record{
		ID:         r.VIN,
		Attributes: attrs,
		Location:   r.StateProvince,
	}
}

func (p VendorParser) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// priceNoise is stripped from string prices before parsing ("$61,900.00").
var priceNoise = strings.NewReplacer(",", "", "$", "", " ", "")

// price converts the vendor price to whole currency units.
func price(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(math.Round(t)), nil
	case string:
		f, err := strconv.ParseFloat(priceNoise.Replace(strings.TrimSpace(t)), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", t)
		}
		return int64(math.Round(f)), nil
	case nil:
		return 0, errors.New("missing price")
	default:
		return 0, fmt.Errorf("unexpected price type %T", v)
	}
}
