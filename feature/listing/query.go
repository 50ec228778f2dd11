package listing

import (
	"fmt"
	"net/url"

	"inventory-tracker/core/inventory"

	"github.com/goccy/go-json"
)

// vendorQuery is the JSON document carried in the query URL parameter.
type vendorQuery struct {
	Query         inventory.Query `json:"query"`
	Offset        int             `json:"offset"`
	Count         int             `json:"count"`
	OutsideOffset int             `json:"outsideOffset"`
	OutsideSearch bool            `json:"outsideSearch"`
}

// PageURL returns the URL of one page: base?query=<url-encoded json>.
func PageURL(base string, req inventory.PageRequest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}

	doc, err := json.Marshal(vendorQuery{
		Query:  req.Query,
		Offset: req.Offset,
		Count:  req.PageSize,
	})
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	values := u.Query()
	values.Set("query", string(doc))
	u.RawQuery = values.Encode()
	return u.String(), nil
}
