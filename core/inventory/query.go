package inventory

// Query is the fixed vendor query a cycle collects. The paginator threads it
// through every page unchanged; only the offset varies.
type Query struct {
	Model       string   `mapstructure:"model" default:"m3" json:"model"`
	Condition   []string `mapstructure:"condition" default:"new" json:"condition"`
	ArrangeBy   string   `mapstructure:"arrange_by" default:"Price" json:"arrangeby"`
	Order       string   `mapstructure:"order" default:"asc" json:"order"`
	Market      string   `mapstructure:"market" default:"AU" json:"market"`
	Language    string   `mapstructure:"language" default:"en" json:"language"`
	SuperRegion string   `mapstructure:"super_region" default:"asia pacific" json:"super_region"`
	Lng         float64  `mapstructure:"lng" default:"151.21" json:"lng"`
	Lat         float64  `mapstructure:"lat" default:"-33.868" json:"lat"`
	Zip         string   `mapstructure:"zip" default:"2000" json:"zip"`
	Range       int      `mapstructure:"range" default:"9999" json:"range"`
}

// PageRequest identifies one page of a query.
type PageRequest struct {
	Query    Query
	Offset   int
	PageSize int
}

// RawPage is an unparsed page payload as returned by a transport.
type RawPage struct {
	// Offset echoes the request offset.
	Offset int
	// Body is the raw payload (JSON for every transport in this module).
	Body []byte
	// ContentType is the declared payload type, if known.
	ContentType string
}
