package catalog

const (
	GroupBroad     = "Broad"
	GroupSectoral  = "Sectoral"
	GroupThematic  = "Thematic"
	GroupStrategic = "Strategic"
)

var broadIndices = []string{
	"NIFTY 50",
	"NIFTY NEXT 50",
	"NIFTY 100",
	"NIFTY 200",
	"NIFTY 500",
	"NIFTY TOTAL MARKET",
	"NIFTY MIDCAP 50",
	"NIFTY MIDCAP 100",
	"NIFTY MIDCAP 150",
	"NIFTY MIDCAP SELECT",
	"NIFTY SMALLCAP 50",
	"NIFTY SMALLCAP 100",
	"NIFTY SMALLCAP 250",
	"NIFTY MIDSMALLCAP 400",
	"NIFTY LARGEMIDCAP 250",
	"NIFTY MICROCAP 250",
}

var sectoralIndices = []string{
	"NIFTY AUTO",
	"NIFTY BANK",
	"NIFTY CONSUMER DURABLES",
	"NIFTY FINANCIAL SERVICES",
	"NIFTY FINANCIAL SERVICES 25/50",
	"NIFTY FMCG",
	"NIFTY HEALTHCARE INDEX",
	"NIFTY IT",
	"NIFTY MEDIA",
	"NIFTY METAL",
	"NIFTY OIL & GAS",
	"NIFTY PHARMA",
	"NIFTY PRIVATE BANK",
	"NIFTY PSU BANK",
	"NIFTY REALTY",
}

var thematicIndices = []string{
	"NIFTY COMMODITIES",
	"NIFTY CPSE",
	"NIFTY ENERGY",
	"NIFTY INDIA CONSUMPTION",
	"NIFTY INDIA DIGITAL",
	"NIFTY INDIA MANUFACTURING",
	"NIFTY INFRASTRUCTURE",
	"NIFTY MNC",
	"NIFTY PSE",
	"NIFTY SERVICES SECTOR",
	"NIFTY MOBILITY",
	"NIFTY HOUSING",
}

var strategicIndices = []string{
	"NIFTY ALPHA 50",
	"NIFTY50 EQUAL WEIGHT",
	"NIFTY100 EQUAL WEIGHT",
	"NIFTY100 LOW VOLATILITY 30",
	"NIFTY200 QUALITY 30",
	"NIFTY200 MOMENTUM 30",
	"NIFTY50 VALUE 20",
	"NIFTY DIVIDEND OPPORTUNITIES 50",
	"NIFTY HIGH BETA 50",
	"NIFTY LOW VOLATILITY 50",
	"NIFTY100 QUALITY 30",
	"NIFTY GROWTH SECTORS 15",
}

// Default returns the NSE index catalog.
func Default() Catalog {
	return New(
		Group{Name: GroupBroad, IDs: broadIndices},
		Group{Name: GroupSectoral, IDs: sectoralIndices},
		Group{Name: GroupThematic, IDs: thematicIndices},
		Group{Name: GroupStrategic, IDs: strategicIndices},
	)
}
