package classify

import "regexp"

// Primary service types.
const (
	TypeUnknown            = "unknown"
	TypeRoyalTrain         = "royal_train"
	TypeCharter            = "charter"
	TypeInfrastructure     = "infrastructure"
	TypePassenger          = "passenger"
	TypeFreight            = "freight"
	TypeOrdinaryPassenger  = "ordinary_passenger"
	TypeExpressPassenger   = "express_passenger"
	TypeSleeper            = "sleeper"
	TypeBusReplacement     = "bus_replacement"
	TypeBusWTT             = "bus_wtt"
	TypeEmptyCoachingStock = "empty_coaching_stock"
	TypePostal             = "postal"
	TypeParcels            = "parcels"
	TypeFreightSpecial     = "freight_special"
)

// Special service tags, in detection output order.
const (
	SpecialRoyalTrain = "royal_train"
	SpecialRHTT       = "rhtt"
	SpecialSteam      = "steam"
	SpecialPullman    = "pullman"
	SpecialCharter    = "charter"
)

// categoryTypes maps the feed's multi-letter train category codes to a primary
// service type.
var categoryTypes = map[string]string{
	"OO": TypeOrdinaryPassenger,
	"OW": TypeOrdinaryPassenger,
	"XC": TypeExpressPassenger,
	"XX": TypeExpressPassenger,
	"XZ": TypeSleeper,
	"BR": TypeBusReplacement,
	"BS": TypeBusWTT,
	"EE": TypeEmptyCoachingStock,
	"EL": TypeEmptyCoachingStock,
	"ES": TypeEmptyCoachingStock,
	"JJ": TypePostal,
	"PM": TypePostal,
	"PP": TypeParcels,
	"PV": TypeParcels,
	"XY": TypeFreightSpecial,
}

// freightCategories maps the single-letter freight category codes. Disjoint in
// key space from categoryTypes, consulted after it.
var freightCategories = map[string]string{
	"B": "freight_automotive",
	"E": "freight_empty",
	"F": "freight_freightliner",
	"G": "freight_general",
	"H": "freight_aggregates",
	"J": "freight_freight_trip",
	"M": "freight_intermodal",
	"Q": "freight_other",
	"R": "freight_infrastructure",
	"S": "freight_steel",
}

var (
	// 1X99 is reserved for royal trains.
	royalTrainHeadcodePattern = regexp.MustCompile(`^1X99$`)

	// Rail Head Treatment Trains run as 3Hxx or 3Yxx.
	rhttHeadcodePattern = regexp.MustCompile(`^3[HY]\d{2}$`)

	// 1Zxx is the general charter series, also used by steam specials.
	charterHeadcodePattern = regexp.MustCompile(`^1Z\d{2}$`)

	// Freight runs in the 0xxx, 4xxx, 6xxx and 7xxx series.
	freightHeadcodePattern = regexp.MustCompile(`^[0467]\w{3}$`)

	// Empty coaching stock runs in the 5xxx series.
	ecsHeadcodePattern = regexp.MustCompile(`^5\w{3}$`)
)

// Luxury charter operators identifiable from the train class or identity text.
var pullmanKeywords = []string{"pullman", "orient express", "luxury", "belmond"}
