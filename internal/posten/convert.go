package posten

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/geometry"
	"github.com/osmno/post2osm/internal/model"
	"github.com/osmno/post2osm/internal/normalize"
)

// Unit types.
const (
	TypePostOffice     = "21"
	TypeBusinessCenter = "1"
	TypePostInShop     = "4"
	TypeParcelPickup   = "19"
	TypePostPointOwned = "32"
	TypePostPoint      = "33"
	TypePilotLocker    = "36"
	TypeParcelLocker   = "37"
	TypePostBox        = "10"
)

const operatorPosten = "Posten"

// Converter maps directory units to office and mailbox records.
type Converter struct {
	rules *normalize.Rules
	log   *zap.Logger
}

// NewConverter creates a converter cleaning names with rules.
func NewConverter(rules *normalize.Rules) *Converter {
	return &Converter{
		rules: rules,
		log:   zap.L().With(zap.String("component", "posten")),
	}
}

// Point parses the unit coordinates. A coordinate starting with "-" marks a
// unit without a position; both coordinates are then 0.
func (c *Converter) Point(u Unit) geometry.Point {
	lat := strings.TrimSpace(u.Latitude)
	lon := strings.TrimSpace(u.Longitude)
	if strings.HasPrefix(lat, "-") || strings.HasPrefix(lon, "-") {
		return geometry.Point{}
	}

	latV, errLat := strconv.ParseFloat(lat, 64)
	lonV, errLon := strconv.ParseFloat(lon, 64)
	if errLat != nil || errLon != nil {
		c.log.Warn("unparsable coordinates",
			zap.String("ref", u.Ref),
			zap.String("lat", u.Latitude),
			zap.String("lon", u.Longitude),
		)
		return geometry.Point{}
	}
	return geometry.Point{Lon: lonV, Lat: latV}
}

// Office converts an office or parcel locker unit. It returns false for
// inactive units, units outside Norway and pilot lockers.
func (c *Converter) Office(u Unit) (model.Office, bool) {
	if !u.Active() || u.Postal.CountryCode != countryNorway || u.Type == TypePilotLocker {
		return model.Office{}, false
	}

	o := model.Office{
		Ref:      u.Ref,
		Point:    c.Point(u),
		Address:  u.AddressLine(),
		Location: u.Location,
		Type:     u.Type,
		Name:     c.rules.Name(u.UnitName),
		Operator: c.rules.Operator(u.Name),
		Amenity:  "post_office",
	}

	switch u.Type {
	case TypePostOffice, TypeBusinessCenter, TypePostPointOwned:
		o.Operator = operatorPosten
		o.PostOffice = "bureau"
	case TypePostInShop:
		o.Name = strings.ReplaceAll(o.Name, "Post i Butikk", "post i butikk")
		o.AltName = o.Operator + " post i butikk"
		o.PostOffice = "post_annex"
	case TypeParcelPickup:
		o.Name = strings.ReplaceAll(o.Name, "Posten ", "")
		o.AltName = o.Operator + " pakkeutlevering"
		o.PostOffice = "post_partner"
	case TypePostPoint:
		o.AltName = o.Operator + " postpunkt"
		o.PostOffice = "post_annex"
	case TypeParcelLocker:
		o.Operator = operatorPosten
		o.Amenity = "parcel_locker"
	default:
		o.UnknownType = true
		c.log.Warn("unknown office type", zap.String("ref", u.Ref), zap.String("type", u.Type))
	}

	if o.AltName == o.Name {
		o.AltName = ""
	}
	if csv, ok := u.RegularHours(); ok {
		o.OpeningHours = normalize.OpeningHours(csv)
	}
	return o, true
}

// Mailbox converts a post box unit. It returns false for inactive units.
func (c *Converter) Mailbox(u Unit) (model.Mailbox, bool) {
	if !u.Active() {
		return model.Mailbox{}, false
	}

	m := model.Mailbox{
		Ref:          u.Ref,
		Point:        c.Point(u),
		Address:      u.AddressLine(),
		Municipality: u.Postal.Municipality,
		Location:     u.Location,
		Type:         u.Type,
	}
	if len(u.Deadlines) > 0 {
		d := u.Deadlines[0]
		m.CollectionTimes = normalize.OpeningHours(d.Period + " " + d.Time)
	}
	if u.Type != TypePostBox {
		c.log.Warn("unknown post box type", zap.String("ref", u.Ref), zap.String("type", u.Type))
	}
	return m, true
}
