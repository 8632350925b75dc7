package posten

import (
	"fmt"

	"github.com/osmno/post2osm/internal/geometry"
	"github.com/osmno/post2osm/internal/model"
	"github.com/osmno/post2osm/internal/osm"
)

// Positions south of this latitude are outside mainland Norway and need a
// manual geocode.
const geocodeLatitude = 57.0

// Tag keys shared by the box files.
const (
	KeyBoxRef       = "ref:posten_box"
	KeyAddress      = "ADDRESS"
	KeyMunicipality = "MUNICIPALITY"
	KeyLocation     = "LOCATION"
	KeyCollection   = "collection_times"
	KeyDistance     = "DISTANCE"
)

func newNode(p geometry.Point) osm.Node {
	n := osm.Node{Lat: p.Lat, Lon: p.Lon}
	if p.Lat < geocodeLatitude {
		n.Add("GEOCODE", "yes")
	}
	return n
}

// OfficeNode builds the postkontor.osm node for an office.
func OfficeNode(o model.Office) osm.Node {
	n := newNode(o.Point)
	n.Add("ref:posten", o.Ref)
	n.Add("brand", operatorPosten)
	n.Add(KeyAddress, o.Address)
	n.Add(KeyLocation, o.Location)
	n.Add("amenity", o.Amenity)
	if o.PostOffice != "" {
		n.Add("post_office", o.PostOffice)
	}
	if o.UnknownType {
		n.Add("FIXME", fmt.Sprintf("Unknown type: '%s'", o.Type))
	}
	n.Add("name", o.Name)
	if o.AltName != "" && o.AltName != o.Name {
		n.Add("alt_name", o.AltName)
	}
	n.Add("operator", o.Operator)
	n.Add("opening_hours", o.OpeningHours)
	return n
}

// MailboxNode builds the postkasser.osm node for a post box.
func MailboxNode(m model.Mailbox) osm.Node {
	n := newNode(m.Point)
	n.Add("amenity", "post_box")
	n.Add(KeyBoxRef, m.Ref)
	n.Add("brand", operatorPosten)
	n.Add(KeyAddress, m.Address)
	n.Add(KeyMunicipality, m.Municipality)
	n.Add(KeyLocation, m.Location)
	n.Add(KeyCollection, m.CollectionTimes)
	if m.Type != "" && m.Type != TypePostBox {
		n.Add("FIXME", fmt.Sprintf("Unknown type: '%s'", m.Type))
	}
	return n
}

// RelocatedNode builds the postkasser_vegg.osm node for a post box after
// relocation. Boxes found inside a building carry their wall distance.
func RelocatedNode(m model.Mailbox) osm.Node {
	n := newNode(m.Point)
	n.Add("amenity", "post_box")
	n.Add(KeyBoxRef, m.Ref)
	n.Add("brand", operatorPosten)
	n.Add(KeyCollection, m.CollectionTimes)
	n.Add(KeyAddress, m.Address)
	n.Add(KeyLocation, m.Location)
	if m.DistanceToWall != nil {
		n.Add(KeyDistance, fmt.Sprintf("%.1f", *m.DistanceToWall))
	}
	return n
}

// MailboxFromNode reads a post box back from a postkasser.osm node.
func MailboxFromNode(n osm.Node) model.Mailbox {
	return model.Mailbox{
		Ref:             n.Value(KeyBoxRef),
		Point:           geometry.Point{Lon: n.Lon, Lat: n.Lat},
		Address:         n.Value(KeyAddress),
		Municipality:    n.Value(KeyMunicipality),
		Location:        n.Value(KeyLocation),
		CollectionTimes: n.Value(KeyCollection),
	}
}
