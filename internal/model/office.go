package model

import "github.com/osmno/post2osm/internal/geometry"

// Office is a post office, postal partner outlet or parcel locker.
type Office struct {
	Ref      string
	Point    geometry.Point
	Address  string
	Location string
	Type     string

	Name     string
	AltName  string
	Operator string

	// Amenity is the OSM amenity value, post_office or parcel_locker.
	Amenity string
	// PostOffice is the OSM post_office=* subtype, empty for lockers.
	PostOffice   string
	OpeningHours string

	// UnknownType marks a unit type the converter has no mapping for.
	UnknownType bool
}
