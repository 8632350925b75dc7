// Package model holds the post box and post office records passed between the
// directory client, the relocation engine and the OSM writer.
package model

import (
	"math"

	"github.com/osmno/post2osm/internal/geometry"
)

// Mailbox is a street-side post box.
type Mailbox struct {
	Ref             string
	Point           geometry.Point
	Address         string
	Municipality    string
	Location        string
	CollectionTimes string
	Type            string

	// DistanceToWall is set by the relocation engine when the box was found
	// inside a building: meters to the nearest wall, one decimal.
	DistanceToWall *float64
}

// SetDistanceToWall records the wall distance rounded to one decimal.
func (m *Mailbox) SetDistanceToWall(meters float64) {
	d := math.Round(meters*10) / 10
	m.DistanceToWall = &d
}
