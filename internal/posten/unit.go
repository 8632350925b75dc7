// Package posten reads post offices, parcel lockers and post boxes from the
// Posten sales network service and turns them into OSM nodes.
package posten

import "strings"

// Unit is one EnhetDTO element. Offices, parcel lockers and post boxes share
// the shape; fields not used by the converters are left out.
type Unit struct {
	Ref       string `xml:"Enhetsnr"`
	UnitName  string `xml:"EnhetsNavn"`
	Name      string `xml:"Navn"`
	Latitude  string `xml:"Latitude"`
	Longitude string `xml:"Longitude"`
	Street    string `xml:"Besoksadresse"`
	Location  string `xml:"Beliggenhet"`
	Status    string `xml:"Status>Navn"`
	Type      string `xml:"EnhetsType>EnhetsType"`

	Postal       PostalAddress `xml:"PostnrBesoksadresse"`
	Deadlines    []Deadline    `xml:"Frister>FristDTO"`
	OpeningHours []OpeningTime `xml:"Apningstider>ApningstidDTO"`
}

// PostalAddress is the postcode part of the visiting address.
type PostalAddress struct {
	Postcode     string `xml:"Postnr"`
	Place        string `xml:"Poststed"`
	Municipality string `xml:"Kommune"`
	County       string `xml:"Fylke"`
	CountryCode  string `xml:"Land>Kode"`
}

// Deadline is a post box collection time.
type Deadline struct {
	Period string `xml:"Periode"`
	Time   string `xml:"Klokkeslett"`
}

// OpeningTime is one set of opening hours. Type 1000 holds the ordinary
// hours of an office.
type OpeningTime struct {
	Type string `xml:"ApningstidType"`
	CSV  string `xml:"ApningstidCSV"`
}

const (
	statusActive       = "Aktiv"
	countryNorway      = "NO"
	openingTypeRegular = "1000"
)

// Active reports whether the unit is in service and has a country.
func (u Unit) Active() bool {
	return strings.TrimSpace(u.Postal.CountryCode) != "" && u.Status == statusActive
}

// AddressLine formats "<street>, <postcode> <place>". The street part is left
// out when absent.
func (u Unit) AddressLine() string {
	var b strings.Builder
	if street := strings.TrimSpace(u.Street); street != "" {
		b.WriteString(street)
		b.WriteString(", ")
	}
	b.WriteString(strings.TrimSpace(u.Postal.Postcode))
	b.WriteString(" ")
	b.WriteString(u.Postal.Place)
	return b.String()
}

// RegularHours returns the CSV of the first type 1000 opening time.
func (u Unit) RegularHours() (string, bool) {
	for _, o := range u.OpeningHours {
		if strings.TrimSpace(o.Type) == openingTypeRegular {
			return o.CSV, true
		}
	}
	return "", false
}
