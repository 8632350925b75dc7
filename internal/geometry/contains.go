package geometry

// Containment is the result of a point-in-ring test.
type Containment int

// Containment results. Indeterminate means the ring is not a valid closed
// ring and callers must treat the test as "cannot determine".
const (
	Outside Containment = iota
	Inside
	Indeterminate
)

// String implements fmt.Stringer.
func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	default:
		return "indeterminate"
	}
}

// Contains runs an even-odd ray casting test of p against ring.
//
// An edge toggles the state when p's latitude lies in (min, max] of the edge
// latitudes and p's longitude is at or west of the edge crossing. Points
// exactly on some edges or vertices classify as inside; ties are not resolved
// further.
func Contains(ring Ring, p Point) Containment {
	if !ring.Closed() {
		return Indeterminate
	}

	inside := false
	p1 := ring[0]
	for _, p2 := range ring {
		if p.Lat > min(p1.Lat, p2.Lat) && p.Lat <= max(p1.Lat, p2.Lat) && p.Lon <= max(p1.Lon, p2.Lon) {
			if p1.Lat == p2.Lat || p1.Lon == p2.Lon {
				inside = !inside
			} else {
				xints := (p.Lat-p1.Lat)*(p2.Lon-p1.Lon)/(p2.Lat-p1.Lat) + p1.Lon
				if p.Lon <= xints {
					inside = !inside
				}
			}
		}
		p1 = p2
	}

	if inside {
		return Inside
	}
	return Outside
}
