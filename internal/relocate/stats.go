package relocate

// RegionStats holds per-region diagnostics.
type RegionStats struct {
	Region string
	// Skipped is true when the region had no usable footprints.
	Skipped bool

	Buildings int
	Oversized int

	Boxes           int
	Inside          int
	Moved           int
	Blocked         int
	BeyondThreshold int
	// InvalidGeometry counts containment tests that hit an unclosed ring.
	InvalidGeometry int
}

// Summary aggregates RegionStats across a run.
type Summary struct {
	Regions        []RegionStats
	Boxes          int
	Inside         int
	Moved          int
	Blocked        int
	SkippedRegions int
	SkippedBoxes   int
}

func summarize(regions []RegionStats) Summary {
	s := Summary{Regions: regions}
	for _, r := range regions {
		s.Boxes += r.Boxes
		s.Inside += r.Inside
		s.Moved += r.Moved
		s.Blocked += r.Blocked
		if r.Skipped {
			s.SkippedRegions++
			s.SkippedBoxes += r.Boxes
		}
	}
	return s
}
