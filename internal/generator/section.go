package generator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for section geometry.
const EarthRadiusMeters = 6371008.8

// SectionRef is what clearing records need from a Section.
type SectionRef struct {
	ID     string
	RoadID string
	// CropID is the numeric part of the section owner, e.g. 3 for OWNER03.
	CropID int
}

// Sections cycle through this many roads and owners.
const (
	sectionRoads  = 10
	sectionOwners = 5
)

// SectionRefFor returns the identifiers of section number index. They depend
// on index alone, so a pool regenerated against a populated database refers
// to the rows already stored there.
func SectionRefFor(index int) SectionRef {
	return SectionRef{
		ID:     fmt.Sprintf("SECTION%04d", index),
		RoadID: fmt.Sprintf("ROAD%02d", (index-1)%sectionRoads+1),
		CropID: (index-1)%sectionOwners + 1,
	}
}

// Section builds road section number index. The end point is derived from a
// start point, bearing and nominal length; the stored length is the
// great-circle distance between the two points.
func (g *Generator) Section(index int) (*Record, SectionRef) {
	ref := SectionRefFor(index)
	owner := ref.CropID

	start := s2.LatLngFromDegrees(30+g.rng.Float64(), 120+g.rng.Float64())
	bearing := g.rng.Float64() * 360
	end := destination(start, bearing, float64(g.between(10000, 100000)))
	length := int64(math.Round(start.Distance(end).Radians() * EarthRadiusMeters))

	startKm := g.between(0, 100)
	endKm := startKm + int(math.Round(float64(length)/1000))

	built := g.recentDate().AddDate(-g.between(1, 20), 0, 0)

	rec := NewRecord(TableSection, 22).
		Set("id", ref.ID).
		Set("road_id", ref.RoadID).
		Set("name", fmt.Sprintf("Section %d", index)).
		Set("section_owner_id", fmt.Sprintf("OWNER%02d", owner)).
		Set("type", g.between(1, 3)).
		Set("length", length).
		Set("start_stake_num", "K"+strconv.Itoa(startKm)).
		Set("start_lat", formatCoord(start.Lat.Degrees())).
		Set("start_lng", formatCoord(start.Lng.Degrees())).
		Set("end_stake_num", "K"+strconv.Itoa(endKm)).
		Set("end_lat", formatCoord(end.Lat.Degrees())).
		Set("end_lng", formatCoord(end.Lng.Degrees())).
		Set("tax", g.between64(0, 1000)).
		Set("tax_rate", math.Round(g.rng.Float64()*0.1*10000)/10000).
		Set("charge_type", g.between(1, 3)).
		Set("toll_roads", ref.RoadID).
		Set("build_time", built).
		Set("start_time", built.AddDate(0, g.between(1, 12), 0)).
		Set("end_time", nil).
		Set("operation", 1).
		Set("record_gentime", g.recentDate()).
		Set("status", "ACTIVE")
	return rec, ref
}

// destination moves from p along an initial bearing (degrees from north)
// for meters on the sphere.
func destination(p s2.LatLng, bearing, meters float64) s2.LatLng {
	b := bearing * math.Pi / 180
	d := meters / EarthRadiusMeters
	lat := p.Lat.Radians()
	lng := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(lat)*math.Cos(d) + math.Cos(lat)*math.Sin(d)*math.Cos(b))
	lng2 := lng + math.Atan2(math.Sin(b)*math.Sin(d)*math.Cos(lat), math.Cos(d)-math.Sin(lat)*math.Sin(lat2))

	return s2.LatLngFromDegrees(lat2*180/math.Pi, lng2*180/math.Pi).Normalized()
}

func formatCoord(deg float64) string {
	return strconv.FormatFloat(deg, 'f', 6, 64)
}

// PickSection draws a section from pool for a clearing record.
func (g *Generator) PickSection(pool []SectionRef) SectionRef {
	return pool[g.rng.IntN(len(pool))]
}
