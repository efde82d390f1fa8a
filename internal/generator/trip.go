package generator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Interval is one toll interval of a trip with its fee split.
type Interval struct {
	ID       string
	Fee      int64
	Discount int64
}

// PayFee is the amount actually charged for the interval.
func (iv Interval) PayFee() int64 { return iv.Fee - iv.Discount }

// GantryEvent is a planned ETC gantry billing event.
type GantryEvent struct {
	TradeID    string
	GantryID   string
	Hex        string
	Time       time.Time
	IntervalID string
}

// PathChunk is one PathDetail row: a contiguous run of the trip's intervals
// recognised at a single identify point.
type PathChunk struct {
	ID        string
	PointID   string
	Time      time.Time
	Intervals []Interval
}

// Trip is everything shared by the records of one vehicle passage. It is
// created by NewTrip and owned by the caller for the duration of the trip.
type Trip struct {
	Index       int
	PassID      string
	Plate       string
	PlateColor  int
	EntryTime   time.Time
	ExitTime    time.Time
	EntryID     string
	ExitID      string
	EntryLane   string
	ExitLane    string
	EntryStn    string
	ExitStn     string
	VehicleType int
	AxleCount   int
	PayType     int
	PayCardType int
	Intervals   []Interval
	Gantries    []GantryEvent
	PathDetails []PathChunk
}

// TotalFee sums the interval fees.
func (t *Trip) TotalFee() int64 {
	var n int64
	for _, iv := range t.Intervals {
		n += iv.Fee
	}
	return n
}

// TotalDiscount sums the interval discounts.
func (t *Trip) TotalDiscount() int64 {
	var n int64
	for _, iv := range t.Intervals {
		n += iv.Discount
	}
	return n
}

// PayFee is TotalFee minus TotalDiscount.
func (t *Trip) PayFee() int64 { return t.TotalFee() - t.TotalDiscount() }

// EntryDate is the partition date of the trip.
func (t *Trip) EntryDate() time.Time {
	y, m, d := t.EntryTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.EntryTime.Location())
}

// NewTrip plans trip number index: identifiers, plate, time window, the
// 3-5 interval fee plan, 2-3 gantry events and 2-3 path detail chunks.
func (g *Generator) NewTrip(index int) *Trip {
	now := g.Now()
	// Keep the whole window in the past.
	entry := now.Add(-time.Duration(g.between64(int64(6*time.Hour/time.Second), int64(30*24*time.Hour/time.Second))) * time.Second)
	exit := entry.Add(time.Duration(g.between(1, 5)) * time.Hour)

	t := &Trip{
		Index:       index,
		PassID:      fmt.Sprintf("PASS%010d", index),
		Plate:       g.plate(),
		PlateColor:  g.pick(plateColors),
		EntryTime:   entry,
		ExitTime:    exit,
		EntryID:     fmt.Sprintf("ENTRY%010d", index),
		ExitID:      fmt.Sprintf("EXIT%010d", index),
		EntryLane:   fmt.Sprintf("LANE%03d", g.between(1, 20)),
		ExitLane:    fmt.Sprintf("LANE%03d", g.between(1, 20)),
		EntryStn:    fmt.Sprintf("ST%04d", g.between(1, 50)),
		ExitStn:     fmt.Sprintf("ST%04d", g.between(1, 50)),
		VehicleType: g.pick(vehicleTypes),
		AxleCount:   g.pick(axleCounts),
		PayType:     g.pick(payTypes),
		PayCardType: g.pick(payCardTypes),
	}

	n := g.between(3, 5)
	t.Intervals = make([]Interval, n)
	for j := range t.Intervals {
		fee := g.between64(1000, 10000)
		t.Intervals[j] = Interval{
			ID:       fmt.Sprintf("INT%04d", j+1),
			Fee:      fee,
			Discount: g.between64(0, fee/10),
		}
	}

	t.Gantries = g.planGantries(t)
	t.PathDetails = g.planPathDetails(t)
	return t
}

// planGantries spreads 2-3 events over the trip window with strictly
// increasing times.
func (g *Generator) planGantries(t *Trip) []GantryEvent {
	k := g.between(2, 3)
	times := g.spread(t.EntryTime, t.ExitTime, k)
	events := make([]GantryEvent, k)
	for j := range events {
		events[j] = GantryEvent{
			TradeID:    fmt.Sprintf("GANTRY%010d", t.Index*10+j),
			GantryID:   fmt.Sprintf("G%04d", g.between(1, 100)),
			Hex:        g.hex(8),
			Time:       times[j],
			IntervalID: t.Intervals[j*len(t.Intervals)/k].ID,
		}
	}
	return events
}

// planPathDetails partitions the interval plan into 2-3 contiguous
// non-empty chunks.
func (g *Generator) planPathDetails(t *Trip) []PathChunk {
	n := len(t.Intervals)
	k := min(g.between(2, 3), n)

	cuts := g.rng.Perm(n - 1)[:k-1]
	for i := range cuts {
		cuts[i]++
	}
	slices.Sort(cuts)
	bounds := append(append([]int{0}, cuts...), n)

	times := g.spread(t.EntryTime, t.ExitTime, k)
	chunks := make([]PathChunk, k)
	for j := range chunks {
		chunks[j] = PathChunk{
			ID:        fmt.Sprintf("PD%010d", t.Index*10+j),
			PointID:   fmt.Sprintf("POINT%04d", g.between(1, 100)),
			Time:      times[j],
			Intervals: slices.Clone(t.Intervals[bounds[j]:bounds[j+1]]),
		}
	}
	return chunks
}

// spread returns k strictly increasing times inside (from, to), one per
// equal slot with jitter kept inside the middle half of the slot.
func (g *Generator) spread(from, to time.Time, k int) []time.Time {
	slot := to.Sub(from) / time.Duration(k+1)
	jitter := int64(slot / 2 / time.Second)
	out := make([]time.Time, k)
	for j := range out {
		at := from.Add(slot*time.Duration(j+1) - slot/4)
		out[j] = at.Add(time.Duration(g.between64(0, jitter)) * time.Second).Truncate(time.Second)
	}
	return out
}

// JoinIntervals renders chunk intervals as the pipe-delimited parallel lists
// stored in PathDetail.
func JoinIntervals(ivs []Interval) (ids, fees, payFees, discounts string) {
	parts := [4][]string{}
	for _, iv := range ivs {
		parts[0] = append(parts[0], iv.ID)
		parts[1] = append(parts[1], strconv.FormatInt(iv.Fee, 10))
		parts[2] = append(parts[2], strconv.FormatInt(iv.PayFee(), 10))
		parts[3] = append(parts[3], strconv.FormatInt(iv.Discount, 10))
	}
	return strings.Join(parts[0], "|"), strings.Join(parts[1], "|"),
		strings.Join(parts[2], "|"), strings.Join(parts[3], "|")
}

// SplitIntervals parses the PathDetail lists back into intervals. The four
// lists must have the same number of elements and every element must
// satisfy pay = fee - discount.
func SplitIntervals(ids, fees, payFees, discounts string) ([]Interval, error) {
	idList := strings.Split(ids, "|")
	lists := [3][]string{strings.Split(fees, "|"), strings.Split(payFees, "|"), strings.Split(discounts, "|")}
	for _, l := range lists {
		if len(l) != len(idList) {
			return nil, fmt.Errorf("interval lists differ in length: %d ids, %d values", len(idList), len(l))
		}
	}

	out := make([]Interval, len(idList))
	for i, id := range idList {
		var nums [3]int64
		for k, l := range lists {
			v, err := strconv.ParseInt(l[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("interval %s: %w", id, err)
			}
			nums[k] = v
		}
		if nums[1] != nums[0]-nums[2] {
			return nil, fmt.Errorf("interval %s: pay %d != fee %d - discount %d", id, nums[1], nums[0], nums[2])
		}
		out[i] = Interval{ID: id, Fee: nums[0], Discount: nums[2]}
	}
	return out, nil
}
