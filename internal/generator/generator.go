// Package generator produces synthetic toll records, one method per entity
// kind. Every method returns a complete record drawn from bounded ranges;
// cross-entity consistency comes from the Trip the caller passes in.
package generator

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Table names of the generated entity kinds.
const (
	TableEntry       = "EntryTransaction"
	TableExit        = "ExitTransaction"
	TableGantry      = "GantryTransaction"
	TablePath        = "Path"
	TablePathDetail  = "PathDetail"
	TableSplitDetail = "SplitDetail"
	TableSection     = "Section"
	TableClearResult = "ClearResult"
	TableClearReport = "ClearReport"
)

// Tables lists the entity tables in generation order.
var Tables = []string{
	TableSection, TableEntry, TableExit, TableGantry, TablePath,
	TablePathDetail, TableSplitDetail, TableClearResult, TableClearReport,
}

var (
	plateColors   = []int{1, 2, 3, 4, 5} // blue, yellow, white, black, green
	payTypes      = []int{1, 2, 3, 4, 5} // cash, ETC, alipay, wechat, union
	payCardTypes  = []int{1, 2, 3}       // standard, official, other
	vehicleTypes  = []int{1, 2, 3, 4, 5}
	axleCounts    = []int{2, 4, 6}
	mediaTypes    = []int{1, 2, 3}
	transTypes    = []string{"01", "02", "03"}
	provinces     = []string{"京", "沪", "粤", "苏", "浙", "鲁", "川", "渝", "湘", "鄂"}
	plateLetters  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	hexAlphabet   = "0123456789ABCDEF"
	digitAlphabet = "0123456789"
)

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides time.Now. Trips are placed in the 30 days before the
// clock's current time.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLocation sets the zone used for DATE and DATETIME values.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) { g.loc = loc }
}

// Generator produces entity records. It is not safe for concurrent use.
type Generator struct {
	seed uint64
	rng  *rand.Rand
	now  func() time.Time
	loc  *time.Location
}

// New returns a generator seeded with seed. A zero seed picks a random one;
// Seed reports the value actually used so a run can be replayed.
func New(seed uint64, opts ...Option) *Generator {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	g := &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:  time.Now,
		loc:  time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() uint64 { return g.seed }

// Now returns the generator clock's current time, second precision.
func (g *Generator) Now() time.Time {
	return g.now().In(g.loc).Truncate(time.Second)
}

// between returns a uniform int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) between64(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Int64N(hi-lo+1)
}

func (g *Generator) pick(vals []int) int {
	return vals[g.rng.IntN(len(vals))]
}

func (g *Generator) pickString(vals []string) string {
	return vals[g.rng.IntN(len(vals))]
}

func (g *Generator) chars(alphabet string, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteByte(alphabet[g.rng.IntN(len(alphabet))])
	}
	return sb.String()
}

// code returns n random uppercase letters and digits.
func (g *Generator) code(n int) string { return g.chars(codeAlphabet, n) }

// hex returns n random uppercase hex digits.
func (g *Generator) hex(n int) string { return g.chars(hexAlphabet, n) }

// plate returns a mainland plate number such as 苏A12345.
func (g *Generator) plate() string {
	return g.pickString(provinces) + string(plateLetters[g.rng.IntN(len(plateLetters))]) + g.chars(digitAlphabet, 5)
}

// date truncates t to midnight in the generator's zone.
func (g *Generator) date(t time.Time) time.Time {
	t = t.In(g.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, g.loc)
}

// recentDate returns a date within the last 30 days.
func (g *Generator) recentDate() time.Time {
	return g.date(g.Now().AddDate(0, 0, -g.between(0, 30)))
}
