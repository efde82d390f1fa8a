package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportKey identifies one ClearReport row: the distinct clearing
// dimensions of a set of ClearResults.
type ReportKey struct {
	CropID      int
	RoadID      string
	PayCardType int
	ClearDate   time.Time
	LDate       time.Time
}

func (k ReportKey) String() string {
	return fmt.Sprintf("%d/%s/%d/%s/%s", k.CropID, k.RoadID, k.PayCardType,
		k.ClearDate.Format(time.DateOnly), k.LDate.Format(time.DateOnly))
}

// Channel is a settlement channel with its share of the report's base
// amount. Toll shares exceed split shares so the operator markup survives.
type Channel struct {
	Name    string
	Split   decimal.Decimal
	OpSplit decimal.Decimal
	Toll    decimal.Decimal
	OpToll  decimal.Decimal
}

// Channels in column order.
var Channels = []Channel{
	{"cash", d("0.2"), d("0.05"), d("0.25"), d("0.05")},
	{"other", d("0.1"), d("0.02"), d("0.12"), d("0.02")},
	{"union", d("0.15"), d("0.03"), d("0.18"), d("0.03")},
	{"etc", d("0.3"), d("0.05"), d("0.35"), d("0.05")},
	{"alipay", d("0.1"), d("0.02"), d("0.12"), d("0.02")},
	{"wepay", d("0.1"), d("0.02"), d("0.12"), d("0.02")},
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ClearReport builds report number index for key.
func (g *Generator) ClearReport(index int, key ReportKey) *Record {
	base := decimal.NewFromInt(g.between64(100000, 1000000))

	rec := NewRecord(TableClearReport, 10+5*len(Channels)).
		Set("id", fmt.Sprintf("RPT%010d", index)).
		Set("crop_id", key.CropID).
		Set("road_id", key.RoadID).
		Set("split_org", fmt.Sprintf("ORG%02d", g.between(1, 10))).
		Set("org_type", g.between(1, 3)).
		Set("pay_card_type", key.PayCardType).
		Set("money_flag", g.between(0, 1)).
		Set("clear_date", key.ClearDate).
		Set("l_date", key.LDate).
		Set("gen_time", g.Now())

	for _, ch := range Channels {
		rec.Set(ch.Name+"_split_money", base.Mul(ch.Split).Round(2)).
			Set(ch.Name+"_op_split_money", base.Mul(ch.OpSplit).Round(2)).
			Set(ch.Name+"_toll_money", base.Mul(ch.Toll).Round(2)).
			Set(ch.Name+"_op_toll_money", base.Mul(ch.OpToll).Round(2)).
			Set(ch.Name+"_return_money", decimal.Zero)
	}
	return rec
}
