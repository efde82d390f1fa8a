package generator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Entry builds the EntryTransaction of t.
func (g *Generator) Entry(t *Trip) *Record {
	axles := t.AxleCount
	return NewRecord(TableEntry, 32).
		Set("id", t.EntryID).
		Set("pass_id", t.PassID).
		Set("l_date", t.EntryDate()).
		Set("en_time", t.EntryTime).
		Set("station_receive_time", t.EntryTime).
		Set("receive_time", t.EntryTime).
		Set("oper_id", fmt.Sprintf("OP%d", g.between(1000, 9999))).
		Set("oper_name", fmt.Sprintf("Operator %d", g.between(1, 100))).
		Set("en_toll_station_id", t.EntryStn).
		Set("en_toll_lane_id", t.EntryLane).
		Set("media_type", g.pick(mediaTypes)).
		Set("media_no", g.code(16)).
		Set("vlp", t.Plate).
		Set("vlpc", t.PlateColor).
		Set("identify_vlp", t.Plate).
		Set("identify_vlpc", t.PlateColor).
		Set("vehicle_type", t.VehicleType).
		Set("trans_code", g.code(8)).
		Set("trans_type", g.pickString(transTypes)).
		Set("balance_before", g.between64(0, 100000)).
		Set("trans_fee", int64(0)).
		Set("direction", g.between(1, 2)).
		Set("en_axle_count", axles).
		Set("axis_info", strconv.Itoa(axles)+" axles").
		Set("en_weight", g.between64(1000, 50000)).
		Set("limit_weight", g.between64(20000, 50000)).
		Set("over_weight_rate", g.between(0, 50)).
		Set("description", "normal passage").
		Set("special_type", "").
		Set("lane_sp_info", "").
		Set("sp_info", "")
}

// Exit builds the ExitTransaction of t. Fee totals are the sums over the
// trip's interval plan.
func (g *Generator) Exit(t *Trip) *Record {
	fee := t.TotalFee()
	discount := t.TotalDiscount()
	pay := fee - discount
	balanceBefore := pay + g.between64(0, 100000)

	return NewRecord(TableExit, 64).
		Set("id", t.ExitID).
		Set("pass_id", t.PassID).
		Set("source_id", fmt.Sprintf("SOURCE%010d", t.Index)).
		Set("return_money_sn", "").
		Set("l_date", t.EntryDate()).
		Set("ex_time", t.ExitTime).
		Set("station_receive_time", t.ExitTime).
		Set("receive_time", t.ExitTime).
		Set("oper_id", fmt.Sprintf("OP%d", g.between(1000, 9999))).
		Set("oper_name", fmt.Sprintf("Operator %d", g.between(1, 100))).
		Set("ex_toll_lane_id", t.ExitLane).
		Set("ex_toll_station_id", t.ExitStn).
		Set("ex_toll_station_name", "Station "+t.ExitStn[2:]).
		Set("media_type", g.pick(mediaTypes)).
		Set("media_no", g.code(16)).
		Set("ex_vlp", t.Plate).
		Set("ex_vlpc", t.PlateColor).
		Set("identify_vlp", t.Plate).
		Set("identify_vlpc", t.PlateColor).
		Set("vehicle_type", t.VehicleType).
		Set("trans_code", g.code(8)).
		Set("trans_type", g.pickString(transTypes)).
		Set("multi_province", g.between(0, 1)).
		Set("province_group", "").
		Set("toll_province_id", fmt.Sprintf("PROV%02d", g.between(1, 10))).
		Set("trans_pay_type", t.PayType).
		Set("pay_type", t.PayType).
		Set("pay_card_type", t.PayCardType).
		Set("pay_card_id", g.code(16)).
		Set("axle_count", t.AxleCount).
		Set("axis_info", strconv.Itoa(t.AxleCount)+" axles").
		Set("ex_weight", g.between64(1000, 50000)).
		Set("limit_weight", g.between64(20000, 50000)).
		Set("over_weight_rate", g.between(0, 50)).
		Set("description", "normal passage").
		Set("v_speed", 0).
		Set("special_type", "").
		Set("lane_sp_info", "").
		Set("sp_info", "").
		Set("modify_flag", 0).
		Set("toll_distance", g.between64(10000, 200000)).
		Set("real_distance", g.between64(10000, 200000)).
		Set("free_type", 0).
		Set("free_mode", 0).
		Set("free_info", "").
		Set("trans_fee", pay).
		Set("balance_before", balanceBefore).
		Set("balance_after", balanceBefore-pay).
		Set("fee", fee).
		Set("discount_fee", discount).
		Set("pay_fee", pay).
		Set("obu_pay_fee", pay).
		Set("obu_discount_fee", discount).
		Set("fee_mileage", g.between64(10, 200)).
		Set("collect_fee", int64(0)).
		Set("rebate_money", int64(0)).
		Set("card_cost_fee", int64(0)).
		Set("unpay_fee", int64(0)).
		Set("unpay_flag", "").
		Set("unpay_card_cost", int64(0)).
		Set("ticket_fee", int64(0)).
		Set("en_toll_money", fee).
		Set("en_free_money", int64(0)).
		Set("en_last_money", pay)
}

// Gantry builds the j-th GantryTransaction of t. The event chains to the
// previous gantry of the trip, or to the entry for the first one.
func (g *Generator) Gantry(t *Trip, j int) *Record {
	ev := t.Gantries[j]
	lastHex, lastTime := "", t.EntryTime
	if j > 0 {
		lastHex, lastTime = t.Gantries[j-1].Hex, t.Gantries[j-1].Time
	}

	fee := g.between64(1000, 20000)
	discount := g.between64(0, fee/10)
	pay := fee - discount
	balanceBefore := pay + g.between64(0, 100000)
	feeStr, payStr, discountStr := strconv.FormatInt(fee, 10), strconv.FormatInt(pay, 10), strconv.FormatInt(discount, 10)

	return NewRecord(TableGantry, 40).
		Set("trade_id", ev.TradeID).
		Set("pass_id", t.PassID).
		Set("trans_time", ev.Time).
		Set("record_gen_time", ev.Time).
		Set("receive_time", ev.Time).
		Set("gantry_id", ev.GantryID).
		Set("gantry_type", g.pickString([]string{"A", "B", "C"})).
		Set("original_flag", g.between(0, 1)).
		Set("gantry_hex", ev.Hex).
		Set("last_gantry_hex", lastHex).
		Set("last_gantry_time", lastTime).
		Set("media_type", g.pick(mediaTypes)).
		Set("cpu_card_id", g.code(16)).
		Set("vlp", t.Plate).
		Set("vlpc", t.PlateColor).
		Set("vehicle_type", t.VehicleType).
		Set("identify_vehicle_type", t.VehicleType).
		Set("trade_type", g.between(1, 3)).
		Set("axle_count", t.AxleCount).
		Set("total_weight", g.between64(1000, 50000)).
		Set("vehicle_length", g.between(400, 2000)).
		Set("vehicle_width", g.between(150, 300)).
		Set("vehicle_hight", g.between(150, 400)).
		Set("fee_mileage", g.between64(1, 50)).
		Set("trans_fee", pay).
		Set("balance_before", balanceBefore).
		Set("balance_after", balanceBefore-pay).
		Set("pay_fee", pay).
		Set("fee", fee).
		Set("discount_fee", discount).
		Set("toll_interval_id", ev.IntervalID).
		Set("toll_interval_sign", g.code(4)).
		Set("pay_fee_group", payStr).
		Set("fee_group", feeStr).
		Set("discount_fee_group", discountStr).
		Set("description", "gantry billing").
		Set("fee_calc_special", 0).
		Set("charges_special_type", "").
		Set("is_fix_data", 0)
}

// Path builds the Path summary of t.
func (g *Generator) Path(t *Trip) *Record {
	return NewRecord(TablePath, 13).
		Set("pass_id", t.PassID).
		Set("plate_num", t.Plate).
		Set("plate_color", t.PlateColor).
		Set("en_time", t.EntryTime).
		Set("ex_time", t.ExitTime).
		Set("en_toll_lane_id", t.EntryLane).
		Set("ex_toll_lane_id", t.ExitLane).
		Set("en_toll_station_id", t.EntryStn).
		Set("ex_toll_station_id", t.ExitStn).
		Set("ex_vehicle_type", t.VehicleType).
		Set("pay_type", t.PayType).
		Set("pay_card_type", t.PayCardType).
		Set("l_date", t.EntryDate())
}

// PathDetail builds the j-th PathDetail of t.
func (g *Generator) PathDetail(t *Trip, j int) *Record {
	c := t.PathDetails[j]
	ids, fees, pays, discounts := JoinIntervals(c.Intervals)
	return NewRecord(TablePathDetail, 11).
		Set("id", c.ID).
		Set("pass_id", t.PassID).
		Set("plate_num", t.Plate).
		Set("plate_color", t.PlateColor).
		Set("identify_point_id", c.PointID).
		Set("identify_point_hex", g.hex(8)).
		Set("intervals", ids).
		Set("fee", fees).
		Set("pay_fee", pays).
		Set("discount_fee", discounts).
		Set("trans_time", c.Time)
}

// SplitDetail builds the split of interval iv, tied to the trip's exit
// transaction.
func (g *Generator) SplitDetail(t *Trip, iv Interval) *Record {
	return NewRecord(TableSplitDetail, 10).
		Set("pass_id", t.PassID).
		Set("transaction_id", t.ExitID).
		Set("interval_id", iv.ID).
		Set("toll_interval_fee", strconv.FormatInt(iv.Fee, 10)).
		Set("toll_interval_pay_fee", strconv.FormatInt(iv.PayFee(), 10)).
		Set("toll_interval_discount_fee", strconv.FormatInt(iv.Discount, 10)).
		Set("split_flag", g.between(0, 1)).
		Set("pro_split_time", t.ExitTime.Add(time.Duration(g.between(1, 60))*time.Minute)).
		Set("pro_split_type", g.between(1, 3)).
		Set("split_remark", "normal split")
}

// ClearResult builds the clearing result of interval iv against section s
// and returns the report key it contributes to.
func (g *Generator) ClearResult(t *Trip, iv Interval, s SectionRef) (*Record, ReportKey) {
	amount := decimal.NewFromInt(iv.Fee)
	discount := decimal.NewFromInt(iv.Discount)
	key := ReportKey{
		CropID:      s.CropID,
		RoadID:      s.RoadID,
		PayCardType: t.PayCardType,
		ClearDate:   g.date(t.ExitTime).AddDate(0, 0, 1),
		LDate:       t.EntryDate(),
	}

	rec := NewRecord(TableClearResult, 13).
		Set("pass_id", t.PassID).
		Set("transaction_id", t.ExitID).
		Set("interval_id", iv.ID).
		Set("crop_id", key.CropID).
		Set("road_id", key.RoadID).
		Set("pay_type", t.PayType).
		Set("pay_card_type", key.PayCardType).
		Set("amount", amount).
		Set("discount_amount", discount).
		Set("charge_amount", amount.Sub(discount)).
		Set("clear_date", key.ClearDate).
		Set("l_date", key.LDate)
	return rec, key
}
