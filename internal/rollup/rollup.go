// Package rollup aggregates time entries by charge code for the standup and
// costpoint billing views. All rounding snaps to the nearest quarter hour.
package rollup

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/timecard/internal/model"
)

// EodThresholdMinutes is the rounded-minute total at which the workday
// monitor considers the operator close to a full 8-hour day (7.5 hours).
const EodThresholdMinutes = 450

// StandupEntry is one charge code's share of a day: quarter-hour-rounded
// minutes and every non-empty note joined with newlines.
type StandupEntry struct {
	ChargeCode     *model.ChargeCode
	RoundedMinutes int64
	Notes          string
}

// CostpointEntry is one row of the billing export.
type CostpointEntry struct {
	ChargeCode string `json:"charge_code"`
	Hours      string `json:"hours"`
	Date       string `json:"date"`
}

// RoundQuarterMinutes rounds a minute count to the nearest multiple of 15,
// halves rounding away from zero.
func RoundQuarterMinutes(minutes int64) int64 {
	return int64(math.Round(float64(minutes)/15.0)) * 15
}

// SumRoundedMinutes totals the entries' real accumulated time and rounds the
// result to the nearest quarter hour.
func SumRoundedMinutes(entries []model.TimeEntry, now time.Time) int64 {
	var totalMillis int64
	for i := range entries {
		totalMillis += entries[i].RealTotalTime(now)
	}
	return RoundQuarterMinutes(totalMillis / 1000 / 60)
}

// QuarterHoursString renders milliseconds as hours rounded to the nearest
// 0.25, formatted with two decimals, e.g. "7.75".
func QuarterHoursString(millis int64) string {
	hours := float64(millis) / 3600000.0
	quarters := math.Round(hours*4.0) / 4.0
	return fmt.Sprintf("%.2f", quarters)
}

// Standup groups entries by charge code, rounding each group's total and
// joining its notes. Output is sorted by charge-code id with untagged
// entries last.
func Standup(entries []model.TimeEntry, codes []model.ChargeCode, now time.Time) []StandupEntry {
	const untagged = int64(-1)
	groups := make(map[int64][]model.TimeEntry)
	for _, entry := range entries {
		key := untagged
		if entry.ChargeCode != nil {
			key = entry.ChargeCode.ID
		}
		groups[key] = append(groups[key], entry)
	}

	var out []StandupEntry
	for key, group := range groups {
		var notes []string
		for i := range group {
			if group[i].Note != "" {
				notes = append(notes, group[i].Note)
			}
		}
		out = append(out, StandupEntry{
			ChargeCode:     codeByID(codes, key),
			RoundedMinutes: SumRoundedMinutes(group, now),
			Notes:          strings.Join(notes, "\n"),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return standupSortKey(out[i]) < standupSortKey(out[j])
	})
	return out
}

func standupSortKey(e StandupEntry) int64 {
	if e.ChargeCode == nil {
		return math.MaxInt64
	}
	return e.ChargeCode.ID
}

func codeByID(codes []model.ChargeCode, id int64) *model.ChargeCode {
	for i := range codes {
		if codes[i].ID == id {
			cc := codes[i]
			return &cc
		}
	}
	return nil
}

// Costpoint builds the billing rows: per charge code and day, real total
// time rounded to quarter hours, dated to that weekday in the current week.
// Untagged entries are skipped; they have nothing to bill against.
func Costpoint(entries []model.TimeEntry, now time.Time) []CostpointEntry {
	type key struct {
		codeID int64
		day    model.Day
	}
	totals := make(map[key]int64)
	aliases := make(map[int64]string)
	for i := range entries {
		entry := &entries[i]
		if entry.ChargeCode == nil {
			continue
		}
		k := key{codeID: entry.ChargeCode.ID, day: entry.Day}
		totals[k] += entry.RealTotalTime(now)
		aliases[entry.ChargeCode.ID] = entry.ChargeCode.Alias
	}

	var out []CostpointEntry
	for k, millis := range totals {
		out = append(out, CostpointEntry{
			ChargeCode: aliases[k.codeID],
			Hours:      QuarterHoursString(millis),
			Date:       k.day.DateIn(now).Format("2006-01-02"),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ChargeCode < out[j].ChargeCode
	})
	return out
}
