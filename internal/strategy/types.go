// Package strategy turns a resolved ex-dividend calendar into ranked
// dividend-capture opportunities.
package strategy

import "divradar/internal/config"

// Action is what the opportunity recommends doing.
type Action string

const (
	ActionBuy         Action = "BUY"
	ActionPrepareSell Action = "PREPARE_SELL"
)

// Confidence is the coarse tier assigned to BUY opportunities based on how
// close the evaluation date is to the ex-dividend date. PREPARE_SELL
// opportunities carry no tier.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceNone   Confidence = ""
)

// Opportunity is one actionable window for one instrument relative to one
// event date. ExpectedReturnPct and SuccessRate are historical constants
// copied verbatim from the instrument metadata, never computed here.
type Opportunity struct {
	Instrument        string     `json:"instrument"`
	Action            Action     `json:"action"`
	EventDate         string     `json:"event_date"`
	DaysFromEvent     int        `json:"days_from_event"` // evaluation date minus event date; positive after the event
	Confidence        Confidence `json:"confidence,omitempty"`
	ExpectedReturnPct float64    `json:"expected_return_pct"`
	SuccessRate       float64    `json:"success_rate"`
	Reason            string     `json:"reason"`
}

// InstrumentMeta is the immutable reference data for one instrument. Lower
// Priority means higher investment priority; it is used only as an ordering
// tie-break, never to filter.
type InstrumentMeta struct {
	Code              string
	Name              string
	Priority          int
	ExpectedReturnPct float64
	SuccessRate       float64
}

// MetaTable maps instrument code to its metadata.
type MetaTable map[string]InstrumentMeta

// MetaFromConfig builds the metadata table from the configured instruments.
func MetaFromConfig(instruments []config.InstrumentConfig) MetaTable {
	table := make(MetaTable, len(instruments))
	for _, ins := range instruments {
		table[ins.Code] = InstrumentMeta{
			Code:              ins.Code,
			Name:              ins.Name,
			Priority:          ins.Priority,
			ExpectedReturnPct: ins.ExpectedReturnPct,
			SuccessRate:       ins.SuccessRate,
		}
	}
	return table
}
