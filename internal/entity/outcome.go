package entity

// Outcome is how one listing's pipeline run ended.
type Outcome string

const (
	OutcomeSkipped        Outcome = "skipped" // seen within the visited TTL
	OutcomeSold           Outcome = "sold"
	OutcomeUnusable       Outcome = "unusable"
	OutcomeUnidentifiable Outcome = "unidentifiable"
	OutcomeNoMatch        Outcome = "no_match"
	OutcomeNoPostage      Outcome = "no_postage"
	OutcomeLoss           Outcome = "loss"
	OutcomeProfit         Outcome = "profit"
	OutcomeTransportFault Outcome = "transport_fault"
	OutcomeFault          Outcome = "fault"
)
