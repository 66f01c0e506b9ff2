package fare

import "strconv"

// Penalty type codes used by the provider's fare rules.
const (
	PenaltyRefund  = 0
	PenaltyChange  = 1
	PenaltyNoShow  = 2
	PenaltyReissue = 3
)

var penaltyLabels = map[int]string{
	PenaltyRefund:  "Refund",
	PenaltyChange:  "Change",
	PenaltyNoShow:  "No-show",
	PenaltyReissue: "Reissue/Reroute",
}

// PenaltyLabel humanizes a penalty type code. Unknown codes get a generic
// label and are never dropped.
func PenaltyLabel(code *int) string {
	if code == nil {
		return "Penalty_NA"
	}
	if label, ok := penaltyLabels[*code]; ok {
		return label
	}
	return "Penalty_" + strconv.Itoa(*code)
}
