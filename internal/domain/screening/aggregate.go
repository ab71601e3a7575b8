package screening

import "strings"

// Overall verdict labels.
const (
	VerdictNormal      = "Normal"
	VerdictPrediabetes = "Prediabetes or Prehypertension Indicated"
	VerdictDiabetes    = "Diabetes or Hypertension Indicated"
)

// verdictFields are the only fields that contribute to the overall verdict.
// Age, sex, BMI and the declared histories carry their own severity for
// display but never move the verdict.
var verdictFields = []FieldKind{FieldGlucose, FieldHbA1c, FieldHypertension}

// Aggregate computes the overall risk verdict from the statuses of the
// glucose, HbA1c and hypertension results, worst status wins. It returns
// nil when none of the three fields is present: that is an insufficient
// data condition, not a Normal verdict.
func Aggregate(rec DiagnosisRecord) *OverallVerdict {
	var statuses []string
	for _, kind := range verdictFields {
		if fr, ok := rec[kind]; ok {
			statuses = append(statuses, fr.Status)
		}
	}
	if len(statuses) == 0 {
		return nil
	}

	contains := func(substrs ...string) bool {
		for _, s := range statuses {
			for _, sub := range substrs {
				if strings.Contains(s, sub) {
					return true
				}
			}
		}
		return false
	}

	switch {
	case contains("Diabetes", "Hypertension Stage"):
		return &OverallVerdict{Label: VerdictDiabetes, Severity: SeverityRisk}
	case contains("Prediabetes", "Elevated/Prehypertension"):
		return &OverallVerdict{Label: VerdictPrediabetes, Severity: SeverityCaution}
	default:
		return &OverallVerdict{Label: VerdictNormal, Severity: SeverityOK}
	}
}
