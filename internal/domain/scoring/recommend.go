package scoring

import (
	"fmt"
	"strings"
)

// Explain produces the human-readable notes accompanying a prediction:
// which feature values pushed the model's answer and what the patient
// should do next. The notes restate the inputs; they never second-guess
// the rule-based classification.
func Explain(f Features, p Prediction) []string {
	var notes []string

	if f.HbA1cLevel >= 6.5 {
		notes = append(notes, fmt.Sprintf("HbA1c of %.1f%% is in the diabetic range.", f.HbA1cLevel))
	} else if f.HbA1cLevel >= 5.7 {
		notes = append(notes, fmt.Sprintf("HbA1c of %.1f%% is in the prediabetic range.", f.HbA1cLevel))
	}

	if f.GlucoseMgDL >= 200 {
		notes = append(notes, fmt.Sprintf("Blood glucose of %.0f mg/dL is well above the normal range.", f.GlucoseMgDL))
	} else if f.GlucoseMgDL >= 140 {
		notes = append(notes, fmt.Sprintf("Blood glucose of %.0f mg/dL is elevated.", f.GlucoseMgDL))
	}

	if f.BMI >= 30 {
		notes = append(notes, fmt.Sprintf("BMI of %.1f indicates obesity, a major diabetes risk factor.", f.BMI))
	} else if f.BMI >= 25 {
		notes = append(notes, fmt.Sprintf("BMI of %.1f is above the normal range.", f.BMI))
	}

	if f.Hypertension == 1 {
		notes = append(notes, "Hypertension is present, which compounds metabolic risk.")
	}
	if f.HeartDisease == 1 {
		notes = append(notes, "Declared heart disease increases overall risk.")
	}
	if strings.EqualFold(f.SmokingHistory, "current") {
		notes = append(notes, "Current smoking increases insulin resistance.")
	}

	if p.Label == "Diabetes" {
		notes = append(notes, "Consult a physician for a confirmatory laboratory workup.")
	} else if len(notes) > 0 {
		notes = append(notes, "Values outside the normal range warrant routine follow-up.")
	} else {
		notes = append(notes, "All supplied values are within normal ranges.")
	}

	return notes
}
