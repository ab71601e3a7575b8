package screening

import (
	"fmt"
	"math"
)

// band is one segment of an ordered classification scale. A value belongs
// to the first band it satisfies: strictly below the limit for exclusive
// bands, at or below it otherwise. The final band carries +Inf so the scale
// partitions the whole line with no gap and no overlap.
type band struct {
	limit     float64
	exclusive bool
	status    string
	severity  Severity
}

func classifyBands(v float64, bands []band) (string, Severity) {
	for _, b := range bands {
		if b.exclusive {
			if v < b.limit {
				return b.status, b.severity
			}
			continue
		}
		if v <= b.limit {
			return b.status, b.severity
		}
	}
	// Unreachable: the tables below all end with an +Inf band.
	last := bands[len(bands)-1]
	return last.status, last.severity
}

var bmiBands = []band{
	{limit: 18.5, exclusive: true, status: "Underweight", severity: SeverityCaution},
	{limit: 24.9, status: "Normal range", severity: SeverityOK},
	{limit: 29.9, status: "Pre-obese", severity: SeverityCaution},
	{limit: 34.9, status: "Obese class I", severity: SeverityRisk},
	{limit: 39.9, status: "Obese class II", severity: SeverityRisk},
	{limit: math.Inf(1), status: "Obese class III", severity: SeverityRisk},
}

var fastingGlucoseBands = []band{
	{limit: 3.9, exclusive: true, status: "Hypoglycemia", severity: SeverityRisk},
	{limit: 6.0, status: "Normal", severity: SeverityOK},
	{limit: 6.9, status: "Prediabetes", severity: SeverityCaution},
	{limit: math.Inf(1), status: "Diabetes", severity: SeverityRisk},
}

var randomGlucoseBands = []band{
	{limit: 3.9, exclusive: true, status: "Hypoglycemia", severity: SeverityRisk},
	{limit: 7.7, status: "Normal", severity: SeverityOK},
	{limit: 11.0, status: "Prediabetes", severity: SeverityCaution},
	{limit: math.Inf(1), status: "Diabetes", severity: SeverityRisk},
}

var hba1cBands = []band{
	{limit: 5.7, exclusive: true, status: "Normal", severity: SeverityOK},
	{limit: 6.2, status: "Prediabetes", severity: SeverityCaution},
	{limit: math.Inf(1), status: "Diabetes", severity: SeverityRisk},
}

// ClassifyBMI maps a BMI in kg/m² onto the WHO obesity scale.
func ClassifyBMI(v float64) (string, Severity) {
	return classifyBands(v, bmiBands)
}

// ClassifyBloodPressure maps a systolic/diastolic pair in mmHg onto the
// hypertension scale. The branches are evaluated in this exact order; the
// OR conditions mean a pair can stop at an earlier, less severe band even
// when one component alone would fall in a later band (e.g. 125/95 stops at
// Elevated/Prehypertension because systolic 120-139 matches first). That
// short-circuit is deliberate and pinned by tests.
func ClassifyBloodPressure(systolic, diastolic int) (string, Severity) {
	switch {
	case systolic < 120 && diastolic < 80:
		return "Normal", SeverityOK
	case (120 <= systolic && systolic <= 139) || (80 <= diastolic && diastolic <= 89):
		return "Elevated/Prehypertension", SeverityCaution
	case (140 <= systolic && systolic <= 159) || (90 <= diastolic && diastolic <= 99):
		return "Hypertension Stage 1", SeverityRisk
	default:
		return "Hypertension Stage 2", SeverityRisk
	}
}

// ClassifyGlucose maps a glucose reading in mmol/L onto the scale for its
// specimen category. An Unknown category is evaluated against the fasting
// bands and the status is annotated to make the assumption visible; the
// annotated status stays caution unless the underlying band is itself
// Hypoglycemia or Diabetes.
func ClassifyGlucose(mmol float64, category string) (string, Severity) {
	switch category {
	case "Fasting":
		return classifyBands(mmol, fastingGlucoseBands)
	case "Random":
		return classifyBands(mmol, randomGlucoseBands)
	default:
		status, severity := classifyBands(mmol, fastingGlucoseBands)
		if severity != SeverityRisk {
			severity = SeverityCaution
		}
		return fmt.Sprintf("Unknown Category - Assuming Fasting (%s)", status), severity
	}
}

// ClassifyHbA1c maps an HbA1c percentage onto the diabetes scale. The
// percent value is authoritative; the mmol/mol projection carries the same
// status.
func ClassifyHbA1c(percent float64) (string, Severity) {
	return classifyBands(percent, hba1cBands)
}

// ClassifyHeartDisease maps the declared heart disease answer.
func ClassifyHeartDisease(answer string) (string, Severity) {
	if answer == "Yes" {
		return "Yes", SeverityRisk
	}
	return "No", SeverityOK
}

// smokingStatuses maps each accepted answer to its display status and
// severity. "No Info" is the only neutral value in the whole system.
var smokingStatuses = map[string]struct {
	status   string
	severity Severity
}{
	"No Info":     {"No Info", SeverityNeutral},
	"never":       {"Never", SeverityOK},
	"former":      {"Former", SeverityCaution},
	"not current": {"Not Current", SeverityCaution},
	"current":     {"Current", SeverityRisk},
}

// ClassifySmokingHistory maps the declared smoking history answer. The
// second return is false for answers outside the accepted set.
func ClassifySmokingHistory(answer string) (string, Severity, bool) {
	s, ok := smokingStatuses[answer]
	if !ok {
		return "", "", false
	}
	return s.status, s.severity, true
}
