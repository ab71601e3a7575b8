package screening

import (
	"math"
	"strings"
)

// Glucose conversion factor between mmol/L and mg/dL.
const glucoseMgPerMmol = 18.0

// NormalizeGlucose converts a raw glucose reading into both canonical
// units. A unit token containing "mg/dl" marks the value as mg/dL;
// anything else, including a missing token, is read as mmol/L (regional
// convention for unlabeled values).
func NormalizeGlucose(value float64, unit string) (mmol, mg float64) {
	if strings.Contains(strings.ToLower(unit), "mg/dl") {
		return value / glucoseMgPerMmol, value
	}
	return value, value * glucoseMgPerMmol
}

// NormalizeHbA1c converts a raw HbA1c reading into both canonical units
// using the NGSP-to-IFCC linear relation. A "%" token or a missing token
// marks the value as percent; anything else is read as mmol/mol. The
// derived mmol/mol value is rounded to the nearest integer, the derived
// percent to one decimal.
func NormalizeHbA1c(value float64, unit string) (percent, mmolMol float64) {
	if unit == "" || unit == "%" {
		return value, math.Round(value*10.93 - 23.5)
	}
	return math.Round((value+23.5)/10.93*10) / 10, value
}
