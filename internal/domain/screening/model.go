package screening

import (
	"time"

	"github.com/google/uuid"
)

// FieldKind identifies one clinical metric extracted from a report or
// declared by the patient.
type FieldKind string

const (
	FieldAge            FieldKind = "age"
	FieldSex            FieldKind = "sex"
	FieldBMI            FieldKind = "bmi"
	FieldHeartDisease   FieldKind = "heart_disease"
	FieldSmokingHistory FieldKind = "smoking_history"
	FieldHypertension   FieldKind = "hypertension"
	FieldGlucose        FieldKind = "glucose"
	FieldHbA1c          FieldKind = "hba1c"
)

// Severity is the coarse urgency tag derived from a field's status. It is
// used for display coloring and is always a function of Status, never set
// independently.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityCaution Severity = "caution"
	SeverityRisk    Severity = "risk"
	// SeverityNeutral is used only for the "No Info" smoking history answer.
	SeverityNeutral Severity = "neutral"
)

// RawMatch is the intermediate result of a field locator: the first
// occurrence of a labeled value in document order, before any unit
// normalization. It is consumed immediately and never persisted.
type RawMatch struct {
	Kind      FieldKind
	Value     float64
	Second    float64 // diastolic component for blood pressure
	Unit      string  // lowercased unit token, "" when absent
	Qualifier string  // lowercased inline context ("fasting"/"random"), "" when absent
	Text      string  // raw value text for non-numeric fields (sex)
}

// FieldResult is one classified measurement. Only the projections that make
// sense for the field kind are populated: Value for age and BMI, Systolic/
// Diastolic for blood pressure, MmolL+MgDL for glucose (always together),
// Percent+MmolMol for HbA1c (always together).
type FieldResult struct {
	Kind     FieldKind `json:"kind"`
	Display  string    `json:"display"`
	Unit     string    `json:"unit,omitempty"`
	Category string    `json:"category,omitempty"`
	Status   string    `json:"status,omitempty"`
	Severity Severity  `json:"severity"`

	Value     *float64 `json:"value,omitempty"`
	Systolic  *int     `json:"systolic,omitempty"`
	Diastolic *int     `json:"diastolic,omitempty"`
	MmolL     *float64 `json:"value_mmol,omitempty"`
	MgDL      *float64 `json:"value_mg,omitempty"`
	Percent   *float64 `json:"value_percent,omitempty"`
	MmolMol   *float64 `json:"value_mmol_mol,omitempty"`
}

// DiagnosisRecord maps field kinds to their classified results. A key is
// present if and only if the field was located in the document (or supplied
// by the patient, for the two declared fields). Absence means "not found in
// this report", which is distinct from a found-but-out-of-range value.
type DiagnosisRecord map[FieldKind]FieldResult

// Has reports whether the record contains a result for the given field.
func (r DiagnosisRecord) Has(kind FieldKind) bool {
	_, ok := r[kind]
	return ok
}

// OverallVerdict is the aggregated risk verdict computed from the glucose,
// HbA1c and hypertension statuses.
type OverallVerdict struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// DeclaredInputs are the two patient-declared history answers that
// accompany every analysis request.
type DeclaredInputs struct {
	HeartDisease   string `json:"heart_disease"`
	SmokingHistory string `json:"smoking_history"`
}

// Analysis is the stored outcome of one document analysis. Verdict is nil
// when none of the three contributing fields was found (insufficient data),
// which is distinct from a Normal verdict.
type Analysis struct {
	ID             uuid.UUID       `json:"id"`
	HeartDisease   string          `json:"heart_disease"`
	SmokingHistory string          `json:"smoking_history"`
	Record         DiagnosisRecord `json:"record"`
	Verdict        *OverallVerdict `json:"verdict,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }
