// Package scoring derives the feature vector the external diabetes risk
// model consumes and talks to that model as a black box. The model's own
// decision never feeds back into the rule-based classification; it is a
// parallel opinion computed from the same normalized measurements.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clinscan/clinscan/internal/domain/screening"
)

// ErrInsufficientData means the diagnosis record is missing fields the
// model requires. The error message lists them.
var ErrInsufficientData = errors.New("scoring: insufficient data for prediction")

// requiredFields are the record fields the model cannot do without in
// strict mode. Heart disease and smoking history are declared inputs and
// always available.
var requiredFields = []screening.FieldKind{
	screening.FieldAge,
	screening.FieldSex,
	screening.FieldBMI,
	screening.FieldHypertension,
	screening.FieldGlucose,
	screening.FieldHbA1c,
}

// Features is the exact input contract of the risk model.
type Features struct {
	Gender         string  `json:"gender"`
	Age            float64 `json:"age"`
	Hypertension   int     `json:"hypertension"`
	HeartDisease   int     `json:"heart_disease"`
	SmokingHistory string  `json:"smoking_history"`
	BMI            float64 `json:"bmi"`
	HbA1cLevel     float64 `json:"HbA1c_level"`
	GlucoseMgDL    float64 `json:"blood_glucose_level"`
}

// Derive builds the model features from a diagnosis record. Every required
// field must be present; a failure lists all missing fields so the caller
// can surface one actionable message.
func Derive(a *screening.Analysis) (Features, error) {
	rec := a.Record
	var missing []string
	for _, kind := range requiredFields {
		if !rec.Has(kind) {
			missing = append(missing, string(kind))
		}
	}
	if len(missing) > 0 {
		return Features{}, fmt.Errorf("%w: missing %s", ErrInsufficientData, strings.Join(missing, ", "))
	}

	return Features{
		Gender:         rec[screening.FieldSex].Display,
		Age:            *rec[screening.FieldAge].Value,
		Hypertension:   hypertensionFlag(rec[screening.FieldHypertension].Status),
		HeartDisease:   heartDiseaseFlag(a.HeartDisease),
		SmokingHistory: smokingOrDefault(a.SmokingHistory),
		BMI:            *rec[screening.FieldBMI].Value,
		HbA1cLevel:     *rec[screening.FieldHbA1c].Percent,
		GlucoseMgDL:    *rec[screening.FieldGlucose].MgDL,
	}, nil
}

// Population defaults substituted for absent fields in best-effort mode.
const (
	defaultAge         = 30.0
	defaultGender      = "Male"
	defaultBMI         = 22.0
	defaultSystolic    = 120
	defaultDiastolic   = 80
	defaultGlucoseMgDL = 90.0
	defaultHbA1c       = 5.5
)

// DeriveBestEffort builds the model features substituting population
// defaults for any absent field. It never fails; the substitution is an
// explicit caller choice, never applied silently.
func DeriveBestEffort(a *screening.Analysis) Features {
	rec := a.Record

	f := Features{
		Gender:         defaultGender,
		Age:            defaultAge,
		HeartDisease:   heartDiseaseFlag(a.HeartDisease),
		SmokingHistory: smokingOrDefault(a.SmokingHistory),
		BMI:            defaultBMI,
		HbA1cLevel:     defaultHbA1c,
		GlucoseMgDL:    defaultGlucoseMgDL,
	}

	sysStatus, _ := screening.ClassifyBloodPressure(defaultSystolic, defaultDiastolic)
	f.Hypertension = hypertensionFlag(sysStatus)

	if fr, ok := rec[screening.FieldSex]; ok {
		f.Gender = fr.Display
	}
	if fr, ok := rec[screening.FieldAge]; ok {
		f.Age = *fr.Value
	}
	if fr, ok := rec[screening.FieldHypertension]; ok {
		f.Hypertension = hypertensionFlag(fr.Status)
	}
	if fr, ok := rec[screening.FieldBMI]; ok {
		f.BMI = *fr.Value
	}
	if fr, ok := rec[screening.FieldHbA1c]; ok {
		f.HbA1cLevel = *fr.Percent
	}
	if fr, ok := rec[screening.FieldGlucose]; ok {
		f.GlucoseMgDL = *fr.MgDL
	}
	return f
}

func hypertensionFlag(status string) int {
	if status == "Hypertension Stage 1" || status == "Hypertension Stage 2" {
		return 1
	}
	return 0
}

func heartDiseaseFlag(answer string) int {
	if answer == "Yes" {
		return 1
	}
	return 0
}

func smokingOrDefault(answer string) string {
	for _, v := range screening.SmokingHistoryAnswers {
		if v == answer {
			return answer
		}
	}
	return "No Info"
}
