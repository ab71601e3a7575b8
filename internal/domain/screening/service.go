package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// UnknownGlucoseMode selects what happens when neither a specimen type nor
// an inline qualifier identifies the glucose reading.
type UnknownGlucoseMode string

const (
	// AssumeFasting keeps the category Unknown and classifies against the
	// fasting bands with an annotated status.
	AssumeFasting UnknownGlucoseMode = "assume_fasting"
	// DefaultRandom coerces every unlabeled reading to the Random category.
	DefaultRandom UnknownGlucoseMode = "random"
)

// BloodPressureMode selects how strictly the blood pressure locator matches.
type BloodPressureMode string

const (
	// LabeledOnly requires the full "blood pressure ... mmHg" form.
	LabeledOnly BloodPressureMode = "labeled"
	// BareNumericFallback additionally accepts any NNN/NNN pair when the
	// labeled form is absent.
	BareNumericFallback BloodPressureMode = "bare_fallback"
)

// Policy carries the named extraction toggles that distinguish the
// supported report-format variants.
type Policy struct {
	UnknownGlucose UnknownGlucoseMode
	BloodPressure  BloodPressureMode
}

// DefaultPolicy is the strict variant: unlabeled glucose is flagged rather
// than silently categorized, and blood pressure must be explicitly labeled.
func DefaultPolicy() Policy {
	return Policy{UnknownGlucose: AssumeFasting, BloodPressure: LabeledOnly}
}

// Validate rejects unknown toggle values.
func (p Policy) Validate() error {
	switch p.UnknownGlucose {
	case AssumeFasting, DefaultRandom:
	default:
		return fmt.Errorf("screening: unknown glucose mode %q", p.UnknownGlucose)
	}
	switch p.BloodPressure {
	case LabeledOnly, BareNumericFallback:
	default:
		return fmt.Errorf("screening: unknown blood pressure mode %q", p.BloodPressure)
	}
	return nil
}

var (
	// ErrEmptyDocument means the document text was empty or whitespace-only
	// after extraction; no diagnosis record is produced.
	ErrEmptyDocument = errors.New("screening: no extractable text in document")
	// ErrInvalidInput means a declared input is outside its accepted set.
	ErrInvalidInput = errors.New("screening: invalid declared input")
)

// HeartDiseaseAnswers and SmokingHistoryAnswers are the accepted values of
// the two declared inputs.
var (
	HeartDiseaseAnswers   = []string{"Yes", "No"}
	SmokingHistoryAnswers = []string{"No Info", "never", "former", "current", "not current"}
)

// Analyzer runs the full extraction and classification pipeline. It is
// stateless between calls: every invocation builds its own record, so one
// Analyzer is safely shared by concurrent requests.
type Analyzer struct {
	policy Policy
	repo   AnalysisRepository
	logger zerolog.Logger
}

// NewAnalyzer creates an Analyzer with the given policy. repo may be nil
// when analyses should not be retained.
func NewAnalyzer(policy Policy, repo AnalysisRepository, logger zerolog.Logger) (*Analyzer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{policy: policy, repo: repo, logger: logger}, nil
}

// Policy returns the analyzer's extraction policy.
func (a *Analyzer) Policy() Policy { return a.policy }

// Analyze extracts every clinical field it can locate in text, classifies
// each against its reference scale and aggregates the overall verdict. A
// locator finding nothing leaves its key out of the record; one field's
// absence never prevents classification of the others.
func (a *Analyzer) Analyze(ctx context.Context, text string, in DeclaredInputs) (*Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}
	if err := validateInputs(in); err != nil {
		return nil, err
	}

	rec := DiagnosisRecord{}
	a.addDeclared(rec, in)
	a.addAge(rec, text)
	a.addSex(rec, text)
	a.addBMI(rec, text)
	a.addBloodPressure(rec, text)
	a.addGlucose(rec, text)
	a.addHbA1c(rec, text)

	analysis := &Analysis{
		HeartDisease:   in.HeartDisease,
		SmokingHistory: in.SmokingHistory,
		Record:         rec,
		Verdict:        Aggregate(rec),
	}

	if a.repo != nil {
		if err := a.repo.Create(ctx, analysis); err != nil {
			return nil, fmt.Errorf("store analysis: %w", err)
		}
	}

	evt := a.logger.Info().Int("fields", len(rec))
	if analysis.Verdict != nil {
		evt = evt.Str("verdict", analysis.Verdict.Label)
	}
	evt.Msg("analysis complete")

	return analysis, nil
}

func validateInputs(in DeclaredInputs) error {
	if in.HeartDisease != "" && !contains(HeartDiseaseAnswers, in.HeartDisease) {
		return fmt.Errorf("%w: heart_disease %q", ErrInvalidInput, in.HeartDisease)
	}
	if in.SmokingHistory != "" && !contains(SmokingHistoryAnswers, in.SmokingHistory) {
		return fmt.Errorf("%w: smoking_history %q", ErrInvalidInput, in.SmokingHistory)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// addDeclared records the patient-declared answers. They are present
// whenever supplied, independent of what the document contains.
func (a *Analyzer) addDeclared(rec DiagnosisRecord, in DeclaredInputs) {
	if in.HeartDisease != "" {
		status, severity := ClassifyHeartDisease(in.HeartDisease)
		rec[FieldHeartDisease] = FieldResult{
			Kind:     FieldHeartDisease,
			Display:  in.HeartDisease,
			Status:   status,
			Severity: severity,
		}
	}
	if in.SmokingHistory != "" {
		status, severity, ok := ClassifySmokingHistory(in.SmokingHistory)
		if !ok {
			return
		}
		rec[FieldSmokingHistory] = FieldResult{
			Kind:     FieldSmokingHistory,
			Display:  in.SmokingHistory,
			Status:   status,
			Severity: severity,
		}
	}
}

func (a *Analyzer) addAge(rec DiagnosisRecord, text string) {
	m, ok := locateAge(text)
	if !ok {
		return
	}
	rec[FieldAge] = FieldResult{
		Kind:     FieldAge,
		Display:  trimFloat(m.Value),
		Unit:     "Years",
		Severity: SeverityNeutral,
		Value:    ptrFloat(m.Value),
	}
}

func (a *Analyzer) addSex(rec DiagnosisRecord, text string) {
	m, ok := locateSex(text)
	if !ok {
		return
	}
	rec[FieldSex] = FieldResult{
		Kind:     FieldSex,
		Display:  m.Text,
		Severity: SeverityNeutral,
	}
}

func (a *Analyzer) addBMI(rec DiagnosisRecord, text string) {
	m, ok := locateBMI(text)
	if !ok {
		return
	}
	status, severity := ClassifyBMI(m.Value)
	rec[FieldBMI] = FieldResult{
		Kind:     FieldBMI,
		Display:  trimFloat(m.Value),
		Unit:     "kg/m²",
		Status:   status,
		Severity: severity,
		Value:    ptrFloat(m.Value),
	}
}

func (a *Analyzer) addBloodPressure(rec DiagnosisRecord, text string) {
	m, ok := locateBloodPressure(text, a.policy.BloodPressure == BareNumericFallback)
	if !ok {
		return
	}
	sys, dia := int(m.Value), int(m.Second)
	status, severity := ClassifyBloodPressure(sys, dia)
	rec[FieldHypertension] = FieldResult{
		Kind:      FieldHypertension,
		Display:   fmt.Sprintf("%d/%d", sys, dia),
		Unit:      "mmHg",
		Status:    status,
		Severity:  severity,
		Systolic:  ptrInt(sys),
		Diastolic: ptrInt(dia),
	}
}

func (a *Analyzer) addGlucose(rec DiagnosisRecord, text string) {
	m, ok := locateGlucose(text)
	if !ok {
		return
	}

	// Specimen type declared anywhere in the report overrides the inline
	// qualifier next to the reading.
	category, found := locateSpecimenType(text, a.policy.UnknownGlucose == DefaultRandom)
	if !found {
		switch {
		case m.Qualifier != "":
			category = capitalize(m.Qualifier)
		case a.policy.UnknownGlucose == DefaultRandom:
			category = "Random"
		default:
			category = "Unknown"
		}
	}

	mmol, mg := NormalizeGlucose(m.Value, m.Unit)
	status, severity := ClassifyGlucose(mmol, category)
	rec[FieldGlucose] = FieldResult{
		Kind:     FieldGlucose,
		Display:  fmt.Sprintf("%.1f mmol/L / %.1f mg/dL", mmol, mg),
		Category: category,
		Status:   status,
		Severity: severity,
		MmolL:    ptrFloat(mmol),
		MgDL:     ptrFloat(mg),
	}
}

func (a *Analyzer) addHbA1c(rec DiagnosisRecord, text string) {
	m, ok := locateHbA1c(text)
	if !ok {
		return
	}
	percent, mmolMol := NormalizeHbA1c(m.Value, m.Unit)
	status, severity := ClassifyHbA1c(percent)
	rec[FieldHbA1c] = FieldResult{
		Kind:     FieldHbA1c,
		Display:  fmt.Sprintf("%.1f%% / %.0f mmol/mol", percent, mmolMol),
		Status:   status,
		Severity: severity,
		Percent:  ptrFloat(percent),
		MmolMol:  ptrFloat(mmolMol),
	}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s
}
