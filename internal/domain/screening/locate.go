package screening

import (
	"regexp"
	"strconv"
	"strings"
)

// numberExpr matches an integer or decimal value token.
const numberExpr = `\d+(?:\.\d+)?`

// fieldPattern declares how one clinical field appears in free text: a set
// of label synonyms, an optional separator, a value shape and optional unit
// tokens. Adding a new label synonym means editing the table below, not the
// matching code.
type fieldPattern struct {
	qualifiers []string // context words captured directly before the label
	labels     []string
	value      string
	units      []string
	unitNeeded bool // the match is rejected when the unit is missing
}

// compile builds the case-insensitive pattern. Group layout: qualifier (when
// declared), then the value group, then the unit group (when declared). The
// blood pressure value shape contributes its own systolic/diastolic groups.
func (p fieldPattern) compile() *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?i)`)
	if len(p.qualifiers) > 0 {
		b.WriteString(`(` + strings.Join(p.qualifiers, "|") + `)?\s*`)
	}
	b.WriteString(`\b(?:` + strings.Join(p.labels, "|") + `)`)
	b.WriteString(`\s*[:=]?\s*`)
	b.WriteString(`(` + p.value + `)`)
	if len(p.units) > 0 {
		unit := `(` + strings.Join(p.units, "|") + `)`
		if p.unitNeeded {
			b.WriteString(`\s*` + unit)
		} else {
			b.WriteString(`\s*` + unit + `?`)
		}
	}
	return regexp.MustCompile(b.String())
}

var (
	ageRe = fieldPattern{
		labels: []string{"age"},
		value:  numberExpr,
		units:  []string{"years"},
	}.compile()

	sexRe = fieldPattern{
		labels: []string{"sex", "gender"},
		value:  `male|female|m|f`,
	}.compile()

	bmiRe = fieldPattern{
		labels: []string{"bmi", "body mass index"},
		value:  numberExpr,
		units:  []string{`kg/m²`, `kg/sqm`},
	}.compile()

	bpLabeledRe = fieldPattern{
		labels:     []string{"blood pressure"},
		value:      `(\d+)\s*/\s*(\d+)`,
		units:      []string{"mmhg"},
		unitNeeded: true,
	}.compile()

	// Loose fallback for reports that print the reading without a label.
	bpBareRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

	glucoseRe = fieldPattern{
		qualifiers: []string{"fasting", "random"},
		labels:     []string{"glucose", "blood sugar", "fasting blood glucose", "fbs", "random blood glucose", "rbs"},
		value:      numberExpr,
		units:      []string{`mmol/l`, `mg/dl`},
	}.compile()

	hba1cRe = fieldPattern{
		labels: []string{"hba1c", "a1c", "glycosylated hemoglobin"},
		value:  numberExpr,
		units:  []string{`%`, `mmol/mol`},
	}.compile()

	specimenRe = fieldPattern{
		labels: []string{"specimen type"},
		value:  `fasting|random`,
	}.compile()

	// Variant with an optional label that also accepts bare tokens;
	// "normal" is coerced to Random by the caller.
	specimenBareRe = regexp.MustCompile(`(?i)\b(?:specimen\s*type\s*[:=]?\s*)?\b(fasting|random|normal)\b`)
)

// Each locator scans the whole document and returns only the first match in
// document order. A false return means the field is absent from the report,
// which is normal, not an error.

func locateAge(text string) (RawMatch, bool) {
	m := ageRe.FindStringSubmatch(text)
	if m == nil {
		return RawMatch{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return RawMatch{}, false
	}
	return RawMatch{Kind: FieldAge, Value: v, Unit: strings.ToLower(m[2])}, true
}

func locateSex(text string) (RawMatch, bool) {
	m := sexRe.FindStringSubmatch(text)
	if m == nil {
		return RawMatch{}, false
	}
	var sex string
	switch strings.ToLower(m[1]) {
	case "m", "male":
		sex = "Male"
	case "f", "female":
		sex = "Female"
	}
	return RawMatch{Kind: FieldSex, Text: sex}, true
}

func locateBMI(text string) (RawMatch, bool) {
	m := bmiRe.FindStringSubmatch(text)
	if m == nil {
		return RawMatch{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return RawMatch{}, false
	}
	// The unit is ignored: BMI is always kg/m².
	return RawMatch{Kind: FieldBMI, Value: v}, true
}

// locateBloodPressure requires the "blood pressure ... mmHg" label+unit
// combination. When allowBare is set and the labeled pattern finds nothing,
// any systolic/diastolic looking pair is accepted instead.
func locateBloodPressure(text string, allowBare bool) (RawMatch, bool) {
	m := bpLabeledRe.FindStringSubmatch(text)
	// Group layout: 1 = full pair, 2 = systolic, 3 = diastolic, 4 = unit.
	sysIdx, diaIdx := 2, 3
	if m == nil {
		if !allowBare {
			return RawMatch{}, false
		}
		m = bpBareRe.FindStringSubmatch(text)
		if m == nil {
			return RawMatch{}, false
		}
		sysIdx, diaIdx = 1, 2
	}
	sys, err := strconv.Atoi(m[sysIdx])
	if err != nil {
		return RawMatch{}, false
	}
	dia, err := strconv.Atoi(m[diaIdx])
	if err != nil {
		return RawMatch{}, false
	}
	return RawMatch{Kind: FieldHypertension, Value: float64(sys), Second: float64(dia)}, true
}

func locateGlucose(text string) (RawMatch, bool) {
	m := glucoseRe.FindStringSubmatch(text)
	if m == nil {
		return RawMatch{}, false
	}
	// Group layout: 1 = qualifier, 2 = value, 3 = unit.
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return RawMatch{}, false
	}
	return RawMatch{
		Kind:      FieldGlucose,
		Value:     v,
		Unit:      strings.ToLower(m[3]),
		Qualifier: strings.ToLower(m[1]),
	}, true
}

func locateHbA1c(text string) (RawMatch, bool) {
	m := hba1cRe.FindStringSubmatch(text)
	if m == nil {
		return RawMatch{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return RawMatch{}, false
	}
	return RawMatch{Kind: FieldHbA1c, Value: v, Unit: strings.ToLower(m[2])}, true
}

// locateSpecimenType returns the authoritative glucose category declared in
// the report ("Fasting" or "Random"). With bareTokens the looser variant is
// used, which also accepts standalone fasting/random/normal tokens and maps
// "normal" to Random.
func locateSpecimenType(text string, bareTokens bool) (string, bool) {
	re := specimenRe
	if bareTokens {
		re = specimenBareRe
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	category := capitalize(m[1])
	if category == "Normal" {
		category = "Random"
	}
	return category, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
