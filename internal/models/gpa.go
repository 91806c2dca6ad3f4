package models

// GradedCredit is one graded course as seen by the GPA calculation.
type GradedCredit struct {
	Grade   float64
	Credits int
}

// GradePoints converts a numeric grade into grade points using the scale of the
// student variant. Graduate students have no 1.0 tier.
func (t StudentType) GradePoints(grade float64) float64 {
	switch {
	case grade >= 90:
		return 4.0
	case grade >= 80:
		return 3.0
	case grade >= 70:
		return 2.0
	case grade >= 60 && t == StudentTypeUndergraduate:
		return 1.0
	default:
		return 0.0
	}
}

// CalculateGPA returns the credit-weighted grade point average for the
// variant, or 0 when nothing is graded.
func CalculateGPA(t StudentType, graded []GradedCredit) float64 {
	var points float64
	var credits int
	for _, g := range graded {
		points += t.GradePoints(g.Grade) * float64(g.Credits)
		credits += g.Credits
	}
	if credits == 0 {
		return 0
	}
	return points / float64(credits)
}
