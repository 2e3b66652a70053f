// Package evaluation holds the student evaluation record and its label set.
package evaluation

// FeatureCount is the width of a Scores feature vector.
const FeatureCount = 4

// Scores are the four graded dimensions, each intended to lie in 0-100.
type Scores struct {
	Attendance    int `db:"attendance" json:"attendance"`
	Classwork     int `db:"classwork" json:"classwork"`
	Socialization int `db:"socialization" json:"socialization"`
	Neatness      int `db:"neatness" json:"neatness"`
}

// Vector returns the scores in classifier feature order.
func (s Scores) Vector() []float64 {
	return []float64{
		float64(s.Attendance),
		float64(s.Classwork),
		float64(s.Socialization),
		float64(s.Neatness),
	}
}

// Record is one persisted evaluation. Records are never updated in place.
type Record struct {
	ID          int64  `db:"id" json:"id"`
	StudentName string `db:"student_name" json:"student_name"`
	Scores
	Result Label `db:"evaluation_result" json:"evaluation_result"`
}
