package ui

import (
	"strconv"

	"studenteval/evaluation"
)

var columns = []string{"ID", "Name", "Attendance", "Classwork", "Socialization", "Neatness", "Result"}

// cellText returns the text for a table cell. Row 0 is the header row.
func cellText(rows []evaluation.Record, row, col int) string {
	if col < 0 || col >= len(columns) {
		return ""
	}
	if row == 0 {
		return columns[col]
	}
	idx := row - 1
	if idx < 0 || idx >= len(rows) {
		return ""
	}
	r := rows[idx]
	switch col {
	case 0:
		return strconv.FormatInt(r.ID, 10)
	case 1:
		return r.StudentName
	case 2:
		return strconv.Itoa(r.Attendance)
	case 3:
		return strconv.Itoa(r.Classwork)
	case 4:
		return strconv.Itoa(r.Socialization)
	case 5:
		return strconv.Itoa(r.Neatness)
	case 6:
		return r.Result.String()
	}
	return ""
}
