package form

// Field names one of the five text entries.
type Field int

const (
	FieldName Field = iota
	FieldAttendance
	FieldClasswork
	FieldSocialization
	FieldNeatness
)

// Fields is the raw text of the form entries.
type Fields struct {
	Name          string
	Attendance    string
	Classwork     string
	Socialization string
	Neatness      string
}

// State is the form's current input and table selection. The view
// writes into it as the user types or selects; the controller reads it.
type State struct {
	fields   Fields
	selected int64
	hasSel   bool
}

func NewState() *State {
	return &State{}
}

func (s *State) Fields() Fields {
	return s.fields
}

func (s *State) SetFields(f Fields) {
	s.fields = f
}

func (s *State) Set(field Field, value string) {
	switch field {
	case FieldName:
		s.fields.Name = value
	case FieldAttendance:
		s.fields.Attendance = value
	case FieldClasswork:
		s.fields.Classwork = value
	case FieldSocialization:
		s.fields.Socialization = value
	case FieldNeatness:
		s.fields.Neatness = value
	}
}

func (s *State) Get(field Field) string {
	switch field {
	case FieldName:
		return s.fields.Name
	case FieldAttendance:
		return s.fields.Attendance
	case FieldClasswork:
		return s.fields.Classwork
	case FieldSocialization:
		return s.fields.Socialization
	case FieldNeatness:
		return s.fields.Neatness
	}
	return ""
}

func (s *State) ClearFields() {
	s.fields = Fields{}
}

// Select marks the record with id as the selected table row.
func (s *State) Select(id int64) {
	s.selected = id
	s.hasSel = true
}

func (s *State) ClearSelection() {
	s.selected = 0
	s.hasSel = false
}

// Selected returns the selected record id, if any.
func (s *State) Selected() (int64, bool) {
	return s.selected, s.hasSel
}
