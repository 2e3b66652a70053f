package form

import (
	"errors"
	"path/filepath"
	"testing"

	"studenteval/db"
	"studenteval/evaluation"
	"studenteval/ml"
	"studenteval/monitoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialog struct {
	title   string
	message string
}

type fakeView struct {
	infos   []dialog
	errors  []dialog
	rows    []evaluation.Record
	charts  [][]byte
	cleared int
}

func (v *fakeView) ShowInfo(title, message string) { v.infos = append(v.infos, dialog{title, message}) }
func (v *fakeView) ShowError(title, message string) { v.errors = append(v.errors, dialog{title, message}) }
func (v *fakeView) ShowRecords(records []evaluation.Record) {
	v.rows = records
}
func (v *fakeView) ShowChart(png []byte) { v.charts = append(v.charts, png) }
func (v *fakeView) ClearForm() { v.cleared++ }

func newTestController(t *testing.T, opts ...Option) (*Controller, *db.Store, *fakeView) {
	t.Helper()
	store, err := db.NewStore(filepath.Join(t.TempDir(), "eval.db"))
	require.NoError(t, err)
	c := NewController(store, ml.NewTreeTrainer(0, nil), NewState(), opts...)
	view := &fakeView{}
	c.Attach(view)
	return c, store, view
}

func fill(c *Controller, name, a, cw, s, n string) {
	c.State().SetFields(Fields{Name: name, Attendance: a, Classwork: cw, Socialization: s, Neatness: n})
}

func TestSaveOnEmptyStoreUsesColdStartLabel(t *testing.T) {
	c, store, view := newTestController(t)

	fill(c, "Alice", "90", "85", "70", "95")
	require.NoError(t, c.Save())

	records, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].StudentName)
	assert.Equal(t, evaluation.Scores{Attendance: 90, Classwork: 85, Socialization: 70, Neatness: 95}, records[0].Scores)
	assert.Equal(t, evaluation.NeedsImprovement, records[0].Result)

	require.Len(t, view.infos, 1)
	assert.Equal(t, "Evaluation Result", view.infos[0].title)
	assert.Equal(t, "Student: Alice\nPerformance: Needs Improvement", view.infos[0].message)
	assert.Len(t, view.rows, 1)
	assert.Equal(t, 1, view.cleared)
	assert.Equal(t, Fields{}, c.State().Fields())
}

func TestColdStartIgnoresScores(t *testing.T) {
	for _, scores := range [][4]string{{"0", "0", "0", "0"}, {"100", "100", "100", "100"}, {"-5", "250", "42", "7"}} {
		c, store, _ := newTestController(t)
		fill(c, "Bob", scores[0], scores[1], scores[2], scores[3])
		require.NoError(t, c.Save())

		records, err := store.ListAll()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, evaluation.NeedsImprovement, records[0].Result)
	}
}

func TestSaveTrainsOnExistingRecords(t *testing.T) {
	c, store, _ := newTestController(t)
	for _, rec := range []evaluation.Record{
		{StudentName: "Low", Scores: evaluation.Scores{Attendance: 20, Classwork: 20, Socialization: 20, Neatness: 20}, Result: evaluation.NeedsImprovement},
		{StudentName: "High", Scores: evaluation.Scores{Attendance: 95, Classwork: 95, Socialization: 95, Neatness: 95}, Result: evaluation.Excellent},
		{StudentName: "Mid", Scores: evaluation.Scores{Attendance: 60, Classwork: 65, Socialization: 62, Neatness: 58}, Result: evaluation.Good},
	} {
		_, err := store.Create(rec)
		require.NoError(t, err)
	}

	fill(c, "Carol", "93", "97", "90", "96")
	require.NoError(t, c.Save())

	records, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	saved := records[3]
	assert.Equal(t, "Carol", saved.StudentName)
	assert.Contains(t, evaluation.Labels(), saved.Result)
}

func TestSaveStoresNameAsTyped(t *testing.T) {
	c, store, _ := newTestController(t)

	fill(c, "  Alice ", "90", "85", "70", "95")
	require.NoError(t, c.Save())

	records, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "  Alice ", records[0].StudentName)
	assert.Equal(t, evaluation.Scores{Attendance: 90, Classwork: 85, Socialization: 70, Neatness: 95}, records[0].Scores)
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	cases := map[string]Fields{
		"empty name":       {Name: "", Attendance: "1", Classwork: "2", Socialization: "3", Neatness: "4"},
		"non integer":      {Name: "Dan", Attendance: "ninety", Classwork: "2", Socialization: "3", Neatness: "4"},
		"decimal":          {Name: "Dan", Attendance: "1", Classwork: "2.5", Socialization: "3", Neatness: "4"},
		"missing neatness": {Name: "Dan", Attendance: "1", Classwork: "2", Socialization: "3", Neatness: ""},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			c, store, view := newTestController(t)
			c.State().SetFields(fields)

			err := c.Save()
			assert.ErrorIs(t, err, ErrInput)
			require.Len(t, view.errors, 1)
			assert.Equal(t, "Input Error", view.errors[0].title)
			assert.Empty(t, view.infos)
			assert.Equal(t, fields, c.State().Fields())

			records, err := store.ListAll()
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestDeleteWithoutSelection(t *testing.T) {
	c, _, view := newTestController(t)
	err := c.Delete()
	assert.ErrorIs(t, err, ErrNoSelection)
	require.Len(t, view.errors, 1)
	assert.Equal(t, dialog{"Error", "Please select a record to delete."}, view.errors[0])
}

func TestDeleteSelectedRecord(t *testing.T) {
	c, store, view := newTestController(t)
	fill(c, "Eve", "50", "50", "50", "50")
	require.NoError(t, c.Save())
	fill(c, "Frank", "60", "60", "60", "60")
	require.NoError(t, c.Save())

	records, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	c.State().Select(records[0].ID)
	require.NoError(t, c.Delete())

	after, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, records[1].ID, after[0].ID)
	assert.Equal(t, dialog{"Success", "Record deleted successfully."}, view.infos[len(view.infos)-1])
	_, selected := c.State().Selected()
	assert.False(t, selected)
	assert.Len(t, view.rows, 1)
}

func TestDeleteMissingRecordLeavesStoreUnchanged(t *testing.T) {
	c, store, view := newTestController(t)
	fill(c, "Gina", "70", "70", "70", "70")
	require.NoError(t, c.Save())

	c.State().Select(4242)
	err := c.Delete()
	assert.ErrorIs(t, err, db.ErrNotFound)
	require.NotEmpty(t, view.errors)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVisualize(t *testing.T) {
	c, _, view := newTestController(t)

	require.NoError(t, c.Visualize())
	assert.Equal(t, []dialog{{"No Data", "No student data available to visualize."}}, view.infos)
	assert.Empty(t, view.charts)

	fill(c, "Hank", "10", "20", "30", "40")
	require.NoError(t, c.Save())
	require.NoError(t, c.Visualize())
	require.Len(t, view.charts, 1)
	assert.NotEmpty(t, view.charts[0])
}

func TestEvaluateRequiresName(t *testing.T) {
	c, _, _ := newTestController(t)
	_, err := c.Evaluate(Input{StudentName: ""})
	assert.ErrorIs(t, err, ErrInput)
}

func TestChangeHookFiresOnWrites(t *testing.T) {
	var events []monitoring.ChangeEvent
	c, _, _ := newTestController(t, WithChangeHook(func(e monitoring.ChangeEvent) {
		events = append(events, e)
	}))

	rec, err := c.Evaluate(Input{StudentName: "Ivy", Scores: evaluation.Scores{Attendance: 1, Classwork: 2, Socialization: 3, Neatness: 4}})
	require.NoError(t, err)
	require.NoError(t, c.Remove(rec.ID))
	assert.True(t, errors.Is(c.Remove(rec.ID), db.ErrNotFound))

	require.Len(t, events, 2)
	assert.Equal(t, "created", events[0].Action)
	assert.Equal(t, rec.ID, events[0].RecordID)
	assert.Equal(t, "deleted", events[1].Action)
}

type failingTrainer struct{}

func (failingTrainer) Train([]evaluation.Record) (ml.Classifier, error) {
	return nil, errors.New("boom")
}

func TestSaveTrainerFailureAbortsWithoutWrite(t *testing.T) {
	store, err := db.NewStore(filepath.Join(t.TempDir(), "eval.db"))
	require.NoError(t, err)
	c := NewController(store, failingTrainer{}, nil)
	view := &fakeView{}
	c.Attach(view)

	fill(c, "Jack", "1", "2", "3", "4")
	assert.Error(t, c.Save())
	require.Len(t, view.errors, 1)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

// brokenStore fails every call with err.
type brokenStore struct {
	err error
}

func (s *brokenStore) Create(evaluation.Record) (int64, error) { return 0, s.err }
func (s *brokenStore) ListAll() ([]evaluation.Record, error) { return nil, s.err }
func (s *brokenStore) Delete(int64) error { return s.err }

func TestDeleteReportsRefreshFailure(t *testing.T) {
	deleteErr := errors.New("disk I/O error")
	c := NewController(&brokenStore{err: deleteErr}, ml.NewTreeTrainer(0, nil), NewState())
	view := &fakeView{}
	c.Attach(view)
	c.State().Select(7)

	err := c.Delete()
	require.Error(t, err)
	assert.ErrorIs(t, err, deleteErr)
	assert.Len(t, view.errors, 2)
	assert.Empty(t, view.infos)
}
