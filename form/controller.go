// Package form implements the evaluation form's actions: save, delete
// and visualize, plus the table refresh that follows them.
package form

import (
	"errors"
	"fmt"
	"time"

	"studenteval/db"
	"studenteval/evaluation"
	"studenteval/ml"
	"studenteval/monitoring"
	"studenteval/visualize"

	"go.uber.org/zap"
)

// Store is the subset of the record store the controller uses.
type Store interface {
	Create(rec evaluation.Record) (int64, error)
	ListAll() ([]evaluation.Record, error)
	Delete(id int64) error
}

// Presenter displays controller outcomes. Every method is called
// synchronously from the action that produced it.
type Presenter interface {
	ShowInfo(title, message string)
	ShowError(title, message string)
	ShowRecords(records []evaluation.Record)
	ShowChart(png []byte)
	ClearForm()
}

type Controller struct {
	store    Store
	trainer  ml.Trainer
	state    *State
	view     Presenter
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	chart    visualize.Options
	onChange func(monitoring.ChangeEvent)
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithChartOptions(opts visualize.Options) Option {
	return func(c *Controller) { c.chart = opts }
}

// WithChangeHook registers fn to run after every successful create or delete.
func WithChangeHook(fn func(monitoring.ChangeEvent)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(store Store, trainer ml.Trainer, state *State, opts ...Option) *Controller {
	if state == nil {
		state = NewState()
	}
	c := &Controller{
		store:   store,
		trainer: trainer,
		state:   state,
		view:    nopPresenter{},
		logger:  zap.NewNop(),
		chart:   visualize.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach sets the presenter used by the UI actions.
func (c *Controller) Attach(view Presenter) {
	if view == nil {
		view = nopPresenter{}
	}
	c.view = view
}

func (c *Controller) State() *State {
	return c.state
}

// Evaluate trains on every stored record, labels in and persists it.
// With nothing to train on the record gets evaluation.DefaultLabel.
func (c *Controller) Evaluate(in Input) (evaluation.Record, error) {
	if err := validate.Struct(in); err != nil {
		return evaluation.Record{}, &InputError{Message: "Please enter the student's name."}
	}

	records, err := c.store.ListAll()
	if err != nil {
		return evaluation.Record{}, fmt.Errorf("load training records: %w", err)
	}

	start := time.Now()
	model, err := c.trainer.Train(records)
	c.metrics.Trained(time.Since(start))
	if err != nil {
		return evaluation.Record{}, err
	}

	result := evaluation.DefaultLabel
	if model == nil {
		c.metrics.ColdStart()
	} else {
		result, err = ml.Predict(model, in.Scores)
		if err != nil {
			return evaluation.Record{}, fmt.Errorf("predict: %w", err)
		}
	}

	rec := evaluation.Record{
		StudentName: in.StudentName,
		Scores:      in.Scores,
		Result:      result,
	}
	id, err := c.store.Create(rec)
	if err != nil {
		return evaluation.Record{}, fmt.Errorf("save evaluation: %w", err)
	}
	rec.ID = id

	c.metrics.Saved(result.String())
	c.logger.Info("evaluation saved",
		zap.Int64("id", id),
		zap.String("student", rec.StudentName),
		zap.String("result", result.String()),
		zap.Int("training_records", len(records)),
		zap.Bool("cold_start", model == nil))
	c.notify(monitoring.ChangeEvent{Action: "created", RecordID: id, Result: result.String()})
	return rec, nil
}

// Remove deletes one record. A missing id yields db.ErrNotFound.
func (c *Controller) Remove(id int64) error {
	if err := c.store.Delete(id); err != nil {
		return err
	}
	c.metrics.Deleted()
	c.logger.Info("evaluation deleted", zap.Int64("id", id))
	c.notify(monitoring.ChangeEvent{Action: "deleted", RecordID: id})
	return nil
}

func (c *Controller) Records() ([]evaluation.Record, error) {
	records, err := c.store.ListAll()
	if err != nil {
		return nil, err
	}
	c.metrics.Records(len(records))
	return records, nil
}

// Chart renders the current label distribution. An empty store yields
// visualize.ErrNoData.
func (c *Controller) Chart() ([]byte, error) {
	records, err := c.Records()
	if err != nil {
		return nil, err
	}
	return visualize.Render(records, c.chart)
}

// Save is the "Evaluate & Save" action.
func (c *Controller) Save() error {
	in, err := ParseInput(c.state.Fields())
	if err != nil {
		c.metrics.InputError()
		c.view.ShowError("Input Error", userMessage(err))
		return err
	}

	rec, err := c.Evaluate(in)
	if err != nil {
		c.logger.Error("save failed", zap.Error(err))
		c.view.ShowError("Error", userMessage(err))
		return err
	}

	c.view.ShowInfo("Evaluation Result", fmt.Sprintf("Student: %s\nPerformance: %s", rec.StudentName, rec.Result))
	c.state.ClearFields()
	c.view.ClearForm()
	return c.Refresh()
}

// Delete is the "Delete Record" action for the selected row.
func (c *Controller) Delete() error {
	id, ok := c.state.Selected()
	if !ok {
		c.view.ShowError("Error", "Please select a record to delete.")
		return ErrNoSelection
	}

	if err := c.Remove(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.view.ShowError("Error", fmt.Sprintf("Record %d no longer exists.", id))
		} else {
			c.logger.Error("delete failed", zap.Int64("id", id), zap.Error(err))
			c.view.ShowError("Error", err.Error())
		}
		if rerr := c.Refresh(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	c.view.ShowInfo("Success", "Record deleted successfully.")
	return c.Refresh()
}

// Visualize is the "Visualize Data" action.
func (c *Controller) Visualize() error {
	payload, err := c.Chart()
	if errors.Is(err, visualize.ErrNoData) {
		c.view.ShowInfo("No Data", "No student data available to visualize.")
		return nil
	}
	if err != nil {
		c.logger.Error("visualize failed", zap.Error(err))
		c.view.ShowError("Error", err.Error())
		return err
	}
	c.view.ShowChart(payload)
	return nil
}

// Refresh reloads the table and drops the selection.
func (c *Controller) Refresh() error {
	records, err := c.Records()
	if err != nil {
		c.logger.Error("refresh failed", zap.Error(err))
		c.view.ShowError("Error", err.Error())
		return err
	}
	c.state.ClearSelection()
	c.view.ShowRecords(records)
	return nil
}

func (c *Controller) notify(event monitoring.ChangeEvent) {
	if c.onChange != nil {
		c.onChange(event)
	}
}

func userMessage(err error) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	return err.Error()
}

type nopPresenter struct{}

func (nopPresenter) ShowInfo(string, string) {}
func (nopPresenter) ShowError(string, string) {}
func (nopPresenter) ShowRecords([]evaluation.Record) {}
func (nopPresenter) ShowChart([]byte) {}
func (nopPresenter) ClearForm() {}
