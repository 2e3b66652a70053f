package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"studenteval/evaluation"
	"studenteval/form"
	qhttp "studenteval/http"
	"studenteval/ml"
	"studenteval/monitoring"
	"studenteval/ui"
	"studenteval/visualize"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) runDesktop() error {
	stop := a.watchConfig()
	defer stop()

	controller, err := a.controller()
	if err != nil {
		return err
	}
	fa := fyneapp.NewWithID("studenteval")
	w := ui.New(fa, controller, ui.Options{
		Width:       a.config.UI.Width,
		Height:      a.config.UI.Height,
		ChartWidth:  float32(a.config.Chart.Width),
		ChartHeight: float32(a.config.Chart.Height),
	}, a.logger.Named("ui"))
	a.logger.Info("desktop window opened", zap.String("database", a.store.Path()))
	w.ShowAndRun()
	return nil
}

func newServeCommand(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation form as a local JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := a.watchConfig()
			defer stop()

			hub := monitoring.NewWebSocketHub(a.logger.Named("ws"))
			go hub.Start()
			defer hub.Stop()

			controller, err := a.controller(form.WithChangeHook(func(e monitoring.ChangeEvent) {
				if err := hub.Publish(monitoring.RecordsChanged, e); err != nil {
					a.logger.Warn("publish change failed", zap.Error(err))
				}
			}))
			if err != nil {
				return err
			}

			cfg := qhttp.DefaultServerConfig()
			cfg.Port = a.config.Http.Port
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			cfg.Timeout = durationOr(a.config.Http.Timeout, cfg.Timeout)

			server := qhttp.NewServer(cfg, qhttp.NewHandler(controller, hub, a.logger.Named("http")), a.registry, a.logger.Named("http"))
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}
			return server.Stop()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (overrides http.port)")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.ListAll()
			if err != nil {
				return err
			}
			total, err := a.store.Count()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
			fmt.Fprintf(cmd.OutOrStdout(), "%d records\n", total)
			return nil
		},
	}
}

func renderRecords(records []evaluation.Record) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Attendance", "Classwork", "Socialization", "Neatness", "Result").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range records {
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.StudentName,
			strconv.Itoa(r.Attendance),
			strconv.Itoa(r.Classwork),
			strconv.Itoa(r.Socialization),
			strconv.Itoa(r.Neatness),
			r.Result.String(),
		)
	}
	return t.Render()
}

func newChartCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the result distribution as a PNG bar chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.ListAll()
			if err != nil {
				return err
			}
			payload, err := visualize.Render(records, visualize.Options{
				Width:  a.config.Chart.Width,
				Height: a.config.Chart.Height,
			})
			if errors.Is(err, visualize.ErrNoData) {
				fmt.Fprintln(cmd.OutOrStdout(), "No student data available to visualize.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "evaluation_results.png", "PNG output path")
	return cmd
}

func newTrainCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the classifier on all records and save it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			trainer, err := a.trainer()
			if err != nil {
				return err
			}
			records, err := a.store.ListAll()
			if err != nil {
				return err
			}
			fitted, err := trainer.Train(records)
			if err != nil {
				return err
			}
			if fitted == nil {
				return errors.New("no records to train on")
			}
			model, ok := fitted.(*ml.DecisionTree)
			if !ok {
				return fmt.Errorf("trainer returned %T, want *ml.DecisionTree", fitted)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := model.Save(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "model trained on %d records (%d nodes, depth %d) saved to %s\n",
				model.Samples(), model.NodeCount(), model.Depth(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", filepath.Join("models", "dt.json"), "model output path")
	return cmd
}

func newPredictCommand(a *app) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "predict [flags] [--] ATTENDANCE CLASSWORK SOCIALIZATION NEATNESS",
		Short: "Label one set of scores with a model saved by train",
		Long: "Label one set of scores with a model saved by train.\n\n" +
			"Scores are parsed like the form fields. Put -- before the scores when one is negative.",
		Example: "  studenteval predict -m models/dt.json 90 85 70 95\n" +
			"  studenteval predict -- -5 40 40 40",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := form.ParseScores(form.Fields{
				Attendance:    args[0],
				Classwork:     args[1],
				Socialization: args[2],
				Neatness:      args[3],
			})
			if err != nil {
				return err
			}
			model, err := ml.LoadModel(ml.ModelTypeDecisionTree, modelPath)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			label, err := ml.Predict(model, scores)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", filepath.Join("models", "dt.json"), "model saved by train")
	return cmd
}
