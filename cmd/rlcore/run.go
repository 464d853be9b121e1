package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samuelfneumann/rlcore/config"
	"github.com/samuelfneumann/rlcore/core"
	"github.com/samuelfneumann/rlcore/core/checkpointer"
	"github.com/samuelfneumann/rlcore/core/trackers"
	"github.com/samuelfneumann/rlcore/dataset"
	"github.com/samuelfneumann/rlcore/logger"
	"github.com/samuelfneumann/rlcore/plot"
	"github.com/samuelfneumann/rlcore/render"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/timestep"
	"github.com/spf13/cobra"
)

const defaultResultsDir = "results"

// runOptions are the command line options of the run command
type runOptions struct {
	resultsDir            string
	frames                bool
	frameScale            int
	progress              bool
	checkpointEvery       int
	checkpointTimestamped bool
	colors                bool
	debug                 bool
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run <experiment.json>",
		Short: "Run the experiment described by a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := config.Load(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt)
			defer stop()

			reg, release, err := newRegistry(ctx, exp.Backend, exp.Seed)
			if err != nil {
				return err
			}
			defer release()

			dir, err := runExperiment(exp, reg, o, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "results saved to %v\n", dir)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.resultsDir, "results", "",
		"results directory, overriding the configured one")
	flags.BoolVar(&o.frames, "frames", false,
		"save the frames rendered during evaluation as PNG files, "+
			"not supported by the gymhttp backend")
	flags.IntVar(&o.frameScale, "frame-scale", 1,
		"factor to scale saved frames by")
	flags.BoolVar(&o.progress, "progress", false,
		"display a progress bar of each run")
	flags.IntVar(&o.checkpointEvery, "checkpoint-every", 0,
		"save the returns every this many fits, never if zero")
	flags.BoolVar(&o.checkpointTimestamped, "checkpoint-timestamped", false,
		"name checkpoints by the time they are saved instead of numbering "+
			"them")
	flags.BoolVar(&o.colors, "color", true, "colour log levels")
	flags.BoolVar(&o.debug, "debug", false, "log debug messages")
	return cmd
}

// runExperiment runs exp on the simulators of reg and saves its results
// in a new directory, which is returned. The agent is evaluated before
// learning and after each epoch of learning.
func runExperiment(exp config.Experiment, reg *simulator.Registry,
	o runOptions, out io.Writer) (string, error) {
	if o.frames && exp.Backend.Kind == config.GymHTTP {
		return "", fmt.Errorf("runExperiment: cannot save frames, the %v "+
			"backend does not return rendered frames", config.GymHTTP)
	}

	results := o.resultsDir
	if results == "" {
		results = exp.ResultsDir
	}
	if results == "" {
		results = defaultResultsDir
	}
	id := uuid.New().String()
	dir := filepath.Join(results, exp.Name, id)

	lg, err := logger.New(exp.Name, logger.Config{
		Dir:     dir,
		Console: out,
		Colors:  o.colors,
		Debug:   o.debug,
	})
	if err != nil {
		return "", fmt.Errorf("runExperiment: %v", err)
	}
	defer lg.Close()

	lg.StrongLine()
	lg.Info("experiment %v, run %v", exp.Name, id)
	lg.Info("environment %v (%v), agent %v", exp.Env.Name, exp.Env.Kind,
		exp.Agent.Type)

	env, err := exp.Env.Create(reg, lg.Std(), exp.Seed)
	if err != nil {
		lg.Error("could not create environment: %v", err)
		return "", fmt.Errorf("runExperiment: %w", err)
	}
	lg.Debug("%v", env.Info())

	evalConfig, err := exp.Evaluate.Core(env.Info(), exp.Seed)
	if err != nil {
		env.Stop()
		lg.Error("could not configure evaluation: %v", err)
		return "", fmt.Errorf("runExperiment: %v", err)
	}

	a, err := exp.Agent.CreateAgent(env.Info(), exp.Seed)
	if err != nil {
		env.Stop()
		lg.Error("could not create agent: %v", err)
		return "", fmt.Errorf("runExperiment: %w", err)
	}

	// Returns and episode lengths are only tracked while learning
	returns := trackers.NewReturn()
	lengths := trackers.NewEpisodeLength()
	learning := false
	track := func(t timestep.Transition) {
		if learning {
			returns.Track(t)
			lengths.Track(t)
		}
	}

	opts := []core.Option{
		core.WithLogger(lg.Std()),
		core.WithStepCallback(track),
	}
	if o.checkpointEvery > 0 {
		base := filepath.Join(dir, "returns-checkpoint")
		filename := checkpointer.FilenameEnumerator(0, base, ".bin")
		if o.checkpointTimestamped {
			filename = checkpointer.FileTimer(base, ".bin")
		}
		cp, err := checkpointer.NewNFit(o.checkpointEvery, returns, filename)
		if err != nil {
			env.Stop()
			return "", fmt.Errorf("runExperiment: %v", err)
		}
		opts = append(opts, core.WithFitCallbacks(cp.Checkpoint))
	}
	if o.progress {
		opts = append(opts, core.WithProgress(out))
	}
	if o.frames {
		recorder, err := render.NewRecorder(filepath.Join(dir, "frames"),
			exp.Name, o.frameScale)
		if err != nil {
			env.Stop()
			return "", fmt.Errorf("runExperiment: %v", err)
		}
		opts = append(opts, core.WithFrameSink(recorder))
		evalConfig.Render = true
		evalConfig.RenderMode = "rgb_array"
	}

	c := core.New(a, env, opts...)
	defer c.Close()

	gamma := env.Info().Gamma()
	evaluate := func(epoch int) (dataset.Metrics, error) {
		data, err := c.Evaluate(evalConfig)
		if err != nil {
			return dataset.Metrics{}, err
		}
		m := data.ComputeMetrics(gamma)
		lg.EpochInfo(epoch,
			logger.F("J", m.MeanJ),
			logger.F("min J", m.MinJ),
			logger.F("max J", m.MaxJ),
			logger.F("episodes", m.Episodes),
		)
		return m, nil
	}

	var metrics []dataset.Metrics
	m, err := evaluate(0)
	if err != nil {
		lg.Error("evaluation failed: %v", err)
		return "", fmt.Errorf("runExperiment: %w", err)
	}
	metrics = append(metrics, m)

	for epoch := 1; epoch <= exp.Epochs; epoch++ {
		lg.WeakLine()
		learning = true
		err := c.Learn(exp.Learn)
		learning = false
		if err != nil {
			lg.Error("learning failed in epoch %v: %v", epoch, err)
			return "", fmt.Errorf("runExperiment: %w", err)
		}

		m, err := evaluate(epoch)
		if err != nil {
			lg.Error("evaluation failed in epoch %v: %v", epoch, err)
			return "", fmt.Errorf("runExperiment: %w", err)
		}
		metrics = append(metrics, m)
	}

	if err := save(dir, exp.Name, returns, lengths, metrics); err != nil {
		lg.Error("%v", err)
		return "", fmt.Errorf("runExperiment: %v", err)
	}
	lg.Info("learned from %v episodes", len(lengths.Data()))
	lg.StrongLine()
	return dir, nil
}

// save saves the tracked data and learning curve of a run to dir
func save(dir, name string, returns *trackers.Return,
	lengths *trackers.EpisodeLength, metrics []dataset.Metrics) error {
	if err := returns.Save(filepath.Join(dir, "returns.bin")); err != nil {
		return fmt.Errorf("could not save returns: %v", err)
	}
	if err := lengths.Save(filepath.Join(dir, "lengths.bin")); err != nil {
		return fmt.Errorf("could not save episode lengths: %v", err)
	}

	curve := plot.FromMetrics(name, metrics)
	if err := curve.Save(filepath.Join(dir, "curve.html")); err != nil {
		return fmt.Errorf("could not save learning curve: %v", err)
	}
	return nil
}
