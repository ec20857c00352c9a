package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simworks/desim/datarecording"
	"github.com/simworks/desim/models/mm1"
	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/stats"
	"github.com/simworks/desim/simulation"
	"github.com/simworks/desim/tracing"
)

// experimentConfig is the YAML shape of one experiment run.
type experimentConfig struct {
	Name         string     `yaml:"name"`
	Seed         uint64     `yaml:"seed"`
	Replications int        `yaml:"replications"`
	Horizon      float64    `yaml:"horizon"`
	Station      mm1.Config `yaml:"station"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the M/M/1 experiment described by a YAML config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("seed") {
			cfg.Seed, _ = cmd.Flags().GetUint64("seed")
		}

		if cmd.Flags().Changed("replications") {
			cfg.Replications, _ = cmd.Flags().GetInt("replications")
		}

		return runExperiment(cfg, cmd)
	},
}

func init() {
	runCmd.Flags().StringP("config", "c", "experiment.yaml",
		"path to the experiment config")
	runCmd.Flags().Uint64("seed", 0, "override the master seed")
	runCmd.Flags().Int("replications", 0,
		"override the number of replications")
}

func loadConfig(path string) (experimentConfig, error) {
	cfg := experimentConfig{
		Name:         "mm1",
		Replications: 10,
		Horizon:      10000,
		Station: mm1.Config{
			ArrivalRate: 0.8,
			ServiceRate: 1.0,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

func runExperiment(cfg experimentConfig, cmd *cobra.Command) error {
	builder := simulation.Builder{}.WithSeed(cfg.Seed)

	if db := os.Getenv("DESIM_DB"); db != "" {
		builder = builder.WithDataRecorder(datarecording.New(db))
	}

	s := builder.Build()
	defer s.Terminate()

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		s.Executive().AcceptHook(
			tracing.NewEventLogger(logrus.StandardLogger()))
	}

	station := mm1.New(s, "station", cfg.Station)

	meanWait := stats.NewSummary("mean_wait_time")
	avgQueueLen := stats.NewSummary("avg_num_waiting")

	experiment := simulation.ExperimentBuilder{}.
		WithSimulation(s).
		WithReplications(cfg.Replications).
		WithHorizon(sim.VTime(cfg.Horizon)).
		WithBeforeReplication(func(_ int, _ *simulation.Simulation) {
			station.Start()
		}).
		WithAfterReplication(func(_ int, s *simulation.Simulation) {
			meanWait.Add(station.WaitTimes().Mean())
			avgQueueLen.Add(station.NumWaiting().
				Average(s.Executive().ActualEndTime()))
		}).
		Build(cfg.Name)

	if err := experiment.Run(); err != nil {
		return err
	}

	fmt.Printf("experiment:        %s\n", cfg.Name)
	fmt.Printf("replications:      %d\n", meanWait.Count())
	fmt.Printf("mean wait:         %.4f ± %.4f\n",
		meanWait.Mean(), meanWait.StdDev())
	fmt.Printf("avg number in q:   %.4f\n", avgQueueLen.Mean())

	return nil
}
