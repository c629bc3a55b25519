// Command spawnbench drives spawn/despawn churn scenarios against an
// in-memory pool of synthetic entities and reports throughput and memory
// behavior. It exists to measure the pool, not to exercise any engine: the
// injected capabilities are plain field writes.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/spawnpool/pkg/config"
	"github.com/ajitpratap0/spawnpool/pkg/geom"
	"github.com/ajitpratap0/spawnpool/pkg/logger"
	"github.com/ajitpratap0/spawnpool/pkg/observability"
	"github.com/ajitpratap0/spawnpool/pkg/spawn"
)

var version = "0.1.0"

// particle is the synthetic pooled entity.
type particle struct {
	active   bool
	at       geom.Transform
	velocity geom.Vec3
}

// report is the JSON document emitted after a run.
type report struct {
	Scenario      string        `json:"scenario"`
	Cycles        int           `json:"cycles"`
	Burst         int           `json:"burst"`
	Duration      time.Duration `json:"duration_ns"`
	SpawnsPerSec  float64       `json:"spawns_per_sec"`
	PoolStats     spawn.Stats   `json:"pool_stats"`
	HeapAllocMB   float64       `json:"heap_alloc_mb"`
	TotalAllocMB  float64       `json:"total_alloc_mb"`
	NumGC         uint32        `json:"num_gc"`
	ProcessRSSMB  float64       `json:"process_rss_mb"`
	ProcessCPUPct float64       `json:"process_cpu_pct"`
}

type runFlags struct {
	configPath string
	initial    int
	maxSize    int
	cycles     int
	burst      int
	metrics    bool
	trace      bool
	logLevel   string
	output     string
}

func main() {
	root := &cobra.Command{
		Use:   "spawnbench",
		Short: "Spawnpool churn benchmark",
		Long: `spawnbench measures instance pool throughput under configurable
spawn/despawn churn: bursts of positional spawns, targeted despawns of half
the burst, and periodic bulk resets.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spawnbench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	flags := &runFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the churn scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
	}
	runCmd.Flags().StringVar(&flags.configPath, "config", "", "Pool settings YAML (overrides size flags)")
	runCmd.Flags().IntVar(&flags.initial, "initial-size", 1024, "Instances pre-created by Initialize")
	runCmd.Flags().IntVar(&flags.maxSize, "max-size", 0, "Growth cap (0 = unbounded)")
	runCmd.Flags().IntVar(&flags.cycles, "cycles", 10000, "Number of churn cycles")
	runCmd.Flags().IntVar(&flags.burst, "burst", 128, "Spawns per cycle")
	runCmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Enable Prometheus recording")
	runCmd.Flags().BoolVar(&flags.trace, "trace", false, "Emit an OpenTelemetry span for the run")
	runCmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level")
	runCmd.Flags().StringVar(&flags.output, "output", "", "Write the JSON report to this file instead of stdout")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags *runFlags) error {
	if err := logger.Init(logger.Config{Level: flags.logLevel, Encoding: "console"}); err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	settings := config.Settings{
		Name:          "spawnbench",
		InitialSize:   flags.initial,
		MaxSize:       flags.maxSize,
		EnableMetrics: flags.metrics,
	}
	if flags.configPath != "" {
		if err := config.Load(flags.configPath, &settings); err != nil {
			return err
		}
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return err
	}

	if flags.trace {
		if err := observability.Init(observability.Config{ServiceName: "spawnbench"}); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			observability.Shutdown(shutdownCtx) //nolint:errcheck
		}()
	}

	cfg := spawn.Config[*particle]{
		Template: &particle{},
		Factory:  func(*particle, any) (*particle, error) { return &particle{}, nil },
		Activate: func(p *particle, active bool) { p.active = active },
		Place:    func(p *particle, at geom.Transform) { p.at = at },
		Destroy:  func(*particle) {},
		Logger:   logger.Get(),
	}
	config.Apply(settings, &cfg)

	pool, err := spawn.New(cfg)
	if err != nil {
		return err
	}
	if err := pool.Initialize(); err != nil {
		return err
	}
	defer pool.Release()

	rep := &report{
		Scenario: "churn",
		Cycles:   flags.cycles,
		Burst:    flags.burst,
	}

	attrs := []attribute.KeyValue{
		attribute.Int("cycles", flags.cycles),
		attribute.Int("burst", flags.burst),
		attribute.Int("initial_size", settings.InitialSize),
	}
	err = observability.TraceOperation(ctx, "spawnbench.churn", attrs, func(context.Context) error {
		return churn(pool, flags.cycles, flags.burst, rep)
	})
	if err != nil {
		return err
	}

	finishReport(pool, rep)
	logger.Info("run complete",
		zap.Duration("duration", rep.Duration),
		zap.Float64("spawns_per_sec", rep.SpawnsPerSec),
		zap.Int("pool_size", rep.PoolStats.Size),
		zap.Uint64("grows", rep.PoolStats.Grows),
	)

	return writeReport(rep, flags.output)
}

// churn runs the spawn/despawn workload: each cycle spawns a positional
// burst, despawns every other instance of the burst individually, and bulk
// resets the rest.
func churn(pool *spawn.Pool[*particle], cycles, burst int, rep *report) error {
	spawned := make([]*particle, 0, burst)
	start := time.Now()

	for c := 0; c < cycles; c++ {
		spawned = spawned[:0]
		for i := 0; i < burst; i++ {
			at := geom.At(geom.Vec3{
				X: float64(i % 64),
				Y: float64(c % 64),
				Z: float64(i-c) * 0.25,
			})
			p, err := pool.SpawnAt(at)
			if err != nil {
				return err
			}
			spawned = append(spawned, p)
		}
		for i := 0; i < len(spawned); i += 2 {
			if err := pool.Despawn(spawned[i]); err != nil {
				return err
			}
		}
		pool.DespawnAll()
	}

	rep.Duration = time.Since(start)
	if secs := rep.Duration.Seconds(); secs > 0 {
		rep.SpawnsPerSec = float64(cycles*burst) / secs
	}
	return nil
}

func finishReport(pool *spawn.Pool[*particle], rep *report) {
	rep.PoolStats = pool.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	rep.HeapAllocMB = float64(mem.HeapAlloc) / (1 << 20)
	rep.TotalAllocMB = float64(mem.TotalAlloc) / (1 << 20)
	rep.NumGC = mem.NumGC

	// Process-level view; skipped silently when the platform refuses.
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			rep.ProcessRSSMB = float64(memInfo.RSS) / (1 << 20)
		}
		if cpuPct, err := proc.CPUPercent(); err == nil {
			rep.ProcessCPUPct = cpuPct
		}
	}
}

func writeReport(rep *report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("report written", zap.String("path", path))
	return nil
}
