package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"coresched/internal/bridge"
	"coresched/internal/job"
	"coresched/internal/profiling"
	"coresched/internal/sched"
)

var (
	configPath string
	fps        int
	debugPause bool
	profile    bool
	csvPath    string
)

var demoFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "config",
		Usage:       "path to a YAML config file",
		Destination: &configPath,
	},
	cli.IntFlag{
		Name:        "fps",
		Usage:       "yield budget expressed as a frame rate, 1-125 (0 uses the config/default)",
		Destination: &fps,
	},
	cli.BoolFlag{
		Name:        "debug-pause",
		Usage:       "build with -tags schedulerdebug and pass this to start paused",
		Destination: &debugPause,
	},
	cli.BoolFlag{
		Name:        "profile",
		Usage:       "record scheduler events to an in-memory ProfilingSink",
		Destination: &profile,
	},
	cli.StringFlag{
		Name:        "csv",
		Usage:       "dump the profiling buffer to this CSV file on exit (implies --profile)",
		Destination: &csvPath,
	},
}

func run(c *cli.Context) error {
	cfg := sched.LoadConfig(configPath)
	heartbeatIntervalMS := cfg.FrameIntervalMS
	if fps != 0 {
		cfg.FrameIntervalMS = 0 // force ForceFrameRate below instead of the config value
	}
	if csvPath != "" {
		profile = true
	}

	clock := sched.NewWallClock()
	hostBridge := bridge.NewChannelBridge(cfg.HostCallbackBuffer)
	defer hostBridge.Close()

	opts := []sched.Option{sched.WithFrameIntervalMS(cfg.FrameIntervalMS)}
	var sink *profiling.BufferSink
	if profile || cfg.Profiling {
		sink = profiling.NewBufferSink()
		opts = append(opts, sched.WithProfiling(sink))
	}

	s := sched.New(clock, hostBridge, opts...)
	if fps != 0 {
		s.ForceFrameRate(fps)
	}

	if debugPause {
		s.PauseExecution()
	}

	heartbeat := bridge.NewHeartbeat(4)
	heartbeat.Start(time.Duration(heartbeatIntervalMS*20) * time.Millisecond)
	defer heartbeat.Stop()

	done := make(chan struct{})
	s.ScheduleCallback(sched.UserBlocking, job.ChunkedWork(s, 200, func(n, total int) {
		if n == total {
			close(done)
		}
	}))

	s.ScheduleCallback(sched.Idle, func(didTimeout bool) sched.Continuation {
		fmt.Printf("idle housekeeping ran (timed out=%v) at %.2fms\n", didTimeout, s.Now())
		return sched.Done
	}, sched.ScheduleOptions{DelayMS: 50})

	ready, pending := s.Snapshot()
	fmt.Printf("queued at start: %d ready, %d pending timers\n", len(ready), len(pending))

	if debugPause {
		time.Sleep(100 * time.Millisecond)
		s.ContinueExecution()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Fprintln(os.Stderr, "priosched: demo work did not finish within 5s")
	}

	fmt.Printf("heartbeat ticks observed: %d\n", heartbeat.Count())

	if sink != nil {
		fmt.Printf("profiling events recorded: %d\n", sink.Len())
		if csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := sink.DumpCSV(f); err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	app := cli.App{
		Name:        "priosched",
		HelpName:    "priosched",
		Usage:       "runs a small cooperative priority scheduler demo",
		UsageText:   "priosched [options]",
		Flags:       demoFlags,
		Action:      run,
		HideVersion: true,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("priosched: %s\n", err.Error())
		os.Exit(1)
	}
}
