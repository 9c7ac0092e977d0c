package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/viant/cpusched"
	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/service/report"
	"github.com/viant/cpusched/service/workload"
)

const usage = `usage: cpusched <command> [flags]

commands:
  run      simulate a workload under one algorithm
  compare  simulate a workload under several algorithms
`

var errUsage = errors.New("invalid usage")

type options struct {
	workload   string
	processes  string
	algorithm  string
	quantum    int
	maxTicks   int
	aging      int
	output     string
	dest       string
	config     string
	trace      string
	verbose    bool
	algorithms []model.Algorithm
}

func (o *options) register(flags *flag.FlagSet, command string) {
	flags.StringVar(&o.workload, "w", "", "workload URL (yaml or json)")
	flags.StringVar(&o.processes, "p", "", "inline processes: arrival:burst[:priority],...")
	if command == "compare" {
		flags.StringVar(&o.algorithm, "a", "", "comma separated algorithms, all when empty")
	} else {
		flags.StringVar(&o.algorithm, "a", "", "algorithm: FCFS, SJF, SRTF, Priority, RR, LJF, LRTF, MLFQ")
	}
	flags.IntVar(&o.quantum, "q", 0, "time quantum for RR and MLFQ")
	flags.IntVar(&o.maxTicks, "max", 0, "tick limit")
	flags.IntVar(&o.aging, "aging", 0, "raise waiting priorities every n ticks, 0 disables")
	flags.StringVar(&o.output, "o", "table", "output format: table, json or yaml")
	flags.StringVar(&o.dest, "out", "", "also upload the result to URL")
	flags.StringVar(&o.config, "config", "", "config URL")
	flags.StringVar(&o.trace, "trace", "", "write spans to file")
	flags.BoolVar(&o.verbose, "v", false, "verbose logging")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return errUsage
	}
	command := args[0]
	if command != "run" && command != "compare" {
		_, _ = fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	opts := &options{}
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(stderr)
	opts.register(flags, command)
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}
	srv, err := opts.service(ctx, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Shutdown(context.Background()) }()
	aWorkload, err := opts.load(ctx, srv)
	if err != nil {
		return err
	}
	if command == "compare" {
		return opts.compare(ctx, srv, aWorkload, stdout)
	}
	return opts.simulate(ctx, srv, aWorkload, stdout)
}

func (o *options) service(ctx context.Context, stderr io.Writer) (*cpusched.Service, error) {
	config := cpusched.DefaultConfig()
	if o.config != "" {
		var err error
		if config, err = cpusched.LoadConfig(ctx, o.config); err != nil {
			return nil, err
		}
	}
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}
	serviceOptions := []cpusched.Option{
		cpusched.WithConfig(config),
		cpusched.WithLogger(slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))),
	}
	if o.maxTicks > 0 {
		serviceOptions = append(serviceOptions, cpusched.WithMaxTicks(o.maxTicks))
	}
	if o.quantum > 0 {
		serviceOptions = append(serviceOptions, cpusched.WithQuantum(o.quantum))
	}
	if o.aging > 0 {
		serviceOptions = append(serviceOptions, cpusched.WithAging(o.aging))
	}
	if o.trace != "" {
		serviceOptions = append(serviceOptions, cpusched.WithTracing("cpusched", "", o.trace))
	}
	return cpusched.NewFromConfig(cpusched.DefaultConfig(), serviceOptions...)
}

// load builds the workload from -w and -p; flags override workload settings
func (o *options) load(ctx context.Context, srv *cpusched.Service) (*model.Workload, error) {
	ret := &model.Workload{Name: "inline"}
	if o.workload != "" {
		var err error
		if ret, err = srv.LoadWorkload(ctx, o.workload); err != nil {
			return nil, err
		}
	}
	specs, err := parseProcesses(o.processes)
	if err != nil {
		return nil, err
	}
	ret.Processes = append(ret.Processes, specs...)
	if len(ret.Processes) == 0 {
		return nil, fmt.Errorf("%w: no processes, use -w or -p", errUsage)
	}
	if o.quantum > 0 {
		ret.Quantum = o.quantum
	}
	if o.algorithm == "" {
		return ret, ret.Validate()
	}
	for _, name := range strings.Split(o.algorithm, ",") {
		algorithm, err := model.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		o.algorithms = append(o.algorithms, algorithm)
	}
	ret.Algorithm = o.algorithms[0].String()
	return ret, ret.Validate()
}

func (o *options) simulate(ctx context.Context, srv *cpusched.Service, aWorkload *model.Workload, stdout io.Writer) error {
	if len(o.algorithms) > 1 {
		return fmt.Errorf("%w: run takes one algorithm, got %d", errUsage, len(o.algorithms))
	}
	session, err := srv.NewSessionFromWorkload(ctx, aWorkload)
	if err != nil {
		return err
	}
	snapshot, runErr := session.RunToCompletion(ctx)
	if err = o.emit(ctx, srv, stdout, snapshot, func(w io.Writer) { report.Snapshot(w, snapshot) }); err != nil {
		return err
	}
	return runErr
}

func (o *options) compare(ctx context.Context, srv *cpusched.Service, aWorkload *model.Workload, stdout io.Writer) error {
	results, err := srv.Compare(ctx, aWorkload, o.algorithms...)
	if err != nil {
		return err
	}
	return o.emit(ctx, srv, stdout, results, func(w io.Writer) { report.Comparison(w, results) })
}

func (o *options) emit(ctx context.Context, srv *cpusched.Service, stdout io.Writer, value interface{}, table func(w io.Writer)) error {
	switch o.output {
	case "table":
		table(stdout)
	case string(workload.FormatJSON), string(workload.FormatYAML):
		data, err := workload.Encode(value, workload.Format(o.output))
		if err != nil {
			return err
		}
		if _, err = stdout.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unsupported output %q", errUsage, o.output)
	}
	if o.dest == "" {
		return nil
	}
	return srv.Upload(ctx, o.dest, value)
}

// parseProcesses reads "arrival:burst[:priority]" items separated by commas
func parseProcesses(text string) ([]model.ProcessSpec, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var ret []model.ProcessSpec
	for i, item := range strings.Split(text, ",") {
		fields := strings.Split(strings.TrimSpace(item), ":")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: process[%d] %q: expected arrival:burst[:priority]", errUsage, i, item)
		}
		values := make([]int, 3)
		for j, field := range fields {
			value, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%w: process[%d] %q: %v", errUsage, i, item, err)
			}
			values[j] = value
		}
		ret = append(ret, model.ProcessSpec{Arrival: values[0], Burst: values[1], Priority: values[2]})
	}
	return ret, nil
}
