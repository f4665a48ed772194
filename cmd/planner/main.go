package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"backend-travelplanner/internal/config"
	"backend-travelplanner/internal/logging"
	"backend-travelplanner/internal/planner"

	"go.uber.org/zap"
)

const usage = `usage: planner [-api URL] <command> [flags]

commands:
  add -location CITY -departing YYYY-MM-DD   add a trip
  add                                        add a trip, prompting for its fields
  list                                       show saved trips
  remove -id N                               remove a trip
  watch                                      show saved trips and follow changes
`

var mainDepsProvider = defaultDeps

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, mainDepsProvider()))
}

type mainDeps struct {
	loadConfig func() config.Config
	newLogger  func(config.Config) (*zap.Logger, error)
	newBackend func(config.Config) planner.Backend
	watch      func(ctx context.Context, p *planner.Planner, wsURL string) error
	notify     func(context.Context) (context.Context, context.CancelFunc)
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig: config.Load,
		newLogger: func(cfg config.Config) (*zap.Logger, error) {
			return logging.New(cfg.LogLevel, cfg.LogFormat)
		},
		newBackend: func(cfg config.Config) planner.Backend {
			return planner.NewAPIClient(cfg.PlannerAPIURL, cfg.HTTPTimeout)
		},
		watch: func(ctx context.Context, p *planner.Planner, wsURL string) error {
			return p.Watch(ctx, wsURL, nil)
		},
		notify: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		},
	}
}

// run executes one planner command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, deps mainDeps) int {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cfg := deps.loadConfig()

	global := flag.NewFlagSet("planner", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	global.StringVar(&cfg.PlannerAPIURL, "api", cfg.PlannerAPIURL, "planner API base URL")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	logger, err := deps.newLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "logger setup failed: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	form := &planner.Form{}
	p := planner.New(planner.Deps{
		Backend:    deps.newBackend(cfg),
		Renderer:   planner.NewBoard(stdout),
		Form:       form,
		Log:        logger,
		FlightInfo: cfg.FlightInfo,
	})

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "add":
		err = runAdd(ctx, p, form, rest, stdin, stdout, stderr)
	case "list":
		err = p.LoadTrips(ctx)
	case "remove":
		err = runRemove(ctx, p, rest, stdout, stderr)
	case "watch":
		ctx, stop := deps.notify(ctx)
		defer stop()
		if err = p.LoadTrips(ctx); err == nil {
			err = deps.watch(ctx, p, planner.StreamURL(cfg.PlannerAPIURL))
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return 1
	}
}

var errUsage = errors.New("usage")

func runAdd(ctx context.Context, p *planner.Planner, form *planner.Form, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	location := fs.String("location", "", "destination city")
	departing := fs.String("departing", "", "departure date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *location == "" && *departing == "" {
		form.Toggle()
		if err := fillForm(form, stdin, stdout); err != nil {
			return err
		}
	} else {
		form.Location, form.Departing = *location, *departing
	}
	_, err := p.CreateTrip(ctx, form.Location, form.Departing)
	return err
}

// fillForm prompts for the trip fields while the form is shown.
func fillForm(form *planner.Form, in io.Reader, out io.Writer) error {
	if !form.Visible {
		return nil
	}
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "Location: ")
	if sc.Scan() {
		form.Location = strings.TrimSpace(sc.Text())
	}
	fmt.Fprint(out, "Departing (YYYY-MM-DD): ")
	if sc.Scan() {
		form.Departing = strings.TrimSpace(sc.Text())
	}
	fmt.Fprintln(out)
	return sc.Err()
}

func runRemove(ctx context.Context, p *planner.Planner, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rawID := fs.String("id", "", "trip id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	id, err := strconv.ParseInt(*rawID, 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid trip id %q\n", *rawID)
		return errUsage
	}
	if err := p.RemoveTrip(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "trip %d removed\n", id)
	return nil
}
