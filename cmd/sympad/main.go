// cmd/sympad/main.go: command line front end for the expression bridge
//
// Reads requests and writes one JSON response per line.
//
// Usage:
//
//	go run ./cmd/sympad --mode evaluate trees.json
//	echo '{"mode":"validate","tree":["@","x"]}' | go run ./cmd/sympad --requests
//
// A tree file holds a JSON array of trees in tuple form. With --requests,
// standard input is a stream of request objects instead.
package main

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	sympad "github.com/njchilds90/gosympad"
)

// Args are what are used to build the CLI.
type Args struct {
	Trees string `arg:"positional" help:"file with a JSON array of trees, - for stdin"`

	Config   string `arg:"--config,env:SYMPAD_CONFIG" help:"yaml config file"`
	Mode     string `arg:"--mode" default:"evaluate" help:"validate or evaluate"`
	Requests bool   `arg:"--requests" help:"read request objects from stdin"`
	Debug    bool   `arg:"--debug" help:"log the engine objects of every evaluation"`
	Metrics  bool   `arg:"--metrics" help:"log request counters on exit"`

	// these override the config file
	Precision int      `arg:"--precision" help:"minimum significant digits of floats"`
	EngineEI  bool     `arg:"--engine-ei" help:"spell Euler's number and the imaginary unit E and I"`
	UserFuncs []string `arg:"--user-func,separate" help:"name accepted as an undefined function"`
}

// Main program that returns error.
func Main() error {
	args := Args{}
	parser, err := arg.NewParser(arg.Config{Program: "sympad"}, &args)
	if err != nil {
		// programming error
		return err
	}
	err = parser.Parse(os.Args[1:])
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if args.Mode != sympad.ModeValidate && args.Mode != sympad.ModeEvaluate {
		return errors.Errorf("unknown mode %q", args.Mode)
	}

	p := &sympad.Pipeline{
		Debug: args.Debug,
		Logf: func(format string, v ...interface{}) {
			log.Printf("sympad: "+format, v...)
		},
	}
	cfg := sympad.DefaultConfig()
	if args.Config != "" {
		if cfg, err = sympad.LoadConfig(args.Config); err != nil {
			return err
		}
	}
	if args.Precision > 0 {
		cfg.Precision = args.Precision
	}
	if args.EngineEI {
		cfg.EngineEI = true
	}
	cfg.UserFuncs = append(cfg.UserFuncs, args.UserFuncs...)
	p.Config = cfg

	if args.Metrics {
		reg := prometheus.NewRegistry()
		p.Metrics = &sympad.Metrics{Registerer: reg}
		if err := p.Metrics.Init(); err != nil {
			return err
		}
		defer logMetrics(reg)
	}

	enc := json.NewEncoder(os.Stdout)
	if args.Requests {
		return serveRequests(p, os.Stdin, enc)
	}

	in := io.Reader(os.Stdin)
	if args.Trees != "" && args.Trees != "-" {
		f, err := os.Open(args.Trees)
		if err != nil {
			return errors.Wrapf(err, "can't open %s", args.Trees)
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "can't read trees")
	}

	// bad trees get an error response in place and the rest still run
	resps, err := p.HandleList(args.Mode, data)
	if err != nil {
		return err
	}
	for _, resp := range resps {
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return nil
}

func serveRequests(p *sympad.Pipeline, r io.Reader, enc *json.Encoder) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	for {
		var req sympad.Request
		err := dec.Decode(&req)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "can't decode request")
		}
		if err := enc.Encode(p.Handle(req)); err != nil {
			return err
		}
	}
}

func logMetrics(reg *prometheus.Registry) {
	mfs, err := reg.Gather()
	if err != nil {
		log.Printf("sympad: metrics: %+v", err)
		return
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += " " + lp.GetName() + "=" + lp.GetValue()
			}
			log.Printf("sympad: %s%s %g", mf.GetName(), labels, m.GetCounter().GetValue())
		}
	}
}

func main() {
	if err := Main(); err != nil {
		log.Printf("sympad: %+v", err)
		os.Exit(1)
	}
}
