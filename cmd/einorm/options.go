package main

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/einorm/nn"
)

// options holds the flag values of the root command.
type options struct {
	Pattern  string
	Target   string
	Group    string
	groupSet bool
	Sizes    map[string]int
	Shape    []int
	NoBias   bool
	Eps      float32
	Seed     int64
	Save     string
	Half     bool
}

func defaultOptions() options {
	return options{
		Pattern: "a b c",
		Target:  "b",
		Sizes:   map[string]int{},
		Eps:     nn.DefaultEpsilon,
		Seed:    42,
	}
}

// registerFlags adds the operator and input flags to cmd.
func registerFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.Pattern, "pattern", opts.Pattern, "Names of the input dimensions, in order")
	f.StringVar(&opts.Target, "target", opts.Target, "Axes to compute statistics over")
	f.StringVar(&opts.Group, "group", "", "Axes with independent parameters (optional)")
	f.StringToIntVar(&opts.Sizes, "size", opts.Sizes, "Axis sizes as name=N, repeatable or comma separated")
	f.IntSliceVar(&opts.Shape, "shape", nil, "Input shape (default: the axis sizes, 1 for axes without size)")
	f.BoolVar(&opts.NoBias, "no-bias", false, "Disable the learnable shift")
	f.Float32Var(&opts.Eps, "eps", opts.Eps, "Variance stabilizer")
	f.Int64Var(&opts.Seed, "seed", opts.Seed, "Seed of the random input")
	f.StringVar(&opts.Save, "save", "", "Write the parameters to this SafeTensors file")
	f.BoolVar(&opts.Half, "half", false, "Store saved parameters as float16")
}
