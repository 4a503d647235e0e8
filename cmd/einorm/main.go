// Package main provides the einorm CLI.
//
// It builds an Einorm operator from flags, runs it on reproducible random input and
// reports the derived layout, the output statistics and optionally saves the parameters.
//
//	einorm --pattern "a b c" --target b --size b=100 --shape 1,100,4
//	einorm --pattern "b g t" --target t --group g --size g=3,t=5 --shape 2,3,5 --save norm.safetensors --half
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()
	cmd := &cobra.Command{
		Use:           "einorm",
		Short:         "Normalize a random tensor over named axes",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.groupSet = cmd.Flags().Changed("group")
			return run(cmd.OutOrStdout(), opts)
		},
	}

	registerFlags(cmd, &opts)

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "einorm %s\n", version)
		},
	})
	return cmd
}
