package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slidecraft/chipedit/i18n"
	"github.com/slidecraft/chipedit/rich"
)

var errRoundTrip = errors.New("round-trip failed")

func newRoundTripCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip FILE",
		Short: "Check that the visual tree serializes back to the file's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readFile(args[0])
			if err != nil {
				return err
			}
			tr := ctx.catalog()
			got := rich.Serialize(rich.BuildText(src))
			if got == src {
				fmt.Fprintln(cmd.OutOrStdout(), tr.T(i18n.MsgRoundTripOK, nil))
				return nil
			}
			off := firstDifference(src, got)
			fmt.Fprintln(cmd.OutOrStdout(), tr.T(i18n.MsgRoundTripFailed, map[string]any{"offset": off}))
			return fmt.Errorf("%s: %w", args[0], errRoundTrip)
		},
	}
}

func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
