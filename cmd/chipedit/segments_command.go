package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/slidecraft/chipedit/i18n"
	"github.com/slidecraft/chipedit/markdown"
)

const previewRunes = 40

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "segments FILE",
		Short: "Show how a markdown file splits into text and image chips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readFile(args[0])
			if err != nil {
				return err
			}
			segs := markdown.Parse(src)
			out := cmd.OutOrStdout()
			if dump {
				fmt.Fprintln(out, litter.Sdump(segs))
				return nil
			}

			tr := ctx.catalog()
			rows := make([][]string, 0, len(segs))
			for i, seg := range segs {
				rows = append(rows, segmentRow(tr, i, seg))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Kind", "Label", "Content"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))

			if urls := markdown.RemoteImageURLs(src); len(urls) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Remote images:")
				for _, u := range urls {
					fmt.Fprintf(out, "  %s\n", u)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Print the raw segment values")
	return cmd
}

func segmentRow(tr *i18n.Catalog, i int, seg markdown.Segment) []string {
	if !seg.IsImage() {
		content := strings.ReplaceAll(seg.Text, "\n", `\n`)
		return []string{strconv.Itoa(i), tr.T(i18n.MsgSegmentText, nil), "", markdown.Truncate(content, previewRunes)}
	}
	kind := tr.T(i18n.MsgSegmentImage, nil)
	if seg.Uploading() {
		kind = tr.T(i18n.MsgSegmentUploading, nil)
	}
	label := markdown.Truncate(markdown.DisplayName(seg.Alt, seg.URL), previewRunes)
	return []string{strconv.Itoa(i), kind, label, markdown.Truncate(seg.URL, previewRunes)}
}
