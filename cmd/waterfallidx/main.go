// Command waterfallidx runs the merge-and-index engine and serves its
// query surface from the command line, one cobra subcommand per
// build/list/summary/tile/peaks operation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicerx/waterfallidx/build"
	"github.com/nicerx/waterfallidx/decoder"
	"github.com/nicerx/waterfallidx/query"
	"github.com/nicerx/waterfallidx/store"
)

// cliError carries the process exit code a failure should produce.
// For build: 2 input discovery failure, 3 fatal decoder error, 4 I/O
// error on output, matching the batch command's exit code contract.
// Query subcommands reuse 2 for bad input/usage and 3 for a band that
// can't be found, since they never run the decoder.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func usageErr(err error) error    { return &cliError{code: 2, err: err} }
func notFoundErr(err error) error { return &cliError{code: 3, err: err} }
func decodeErr(err error) error   { return &cliError{code: 3, err: err} }
func ioErr(err error) error       { return &cliError{code: 4, err: err} }

var (
	outDir   string
	bandID   int
	f0, f1   float64
	t0, t1   float64
	haveF0   bool
	haveF1   bool
	haveT0   bool
	haveT1   bool
	maxPts   int
	maxW     int
	maxT     int
	pngPath  string
	curve    string
	height      float64
	minProm     float64
	distance    int
	haveHeight  bool
	haveMinProm bool
	haveDist    bool
)

var rootCmd = &cobra.Command{
	Use:   "waterfallidx",
	Short: "RF spectrum waterfall merge-and-index engine",
}

func init() {
	buildCmd := &cobra.Command{
		Use:   "build <chunk-file...>",
		Short: "Classify, quantise, and seal bands from decoded chunk files",
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVar(&outDir, "out", "", "output directory for sealed band artifacts")
	rootCmd.AddCommand(buildCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sealed bands as JSON",
		RunE:  runList,
	}
	listCmd.Flags().StringVar(&outDir, "out", "", "band artifact directory")
	rootCmd.AddCommand(listCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a band's resampled summary as JSON",
		RunE:  runSummary,
	}
	summaryCmd.Flags().StringVar(&outDir, "out", "", "band artifact directory")
	summaryCmd.Flags().IntVar(&bandID, "band", 0, "band id")
	summaryCmd.Flags().Float64Var(&f0, "f0", 0, "lower frequency bound, hz")
	summaryCmd.Flags().Float64Var(&f1, "f1", 0, "upper frequency bound, hz")
	summaryCmd.Flags().IntVar(&maxPts, "max-pts", 2048, "maximum points returned")
	rootCmd.AddCommand(summaryCmd)

	tileCmd := &cobra.Command{
		Use:   "tile",
		Short: "Render a band's waterfall crop to a PNG",
		RunE:  runTile,
	}
	tileCmd.Flags().StringVar(&outDir, "out", "", "band artifact directory")
	tileCmd.Flags().IntVar(&bandID, "band", 0, "band id")
	tileCmd.Flags().Float64Var(&f0, "f0", 0, "lower frequency bound, hz")
	tileCmd.Flags().Float64Var(&f1, "f1", 0, "upper frequency bound, hz")
	tileCmd.Flags().Float64Var(&t0, "t0", 0, "lower time bound, seconds since band start")
	tileCmd.Flags().Float64Var(&t1, "t1", 0, "upper time bound, seconds since band start")
	tileCmd.Flags().IntVar(&maxW, "maxw", 512, "output tile width, pixels")
	tileCmd.Flags().IntVar(&maxT, "maxt", 512, "output tile height, pixels")
	tileCmd.Flags().StringVar(&pngPath, "png", "", "output PNG path")
	rootCmd.AddCommand(tileCmd)

	peaksCmd := &cobra.Command{
		Use:   "peaks",
		Short: "Detect peaks in a band's summary curve as JSON",
		RunE:  runPeaks,
	}
	peaksCmd.Flags().StringVar(&outDir, "out", "", "band artifact directory")
	peaksCmd.Flags().IntVar(&bandID, "band", 0, "band id")
	peaksCmd.Flags().StringVar(&curve, "curve", "max", "summary curve to search: max, avg, or min")
	peaksCmd.Flags().Float64Var(&height, "height", 0, "minimum peak value, db")
	peaksCmd.Flags().Float64Var(&minProm, "prominence", 0, "minimum topographic prominence, db")
	peaksCmd.Flags().IntVar(&distance, "distance", 0, "minimum separation between peaks, bins")
	peaksCmd.Flags().Float64Var(&f0, "f0", 0, "lower frequency bound, hz")
	peaksCmd.Flags().Float64Var(&f1, "f1", 0, "upper frequency bound, hz")
	rootCmd.AddCommand(peaksCmd)

	markFlagPresence(summaryCmd, "f0", &haveF0)
	markFlagPresence(summaryCmd, "f1", &haveF1)
	markFlagPresence(tileCmd, "f0", &haveF0)
	markFlagPresence(tileCmd, "f1", &haveF1)
	markFlagPresence(tileCmd, "t0", &haveT0)
	markFlagPresence(tileCmd, "t1", &haveT1)
	markFlagPresence(peaksCmd, "f0", &haveF0)
	markFlagPresence(peaksCmd, "f1", &haveF1)
	markFlagPresence(peaksCmd, "height", &haveHeight)
	markFlagPresence(peaksCmd, "prominence", &haveMinProm)
	markFlagPresence(peaksCmd, "distance", &haveDist)
}

// markFlagPresence chains onto cmd's PreRunE to record whether an
// optional flag was actually set, since a zero value is a legitimate
// f0/t0.
func markFlagPresence(cmd *cobra.Command, name string, have *bool) {
	orig := cmd.PreRunE
	cmd.PreRunE = func(c *cobra.Command, args []string) error {
		if c.Flags().Changed(name) {
			*have = true
		}
		if orig != nil {
			return orig(c, args)
		}
		return nil
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	if outDir == "" {
		return usageErr(fmt.Errorf("--out is required"))
	}
	if len(args) == 0 {
		return usageErr(fmt.Errorf("at least one chunk file is required"))
	}
	layout, err := store.NewLayout(outDir)
	if err != nil {
		return ioErr(err)
	}
	pipeline := build.NewPipeline(layout, log.New(os.Stderr, "", log.LstdFlags))
	res, err := pipeline.Run(context.Background(), decoder.ReferenceOpener{}, args)
	if err != nil {
		switch {
		case errors.Is(err, build.ErrDecodeFatal),
			errors.Is(err, decoder.ErrBadChunkFormat),
			errors.Is(err, decoder.ErrUnsupportedChunk):
			return decodeErr(err)
		case errors.Is(err, build.ErrInputMissing), errors.Is(err, os.ErrNotExist):
			return usageErr(err)
		}
		return ioErr(err)
	}
	return printJSON(res)
}

func runList(cmd *cobra.Command, args []string) error {
	if outDir == "" {
		return usageErr(fmt.Errorf("--out is required"))
	}
	cat := store.NewCatalog(outDir)
	bands, err := cat.Bands()
	if err != nil {
		return ioErr(err)
	}
	return printJSON(bands)
}

func runSummary(cmd *cobra.Command, args []string) error {
	_, h, err := openBand()
	if err != nil {
		return err
	}
	res := query.Summary(h.Tiers, boundPtr(haveF0, f0), boundPtr(haveF1, f1), maxPts)
	return printJSON(res)
}

func runTile(cmd *cobra.Command, args []string) error {
	if pngPath == "" {
		return usageErr(fmt.Errorf("--png is required"))
	}
	_, h, err := openBand()
	if err != nil {
		return err
	}
	tile := query.BuildTile(h, query.TileRequest{
		T0: boundPtr(haveT0, t0), T1: boundPtr(haveT1, t1),
		F0: boundPtr(haveF0, f0), F1: boundPtr(haveF1, f1),
		Width: maxW, Height: maxT,
	})
	png, err := query.EncodePNG(tile)
	if err != nil {
		return ioErr(err)
	}
	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return ioErr(err)
	}
	return printJSON(struct {
		FreqStart float64 `json:"freq_start_hz"`
		FreqEnd   float64 `json:"freq_end_hz"`
		TimeStart int64   `json:"time_start_s"`
		TimeEnd   int64   `json:"time_end_s"`
	}{tile.Freqs[0], tile.Freqs[len(tile.Freqs)-1], tile.Times[0], tile.Times[len(tile.Times)-1]})
}

func runPeaks(cmd *cobra.Command, args []string) error {
	_, h, err := openBand()
	if err != nil {
		return err
	}
	sum := query.Summary(h.Tiers, boundPtr(haveF0, f0), boundPtr(haveF1, f1), h.Tiers.Levels[0].NBins)
	var vals []float64
	switch curve {
	case "max":
		vals = sum.Max
	case "avg":
		vals = sum.Mean
	case "min":
		vals = sum.Min
	default:
		return usageErr(fmt.Errorf("unknown curve %q: want max, avg, or min", curve))
	}
	peaks := query.FindPeaks(sum.Freqs, vals, boundPtr(haveHeight, height), boundPtr(haveMinProm, minProm), intPtr(haveDist, distance))
	return printJSON(peaks)
}

func openBand() (*store.Layout, *queryBandHandle, error) {
	if outDir == "" {
		return nil, nil, usageErr(fmt.Errorf("--out is required"))
	}
	layout, err := store.NewLayout(outDir)
	if err != nil {
		return nil, nil, ioErr(err)
	}
	qs := query.NewStore(layout)
	h, err := qs.Get(bandID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, notFoundErr(fmt.Errorf("band %d: %w", bandID, err))
		}
		return nil, nil, ioErr(err)
	}
	return layout, h, nil
}

// queryBandHandle aliases query.BandHandle so openBand's signature
// reads naturally without importing query twice under two names.
type queryBandHandle = query.BandHandle

func boundPtr(have bool, v float64) *float64 {
	if !have {
		return nil
	}
	return &v
}

func intPtr(have bool, v int) *int {
	if !have {
		return nil
	}
	return &v
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			fmt.Fprintln(os.Stderr, ce.Error())
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
