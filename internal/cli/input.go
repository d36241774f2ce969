package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
	"github.com/matzehuels/rnagraph/pkg/pipeline"
)

// inputFlags are the flags shared by every command that reads structures.
type inputFlags struct {
	format  string
	name    string
	split   bool
	noCache bool
	refresh bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "input format: fasta, bpseq, bg or json (default: from extension)")
	cmd.Flags().StringVar(&f.name, "name", "", "name for records without one (default: file name)")
	cmd.Flags().BoolVar(&f.split, "split", false, "build one graph per connected group of chains")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rebuild even when cached")
}

// options reads path ("-" for stdin) into pipeline options. The format is
// detected from the extension unless --format is given.
func (f *inputFlags) options(cmd *cobra.Command, path string) (pipeline.Options, error) {
	data, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Input:   data,
		Name:    f.name,
		Split:   f.split,
		Refresh: f.refresh,
	}
	if f.format != "" {
		format, err := rnaio.ParseFormat(f.format)
		if err != nil {
			return opts, err
		}
		opts.InputFormat = format
	} else if path != "-" {
		opts.InputFormat = rnaio.DetectFormat(path)
	}
	if opts.Name == "" && path != "-" {
		opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return opts, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// loadGraphs builds the graphs in path through a cached runner.
func (c *CLI) loadGraphs(cmd *cobra.Command, path string, f inputFlags) ([]*bulge.Graph, error) {
	opts, err := f.options(cmd, path)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(cmd.Context(), f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(cmd.Context()))
	gs, _, hit, err := runner.BuildWithCacheInfo(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	prog.done("Built graphs", "graphs", len(gs), "cached", hit)
	return gs, nil
}
