package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/geolayers/internal/graticule"
	"github.com/woozymasta/geolayers/internal/processor"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Output    string  `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	Format    string  `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Interval  float64 `short:"i" long:"interval"  description:"Degrees between grid lines" default:"20"`
	Precision float64 `short:"p" long:"precision" description:"Degrees between points along a line" default:"1"`
	Frame     bool    `short:"F" long:"frame"     description:"Output only the bounding frame polygon"`
	Minify    bool    `short:"m" long:"minify"    description:"Minify JSON output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	fc, err := graticule.Generate(graticule.Options{
		Interval:  opts.Interval,
		Precision: opts.Precision,
		Frame:     opts.Frame,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = processor.Marshal(fc, opts.Minify)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully wrote %d features to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		_, _ = os.Stdout.Write(outputData)
	}
}
