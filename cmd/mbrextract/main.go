package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bgrewell/mbr-kit"
	"github.com/bgrewell/mbr-kit/pkg/extract"
	"github.com/bgrewell/mbr-kit/pkg/logging"
	"github.com/bgrewell/mbr-kit/pkg/option"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

var (
	version = "dev"
)

// CreateProgressCallback returns a ProgressCallback that updates the spinner's message.
func CreateProgressCallback(spinner *yacspin.Spinner, slot int) option.ProgressCallback {
	return func(bytesTransferred int64, totalBytes int64) {
		if spinner == nil || totalBytes == 0 {
			return
		}
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 80
		}

		percent := float64(bytesTransferred) / float64(totalBytes) * 100
		message := fmt.Sprintf(" partition %d - %d/%d bytes - %.2f%%", slot, bytesTransferred, totalBytes, percent)
		if len(message) > width-4 && width > 4 {
			message = message[:width-4]
		}
		spinner.Message(message)
	}
}

// InitializeSpinner sets up and starts the yacspin spinner.
func InitializeSpinner() (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	return spinner, nil
}

func usage() {
	fmt.Println("mbrextract v" + version)
	fmt.Println("Usage: mbrextract [options] <path-to-image>")
	fmt.Println("  -p <slot>        Partition slot to extract, 0-3 (default 0)")
	fmt.Println("  -o <file>        Output file (default 'partition<slot>.img' plus compression suffix)")
	fmt.Println("  -z <algorithm>   Compression: none, gzip, zstd, zlib (default none)")
	fmt.Println("  -v               Enable verbose (debug) logging")
	fmt.Println("  -vv              Enable trace logging")
}

func main() {
	debug := flag.Bool("v", false, "Enable verbose (debug) logging")
	trace := flag.Bool("vv", false, "Enable trace logging")
	slot := flag.Int("p", 0, "Partition slot to extract")
	output := flag.String("o", "", "Output file")
	algorithm := flag.String("z", "none", "Compression algorithm")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	imagePath := flag.Arg(0)

	algo, err := extract.ParseAlgorithm(*algorithm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *output == "" {
		*output = fmt.Sprintf("partition%d.img%s", *slot, algo.Extension())
	}

	level := -1
	if *debug {
		level = logging.LEVEL_DEBUG
	}
	if *trace {
		level = logging.LEVEL_TRACE
	}
	log := logging.DefaultLogger()
	if level >= 0 {
		log = logging.NewLogger(logging.NewSimpleLogger(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd()))))
	}

	tbl, err := mbr.Open(imagePath, option.WithReadOnly(true), option.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer tbl.Close()

	w, err := tbl.GetPartition(*slot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open partition: %v\n", err)
		os.Exit(1)
	}
	defer w.Release()

	out, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	spinner, err := InitializeSpinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
		fmt.Fprintf(os.Stderr, "Progress updates will be disabled.\n")
		spinner = nil
	}

	n, err := extract.Partition(out, w, algo, CreateProgressCallback(spinner, *slot))
	if err != nil {
		if spinner != nil {
			spinner.StopFailMessage(fmt.Sprintf(" Failed to extract partition: %v", err))
			_ = spinner.StopFail()
		} else {
			fmt.Fprintf(os.Stderr, "Failed to extract partition: %v\n", err)
		}
		os.Exit(1)
	}

	message := fmt.Sprintf(" Extracted %d bytes from partition %d (%s) to %s", n, *slot, tbl.GetPartitionType(*slot), *output)
	if spinner != nil {
		spinner.StopMessage(message)
		_ = spinner.Stop()
	} else {
		fmt.Println(message)
	}
}
