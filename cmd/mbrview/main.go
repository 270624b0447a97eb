package main

import (
	"fmt"
	"os"

	"github.com/bgrewell/mbr-kit"
	"github.com/bgrewell/mbr-kit/pkg/logging"
	"github.com/bgrewell/mbr-kit/pkg/option"
	"github.com/bgrewell/usage"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {

	u := usage.NewUsage()
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Print verbose output", "", nil)
	strict := u.AddBooleanOption("s", "strict", false, "Fail on unrecognized partition types", "", nil)
	check := u.AddBooleanOption("c", "check", false, "Check partitions against the device size", "", nil)
	path := u.AddArgument(1, "image-path", "Path to the disk image or block device", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the disk image <image-path> must be provided"))
		os.Exit(1)
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	level := logging.LEVEL_INFO
	if *verbose {
		level = logging.LEVEL_TRACE
	}
	log := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, level, isTTY))

	tbl, err := mbr.Open(*path,
		option.WithReadOnly(true),
		option.WithLogger(log),
		option.WithStrictPartitionTypes(*strict),
		option.WithDeviceSizeValidation(*check),
	)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer tbl.Close()

	bold := color.New(color.Bold).SprintFunc()
	boot := color.New(color.FgGreen).SprintFunc()
	if !isTTY {
		color.NoColor = true
	}

	fmt.Printf("%s\n", bold(fmt.Sprintf("%-4s %-4s %-14s %-14s %-6s %s", "Slot", "Boot", "Start", "Length", "Id", "Type")))
	for _, d := range tbl.Descriptors() {
		if d.IsEmpty() {
			continue
		}
		flag := " "
		if d.Bootable {
			flag = boot("*")
		}
		fmt.Printf("%-4d %-4s %-14d %-14d 0x%02x   %s\n",
			d.Slot, flag, d.RelativeStart, d.Length, byte(d.Type), d.Type)
	}
}
