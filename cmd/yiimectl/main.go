// Command yiimectl is a debug CLI for inspecting the dictionary, the
// segmenter, and the candidate builder without running the full resident
// process or touching any OS input hook.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/k0kubun/pp"

	"github.com/tanpero/yi-ime/candidate"
	"github.com/tanpero/yi-ime/dict"
	"github.com/tanpero/yi-ime/segment"
)

func main() {
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	segmentCmd := flag.NewFlagSet("segment", flag.ExitOnError)
	candidatesCmd := flag.NewFlagSet("candidates", flag.ExitOnError)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	d, err := dict.Load()
	if err != nil {
		color.Red.Printf("dictionary load failed: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "stats":
		statsCmd.Parse(os.Args[2:])
		pp.Println(d.Stats())
	case "segment":
		segmentCmd.Parse(os.Args[2:])
		if segmentCmd.NArg() < 1 {
			color.Red.Println("usage: yiimectl segment <pinyin-buffer>")
			os.Exit(1)
		}
		results := segment.New(d).Segment(segmentCmd.Arg(0))
		pp.Println(results)
	case "candidates":
		candidatesCmd.Parse(os.Args[2:])
		if candidatesCmd.NArg() < 1 {
			color.Red.Println("usage: yiimectl candidates <pinyin-buffer>")
			os.Exit(1)
		}
		items := candidate.New(d).Build(candidatesCmd.Arg(0))
		for i, item := range items {
			color.Yellow.Printf("%d: ", i+1)
			fmt.Println(item)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: yiimectl <stats|segment|candidates> [args...]")
}
