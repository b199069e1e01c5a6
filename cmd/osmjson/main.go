package main

import (
	"fmt"
	golog "log"
	"os"

	"github.com/omniscale/osmjson"
	"github.com/omniscale/osmjson/config"
	"github.com/omniscale/osmjson/convert"
	"github.com/omniscale/osmjson/logging"
	"github.com/omniscale/osmjson/stats"
)

var log = logging.NewLogger("")

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\tconvert")
	fmt.Println("\tversion")
}

func Main(usage func()) {
	golog.SetFlags(golog.LstdFlags | golog.Lshortfile)

	if len(os.Args) <= 1 {
		usage()
		logging.Shutdown()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		opts := config.ParseConvert(os.Args[2:])
		if opts.Httpprofile != "" {
			stats.StartHttpPProf(opts.Httpprofile)
		}
		convert.Convert(opts)
	case "version":
		fmt.Println(osmjson.Version)
		os.Exit(0)
	default:
		usage()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
	logging.Shutdown()
	os.Exit(0)
}

func main() {
	Main(PrintCmds)
}
