package util

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"strings"
)

var (
	FlagCpu = runtime.NumCPU()

	FlagConfig    = ""
	FlagOutDir    = ""
	FlagTMAlign   = ""
	FlagPattern   = ""
	FlagWorkers   = 0
	FlagVerbose   = false
	FlagLogJSON   = false
	FlagNoCopy    = false
	FlagDatabase  = ""
	FlagOutputPDB = ""
)

func init() {
	log.SetFlags(0)
}

type commonFlag struct {
	set, init func()
	use       bool
}

var commonFlags = map[string]*commonFlag{
	"cpu": {
		set: func() {
			flag.IntVar(&FlagCpu, "cpu", FlagCpu,
				"The max number of CPUs to use.")
		},
		init: func() {
			runtime.GOMAXPROCS(FlagCpu)
		},
	},
	"workers": {
		set: func() {
			flag.IntVar(&FlagWorkers, "workers", FlagWorkers,
				"The number of pairs compared at once.\n"+
					"When zero, the number of CPUs is used.")
		},
	},
	"config": {
		set: func() {
			flag.StringVar(&FlagConfig, "config", FlagConfig,
				"A YAML file with settings for the run. Flags given on the\n"+
					"command line override it.")
		},
	},
	"out-dir": {
		set: func() {
			flag.StringVar(&FlagOutDir, "out-dir", FlagOutDir,
				"The directory to write results to.\n"+
					"Defaults to auto-align-<timestamp>.")
		},
	},
	"db": {
		set: func() {
			flag.StringVar(&FlagDatabase, "db", FlagDatabase,
				"The SQLite database summarizing the run.\n"+
					"Defaults to summary.db in the output directory.")
		},
	},
	"tmalign": {
		set: func() {
			flag.StringVar(&FlagTMAlign, "tmalign", FlagTMAlign,
				"The TM-align executable. When set, TM-align is run on every\n"+
					"pair and its scores are added to the results.")
		},
	},
	"pattern": {
		set: func() {
			flag.StringVar(&FlagPattern, "pattern", FlagPattern,
				"A regular expression whose first capture group is the\n"+
					"prefix that structure files are grouped by.\n"+
					"Defaults to ^(e\\d+).")
		},
	},
	"verbose": {
		set: func() {
			flag.BoolVar(&FlagVerbose, "verbose", FlagVerbose,
				"When set, more output is shown.")
		},
	},
	"log-json": {
		set: func() {
			flag.BoolVar(&FlagLogJSON, "log-json", FlagLogJSON,
				"When set, the run log is written as JSON.")
		},
	},
	"no-copy": {
		set: func() {
			flag.BoolVar(&FlagNoCopy, "no-copy", FlagNoCopy,
				"When set, input files are not copied into each pair's\n"+
					"output directory.")
		},
	},
	"out": {
		set: func() {
			flag.StringVar(&FlagOutputPDB, "out", FlagOutputPDB,
				"When set, the superposed second structure is written here.")
		},
	},
}

func FlagUse(names ...string) {
	for _, name := range names {
		commonFlags[name].use = true
	}
}

// FlagWasSet returns true if the flag with the given name was given on the
// command line.
func FlagWasSet(name string) bool {
	set := false
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// Usage just calls `flag.Usage`. It's included here to avoid
// an extra import to `flag` just to call Usage.
func Usage() {
	flag.Usage()
}

// Arg just calls `flag.Arg`. It's included here to avoid
// an extra import to `flag` just to call Arg.
func Arg(i int) string {
	return flag.Arg(i)
}

// NArg just calls `flag.NArg`. It's included here to avoid
// an extra import to `flag` just to call NArg.
func NArg() int {
	return flag.NArg()
}

func FlagParse(positional string, desc string) {
	for _, fl := range commonFlags {
		if fl.use {
			fl.set()
		}
	}

	flag.Usage = func() {
		log.Printf("Usage: %s [flags] %s\n\n",
			path.Base(os.Args[0]), positional)
		if len(desc) > 0 {
			log.Printf("%s\n", desc)
		}
		flag.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			log.Printf("-%s%s\n", fl.Name, def)
			log.Printf("    %s\n", usage)
		})
		os.Exit(1)
	}
	flag.Parse()

	for _, fl := range commonFlags {
		if fl.use && fl.init != nil {
			fl.init()
		}
	}
}
