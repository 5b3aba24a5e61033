package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/baditaflorin/l"

	"github.com/TuftsBCB/pairalign/batch"
	"github.com/TuftsBCB/pairalign/cmd/util"
)

const logFile = "run.log"

func init() {
	util.FlagUse("cpu", "workers", "config", "out-dir", "db", "tmalign",
		"pattern", "verbose", "log-json", "no-copy")
	util.FlagParse("[input-dir]",
		"Superposes every pair of structures sharing a file name prefix.\n"+
			"The input directory may instead be set in the config file.")
}

func main() {
	conf := config()
	util.Assert(batch.CheckInputDir(conf.InputDir))

	// The log lives in the output directory, which must exist before the
	// driver is made.
	conf.OutputDir = outputDir(conf.OutputDir)
	util.Assert(os.MkdirAll(conf.OutputDir, 0777),
		"Could not create output directory '%s'", conf.OutputDir)
	logf := util.CreateFile(filepath.Join(conf.OutputDir, logFile))
	logger, err := batch.NewLogger(logf, conf.LogJSON)
	if err != nil {
		logf.Close()
		util.Fatalf("Could not create logger: %s.", err)
	}

	// The logger writes asynchronously: close it before any exit so that
	// queued entries reach run.log.
	summary, err := run(conf, logger)
	util.Warning(logger.Close(), "Could not flush run log")
	util.Warning(logf.Close(), "Could not close run log")
	util.Assert(err)

	fmt.Printf("%s\n", summary)
	fmt.Printf("Results saved in %s\n", summary.OutputDir)
	fmt.Printf("Summary database: %s\n", summary.Database)
}

func run(conf batch.Config, logger l.Logger) (*batch.Summary, error) {
	driver, err := batch.New(conf, logger)
	if err != nil {
		return nil, err
	}
	defer driver.Close()

	jobs, err := driver.Jobs()
	if err != nil {
		return nil, fmt.Errorf("Could not search '%s': %w", conf.InputDir, err)
	}
	if len(jobs) == 0 {
		util.Warnf("No pairs of structures found in '%s'.", conf.InputDir)
	}
	util.Verbosef("Comparing %d pairs with %d workers.\n",
		len(jobs), driver.Config().Workers)

	progress := util.NewProgress(len(jobs))
	summary, err := driver.Run(jobs, progress)
	progress.Close()
	if err != nil {
		return nil, fmt.Errorf("Could not record results: %w", err)
	}
	logger.Info("Run finished", "run_id", summary.RunID,
		"succeeded", summary.Succeeded, "skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

// config reads the config file, if any, and lets the command line override
// it.
func config() batch.Config {
	conf := batch.Config{}
	if len(util.FlagConfig) > 0 {
		fromFile, err := batch.LoadConfigFile(util.FlagConfig)
		util.Assert(err, "Could not read config file '%s'", util.FlagConfig)
		conf = *fromFile
	}

	if util.NArg() > 0 {
		conf.InputDir = util.Arg(0)
	}
	if len(conf.InputDir) == 0 || util.NArg() > 1 {
		util.Usage()
	}
	if util.FlagWasSet("out-dir") {
		conf.OutputDir = util.FlagOutDir
	}
	if util.FlagWasSet("db") {
		conf.Database = util.FlagDatabase
	}
	if util.FlagWasSet("tmalign") {
		conf.TMAlign = util.FlagTMAlign
	}
	if util.FlagWasSet("pattern") {
		conf.PrefixPattern = util.FlagPattern
	}
	if util.FlagWasSet("workers") {
		conf.Workers = util.FlagWorkers
	}
	if util.FlagWasSet("verbose") {
		conf.Verbose = util.FlagVerbose
	}
	if util.FlagWasSet("log-json") {
		conf.LogJSON = util.FlagLogJSON
	}
	if util.FlagWasSet("no-copy") {
		conf.NoCopy = util.FlagNoCopy
	}
	util.FlagVerbose = conf.Verbose
	return conf
}

func outputDir(dir string) string {
	if len(dir) > 0 {
		return dir
	}
	return batch.DefaultOutputDir()
}
