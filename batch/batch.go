package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/baditaflorin/l"
	"github.com/google/uuid"

	"github.com/TuftsBCB/pairalign/align"
	"github.com/TuftsBCB/pairalign/apps/tmalign"
	"github.com/TuftsBCB/pairalign/pdb"
	"github.com/TuftsBCB/pairalign/report"
	"github.com/TuftsBCB/pairalign/resultdb"
)

// Output file names inside each pair's directory.
const (
	FileSuperposed = "superposed_structure.pdb"
	FileResults    = "alignment_results.txt"
	FileRasmol     = "view_superposition.rms"
)

// Reporter is told about every finished job. A nil error means the job
// succeeded. util.Progress satisfies it.
type Reporter interface {
	JobDone(err error)
}

// Outcome is the result of one job.
type Outcome struct {
	Job    Job
	Status string
	Err    error

	// Result is nil when the structures could not be loaded.
	Result *align.Result
}

// Summary counts the outcomes of a run.
type Summary struct {
	RunID     string
	OutputDir string
	Database  string

	Succeeded, Skipped, Failed int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed",
		s.Succeeded, s.Skipped, s.Failed)
}

// Driver runs the comparisons of one batch.
type Driver struct {
	conf   Config
	prefix *regexp.Regexp
	log    l.Logger
	db     *resultdb.DB
	runID  string
	oracle *tmalign.Config
}

// New validates the configuration, creates the output directory and opens
// the summary database. The caller must call Close.
func New(conf Config, logger l.Logger) (*Driver, error) {
	if err := CheckInputDir(conf.InputDir); err != nil {
		return nil, err
	}

	started := time.Now()
	conf.defaults(started)
	prefix, err := conf.prefixRegexp()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(conf.OutputDir, 0777); err != nil {
		return nil, fmt.Errorf("Could not create output directory '%s': %w",
			conf.OutputDir, err)
	}

	db, err := resultdb.Open(conf.Database)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		conf:   conf,
		prefix: prefix,
		log:    logger,
		db:     db,
		runID:  uuid.NewString(),
	}
	if conf.TMAlign != "" {
		d.oracle = &tmalign.Config{Exec: conf.TMAlign, Verbose: conf.Verbose}
	}

	err = db.BeginRun(resultdb.Run{
		ID:        d.runID,
		InputDir:  conf.InputDir,
		OutputDir: conf.OutputDir,
		Started:   started,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// CheckInputDir returns an error unless dir names an accessible directory.
func CheckInputDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("No input directory given.")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("Input directory '%s' is not accessible: %w",
			dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory.", dir)
	}
	return nil
}

// Config returns the configuration with all defaults filled in.
func (d *Driver) Config() Config {
	return d.conf
}

// DB returns the summary database of the run.
func (d *Driver) DB() *resultdb.DB {
	return d.db
}

// RunID identifies this run in the summary database.
func (d *Driver) RunID() string {
	return d.runID
}

// Jobs discovers every pair of structures to compare.
func (d *Driver) Jobs() ([]Job, error) {
	groups, err := Discover(d.conf.InputDir, d.prefix)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	for _, g := range groups {
		jobs = append(jobs, g.Pairs()...)
	}
	return jobs, nil
}

// Run compares every job on the configured number of workers. Pair failures
// are counted in the summary and never stop the run; an error is only
// returned when the summary database cannot be written.
//
// progress may be nil.
func (d *Driver) Run(jobs []Job, progress Reporter) (*Summary, error) {
	summary := &Summary{
		RunID:     d.runID,
		OutputDir: d.conf.OutputDir,
		Database:  d.db.Path(),
	}

	workers := d.conf.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}
	p := d.newWorkers(workers)
	go func() {
		for _, job := range jobs {
			p.enqueue(job)
		}
		p.done()
	}()

	var dbErr error
	for out := range p.outcomes {
		switch out.Status {
		case resultdb.StatusSucceeded:
			summary.Succeeded++
		case resultdb.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		if progress != nil {
			progress.JobDone(out.Err)
		}
		if err := d.db.Write(d.record(out)); err != nil && dbErr == nil {
			dbErr = err
		}
	}
	return summary, dbErr
}

func (d *Driver) Close() error {
	return d.db.Close()
}

// process runs one job from loading both structures to writing its outputs.
func (d *Driver) process(job Job) Outcome {
	out := Outcome{Job: job}

	entry1, err := pdb.ReadPDB(job.File1)
	if err != nil {
		return d.fail(out, err)
	}
	entry2, err := pdb.ReadPDB(job.File2)
	if err != nil {
		return d.fail(out, err)
	}

	out.Result = align.Compare(entry1.FirstChain(), entry2.FirstChain())
	if !out.Result.Ok() {
		out.Status, out.Err = resultdb.StatusSkipped, out.Result.Err
		d.log.Warn("Skipping pair", "pair", job.String(),
			"matched", len(out.Result.Correspondence),
			"error", out.Err.Error())
		return out
	}

	var oracle *tmalign.Result
	if d.oracle != nil {
		oracle, err = d.oracle.Run(job.File1, job.File2)
		if err != nil {
			d.log.Warn("TM-align failed", "pair", job.String(),
				"error", err.Error())
			oracle = nil
		}
	}

	if err := d.writeOutputs(job, entry2, out.Result, oracle); err != nil {
		return d.fail(out, err)
	}
	if err := out.Result.MarkReported(); err != nil {
		return d.fail(out, err)
	}
	out.Status = resultdb.StatusSucceeded
	d.log.Info("Compared pair", "pair", job.String(),
		"tm_score", out.Result.Similarity.TMScore,
		"rmsd", out.Result.RMSD,
		"matched", len(out.Result.Correspondence))
	return out
}

func (d *Driver) fail(out Outcome, err error) Outcome {
	out.Status, out.Err = resultdb.StatusFailed, err
	d.log.Error("Pair failed", "pair", out.Job.String(), "error", err.Error())
	return out
}

func (d *Driver) writeOutputs(job Job, mobile *pdb.Entry,
	r *align.Result, oracle *tmalign.Result) error {

	dir := filepath.Join(d.conf.OutputDir, job.Dir())
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	err := writeFile(filepath.Join(dir, FileSuperposed), func(w io.Writer) error {
		return mobile.WriteTransformed(w, r.Move)
	})
	if err != nil {
		return err
	}
	err = writeFile(filepath.Join(dir, FileResults), func(w io.Writer) error {
		return report.Write(w, r, oracle)
	})
	if err != nil {
		return err
	}
	base1, base2 := filepath.Base(job.File1), filepath.Base(job.File2)
	err = writeFile(filepath.Join(dir, FileRasmol), func(w io.Writer) error {
		return report.WriteRasmol(w, base1, base2)
	})
	if err != nil {
		return err
	}

	if d.conf.NoCopy {
		return nil
	}
	if err := copyFile(job.File1, filepath.Join(dir, base1)); err != nil {
		return err
	}
	return copyFile(job.File2, filepath.Join(dir, base2))
}

func (d *Driver) record(out Outcome) resultdb.Pair {
	n1, n2 := out.Job.Names()
	p := resultdb.Pair{
		RunID:  d.runID,
		Folder: out.Job.Folder,
		Prefix: out.Job.Prefix,
		Name1:  n1,
		Name2:  n2,
		Status: out.Status,
	}
	if out.Err != nil {
		p.Message = out.Err.Error()
	}
	if out.Result != nil {
		p.Matched = len(out.Result.Correspondence)
		if out.Result.Ok() {
			p.RMSD = out.Result.RMSD
			p.TMScore = out.Result.Similarity.TMScore
		}
	}
	return p
}

// writeFile creates path and hands it to write, making sure the file is
// closed and that an error closing it is reported.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("Could not write '%s': %w", path, err)
	}
	return f.Close()
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeFile(dest, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
