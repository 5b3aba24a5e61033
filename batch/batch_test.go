package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/baditaflorin/l"

	"github.com/TuftsBCB/pairalign/pdb"
	"github.com/TuftsBCB/pairalign/resultdb"
)

var trace = [][3]float64{
	{0, 0, 0},
	{3.8, 0, 0},
	{3.8, 3.8, 0},
	{0, 3.8, 3.8},
	{1, 2, 7},
	{4, 5, 9},
}

// pdbText makes a single chain PDB file with one carbon-alpha per residue,
// numbered from 1, with every coordinate shifted by dx.
func pdbText(seq string, dx float64) string {
	var lines []string
	for i := range seq {
		c := trace[i%len(trace)]
		three := pdb.AminoOneToThree[seq[i]]
		lines = append(lines, fmt.Sprintf(
			"ATOM  %5d  CA  %3s A%4d    %8.3f%8.3f%8.3f  1.00  0.00           C",
			i+1, three, i+1, c[0]+dx, c[1], c[2]+float64(i)))
	}
	lines = append(lines, "END")
	return strings.Join(lines, "\n") + "\n"
}

func writeInput(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0666); err != nil {
			t.Fatal(err)
		}
	}
}

func testLogger(t *testing.T) l.Logger {
	logger, err := NewLogger(io.Discard, false)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func sampleInput(t *testing.T) string {
	in := t.TempDir()
	writeInput(t, in, map[string]string{
		"set1/e1_a.pdb":         pdbText("MKVLAG", 0),
		"set1/e1_b.pdb":         pdbText("MKILAG", 25),
		"set1/e1_c.pdb":         pdbText("MK", 5),
		"set1/e2_alone.pdb":     pdbText("MKVLAG", 0),
		"set1/x1_nomatch.pdb":   pdbText("MKVLAG", 0),
		"set1/notes.txt":        "not a structure",
		"set2/e3_a.pdb":         pdbText("GGGGG", 0),
		"set2/e3_broken.pdb":    "ATOM      1  CA  GLY A   x",
		"top_level_e9_file.pdb": pdbText("MKVLAG", 0),
	})
	return in
}

func TestDiscover(t *testing.T) {
	in := sampleInput(t)
	groups, err := Discover(in, regexp.MustCompile(DefaultPrefixPattern))
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, g := range groups {
		var names []string
		for _, f := range g.Files {
			names = append(names, structName(f))
		}
		got = append(got, fmt.Sprintf("%s/%s:%s",
			g.Folder, g.Prefix, strings.Join(names, ",")))
	}
	want := "set1/e1:e1_a,e1_b,e1_c set1/e2:e2_alone set2/e3:e3_a,e3_broken"
	if strings.Join(got, " ") != want {
		t.Fatalf("Expected groups\n%s\nbut got\n%s",
			want, strings.Join(got, " "))
	}
}

func TestPairs(t *testing.T) {
	g := Group{Folder: "f", Prefix: "e1", Files: []string{"a.pdb", "b.pdb",
		"c.pdb.gz", "d.pdb"}}
	jobs := g.Pairs()
	if len(jobs) != 6 {
		t.Fatalf("Expected 6 pairs but got %d.", len(jobs))
	}
	n1, n2 := jobs[2].Names()
	if n1 != "a" || n2 != "d" {
		t.Fatalf("Expected the third pair to be a vs d but got %s vs %s.",
			n1, n2)
	}
	if dir := jobs[4].Dir(); dir != filepath.Join("f", "b_vs_d") {
		t.Fatalf("Unexpected job directory %s.", dir)
	}
	if len((Group{Files: []string{"a.pdb"}}).Pairs()) != 0 {
		t.Fatalf("A single file has no pairs.")
	}
}

func TestRun(t *testing.T) {
	in, out := sampleInput(t), filepath.Join(t.TempDir(), "results")
	d, err := New(Config{InputDir: in, OutputDir: out, Workers: 3},
		testLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	jobs, err := d.Jobs()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 4 {
		t.Fatalf("Expected 4 jobs but got %d.", len(jobs))
	}

	progress := &countingReporter{}
	summary, err := d.Run(jobs, progress)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Succeeded != 1 || summary.Skipped != 2 || summary.Failed != 1 {
		t.Fatalf("Unexpected summary: %s", summary)
	}
	if progress.done != 4 || progress.errs != 3 {
		t.Fatalf("Progress saw %d jobs and %d errors.",
			progress.done, progress.errs)
	}

	// Only the successful pair gets an output directory.
	pairDir := filepath.Join(out, "set1", "e1_a_vs_e1_b")
	for _, name := range []string{FileSuperposed, FileResults, FileRasmol,
		"e1_a.pdb", "e1_b.pdb"} {
		if _, err := os.Stat(filepath.Join(pairDir, name)); err != nil {
			t.Errorf("Missing output file %s: %s", name, err)
		}
	}
	for _, skipped := range []string{"e1_a_vs_e1_c", "e1_b_vs_e1_c"} {
		if _, err := os.Stat(filepath.Join(out, "set1", skipped)); err == nil {
			t.Errorf("Skipped pair %s has an output directory.", skipped)
		}
	}

	// The superposed structure must lie on top of the first structure.
	first, err := pdb.ReadPDB(filepath.Join(in, "set1", "e1_a.pdb"))
	if err != nil {
		t.Fatal(err)
	}
	moved, err := pdb.ReadPDB(filepath.Join(pairDir, FileSuperposed))
	if err != nil {
		t.Fatal(err)
	}
	c1, _ := first.FirstChain().CaAtoms()
	c2, _ := moved.FirstChain().CaAtoms()
	for i := range c1 {
		for j := 0; j < 3; j++ {
			if diff := c1[i][j] - c2[i][j]; diff > 0.01 || diff < -0.01 {
				t.Fatalf("Residue %d of the superposed structure is at %v, "+
					"expected %v.", i+1, c2[i], c1[i])
			}
		}
	}

	results, err := os.ReadFile(filepath.Join(pairDir, FileResults))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(results), "TM-score: 1.0000\n") ||
		!strings.Contains(string(results), "Residue 3: V vs I - Mismatch\n") {
		t.Fatalf("Unexpected results file:\n%s", results)
	}

	pairs, err := d.DB().Pairs(d.RunID())
	if err != nil {
		t.Fatal(err)
	}
	statuses := make(map[string]string)
	for _, p := range pairs {
		statuses[p.Name1+"/"+p.Name2] = p.Status
	}
	want := map[string]string{
		"e1_a/e1_b":      resultdb.StatusSucceeded,
		"e1_a/e1_c":      resultdb.StatusSkipped,
		"e1_b/e1_c":      resultdb.StatusSkipped,
		"e3_a/e3_broken": resultdb.StatusFailed,
	}
	for k, v := range want {
		if statuses[k] != v {
			t.Errorf("Pair %s has status '%s', expected '%s'.",
				k, statuses[k], v)
		}
	}
}

func TestRunNoCopy(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, map[string]string{
		"s/e7_a.pdb": pdbText("MKVLAG", 0),
		"s/e7_b.pdb": pdbText("MKVLAG", -3),
	})
	d, err := New(Config{InputDir: in, OutputDir: out, NoCopy: true},
		testLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	jobs, err := d.Jobs()
	if err != nil {
		t.Fatal(err)
	}
	summary, err := d.Run(jobs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("Unexpected summary: %s", summary)
	}
	if _, err := os.Stat(filepath.Join(out, "s", "e7_a_vs_e7_b",
		"e7_a.pdb")); err == nil {
		t.Fatal("Inputs were copied even though NoCopy is set.")
	}
}

func TestNewErrors(t *testing.T) {
	logger := testLogger(t)
	if _, err := New(Config{}, logger); err == nil {
		t.Error("Expected an error without an input directory.")
	}
	if _, err := New(Config{InputDir: filepath.Join(t.TempDir(), "nope")},
		logger); err == nil {
		t.Error("Expected an error for a missing input directory.")
	}
	conf := Config{
		InputDir:      t.TempDir(),
		OutputDir:     t.TempDir(),
		PrefixPattern: `^e\d+`,
	}
	if _, err := New(conf, logger); err == nil {
		t.Error("Expected an error for a pattern without a capture group.")
	}
}

func TestCheckInputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "e1_a.pdb")
	writeInput(t, dir, map[string]string{"e1_a.pdb": pdbText("MKV", 0)})

	if err := CheckInputDir(dir); err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{"", filepath.Join(dir, "missing"), file} {
		if err := CheckInputDir(bad); err == nil {
			t.Errorf("Expected an error for input directory '%s'.", bad)
		}
	}
}

func TestDefaults(t *testing.T) {
	conf := Config{}
	conf.defaults(time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	if conf.OutputDir != "auto-align-20240305_140709" {
		t.Errorf("Unexpected output directory %s.", conf.OutputDir)
	}
	if conf.Database != filepath.Join(conf.OutputDir, "summary.db") {
		t.Errorf("Unexpected database path %s.", conf.Database)
	}
	if conf.Workers < 1 || conf.PrefixPattern != DefaultPrefixPattern {
		t.Errorf("Defaults not filled in: %+v", conf)
	}
}

func TestLoadConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pairalign.yaml")
	yml := "input_dir: /data/structures\n" +
		"prefix_pattern: '^(t\\d+)'\n" +
		"workers: 3\n" +
		"tmalign: /usr/local/bin/TMalign\n" +
		"no_copy: true\n"
	if err := os.WriteFile(p, []byte(yml), 0666); err != nil {
		t.Fatal(err)
	}
	conf, err := LoadConfigFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if conf.InputDir != "/data/structures" || conf.PrefixPattern != `^(t\d+)` ||
		conf.Workers != 3 || conf.TMAlign != "/usr/local/bin/TMalign" ||
		!conf.NoCopy {
		t.Fatalf("Unexpected config: %+v", conf)
	}

	if err := os.WriteFile(p, []byte("workers: [1"), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(p); err == nil {
		t.Fatal("Expected an error for malformed YAML.")
	}
}

type countingReporter struct {
	done, errs int
}

func (r *countingReporter) JobDone(err error) {
	r.done++
	if err != nil {
		r.errs++
	}
}
