package tmalign

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/cmd"

	"github.com/TuftsBCB/pairalign/rmsd"
)

type Config struct {
	Exec string

	// When true, the command line executed is echoed to stderr, along with
	// TM-align's own stderr.
	Verbose bool
}

var Default = Config{
	Exec:    "TMalign",
	Verbose: false,
}

// Result is what TM-align reports about a pair of structures.
type Result struct {
	// TMScore1 and TMScore2 are normalized by the length of the first and
	// second structure, respectively.
	TMScore1, TMScore2 float64

	RMSD          float64
	AlignedLength int

	// Transform moves the first structure onto the second. This is the
	// opposite direction of align.Result.Transform.
	Transform rmsd.Transform
}

// Run will execute TM-align on two PDB files using the given configuration.
func (conf Config) Run(pdb1, pdb2 string) (*Result, error) {
	matFile, err := os.CreateTemp("", "pairalign-tmalign")
	if err != nil {
		return nil, err
	}
	matPath := matFile.Name()
	matFile.Close()
	defer os.Remove(matPath)

	var stdout bytes.Buffer
	c := cmd.New(conf.Exec, pdb1, pdb2, "-m", matPath)
	c.Cmd.Stdout = &stdout
	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s\n", c)
		c.Cmd.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		return nil, err
	}

	result, err := Parse(&stdout)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(matPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if result.Transform, err = ParseMatrix(f); err != nil {
		return nil, err
	}
	return result, nil
}

var (
	reAligned = regexp.MustCompile(
		`Aligned length=\s*(\d+),\s*RMSD=\s*([-0-9.]+)`)
	reTMScore = regexp.MustCompile(
		`TM-score=\s*([-0-9.]+)\s*\(if normalized by length of Chain_([12])`)
)

// Parse reads the scores from TM-align's standard output.
func Parse(r io.Reader) (*Result, error) {
	result := &Result{}
	var sawAligned, saw1 bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if m := reAligned.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("Bad aligned length '%s': %s", m[1], err)
			}
			rms, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("Bad RMSD '%s': %s", m[2], err)
			}
			result.AlignedLength, result.RMSD, sawAligned = n, rms, true
		} else if m := reTMScore.FindStringSubmatch(line); m != nil {
			tm, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("Bad TM-score '%s': %s", m[1], err)
			}
			if m[2] == "1" {
				result.TMScore1, saw1 = tm, true
			} else {
				result.TMScore2 = tm
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawAligned || !saw1 {
		return nil, fmt.Errorf("TM-align output is missing the aligned " +
			"length or the TM-score")
	}
	return result, nil
}

// ParseMatrix reads the rotation matrix file that TM-align writes with the
// '-m' flag. Each of the rows 0, 1 and 2 holds the translation component
// followed by a row of the rotation matrix.
func ParseMatrix(r io.Reader) (rmsd.Transform, error) {
	tr := rmsd.Identity()
	seen := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 5 {
			continue
		}
		row, err := strconv.Atoi(fields[0])
		if err != nil || row < 0 || row > 2 {
			continue
		}
		var vals [4]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(fields[i+1], 64); err != nil {
				return tr, fmt.Errorf("Bad matrix entry '%s': %s",
					fields[i+1], err)
			}
		}
		tr.Translation[row] = vals[0]
		copy(tr.Rotation[row*3:row*3+3], vals[1:])
		seen |= 1 << uint(row)
	}
	if err := scanner.Err(); err != nil {
		return tr, err
	}
	if seen != 7 {
		return tr, fmt.Errorf("TM-align matrix file is missing rows")
	}
	return tr, nil
}
