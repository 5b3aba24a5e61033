// Package report writes the human readable results of comparing two
// structures.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/TuftsBCB/pairalign/align"
	"github.com/TuftsBCB/pairalign/apps/tmalign"
)

// Write formats a scored comparison: the TM-score, the RMSD of the
// superposition, its rotation and translation, a residue by residue
// comparison of the two sequences and the sequences themselves.
//
// oracle may be nil. When it isn't, the scores reported by TM-align are
// included after the TM-score.
func Write(w io.Writer, r *align.Result, oracle *tmalign.Result) error {
	if !r.Ok() {
		return fmt.Errorf("Cannot write a report for a comparison in "+
			"state '%s'.", r.State)
	}

	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, "TM-score: %.4f\n", r.Similarity.TMScore)
	if oracle != nil {
		fmt.Fprintf(buf, "TM-align TM-score: %.4f\n", oracle.TMScore1)
		fmt.Fprintf(buf, "TM-align RMSD: %.4f (%d aligned residues)\n",
			oracle.RMSD, oracle.AlignedLength)
	}
	fmt.Fprintf(buf, "RMSD: %.4f\n", r.RMSD)
	fmt.Fprintf(buf, "Matched residues: %d\n", len(r.Correspondence))

	fmt.Fprintf(buf, "Rotation matrix:\n")
	for i := 0; i < 3; i++ {
		row := r.Transform.Row(i)
		fmt.Fprintf(buf, "[%s %s %s]\n",
			number(row[0]), number(row[1]), number(row[2]))
	}
	t := r.Transform.Translation
	fmt.Fprintf(buf, "Translation vector: [%s %s %s]\n\n",
		number(t[0]), number(t[1]), number(t[2]))

	fmt.Fprintf(buf, "Residue-by-residue comparison:\n")
	for _, c := range r.Similarity.Classes {
		status := "Mismatch"
		if c.Match {
			status = "Match"
		}
		fmt.Fprintf(buf, "Residue %d: %c vs %c - %s\n",
			c.Pos+1, c.A, c.B, status)
	}
	fmt.Fprintf(buf, "\nSequence 1:\n%s\n", r.SeqA)
	fmt.Fprintf(buf, "Sequence 2:\n%s\n", r.SeqB)
	return buf.Flush()
}

func number(v float64) string {
	return fmt.Sprintf("%11.8f", v)
}

// WriteRasmol writes a RasMol script that loads both structure files and
// colors them by chain.
func WriteRasmol(w io.Writer, file1, file2 string) error {
	_, err := fmt.Fprintf(w, "\nload %s\nload %s\nselect all\nspacefill\n"+
		"color chain\n", file1, file2)
	return err
}
