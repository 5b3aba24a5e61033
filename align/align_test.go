package align

import (
	"math/rand"

	"github.com/TuftsBCB/pairalign/pdb"
	"github.com/TuftsBCB/pairalign/rmsd"
)

var rng = rand.New(rand.NewSource(7))

// residue makes a residue with a carbon-alpha atom. Pass a nil coordinate
// to leave the atom out.
func residue(num int, icode byte, name byte, ca *pdb.Coords) *pdb.Residue {
	return &pdb.Residue{
		ID:   pdb.ResidueID{Num: num, ICode: icode},
		Name: name,
		Ca:   ca,
	}
}

func at(x, y, z float64) *pdb.Coords {
	return &pdb.Coords{x, y, z}
}

// randomChain makes a chain with a random subset of residue numbers in
// [1, 40], some of which are missing their carbon-alpha atom, in a random
// order.
func randomChain() *pdb.Chain {
	var residues []*pdb.Residue
	for num := 1; num <= 40; num++ {
		if rng.Intn(3) == 0 {
			continue
		}
		var ca *pdb.Coords
		if rng.Intn(5) != 0 {
			ca = at(rng.Float64()*50, rng.Float64()*50, rng.Float64()*50)
		}
		residues = append(residues, residue(num, ' ', 'A'+byte(rng.Intn(20)), ca))
	}
	rng.Shuffle(len(residues), func(i, j int) {
		residues[i], residues[j] = residues[j], residues[i]
	})
	return pdb.NewChain('A', residues)
}

func randomCoords(n int) []rmsd.Coords {
	cs := make([]rmsd.Coords, n)
	for i := range cs {
		cs[i] = rmsd.Coords{
			rng.Float64() * 40, rng.Float64() * 40, rng.Float64() * 40,
		}
	}
	return cs
}

// randomWalk makes a chain-like trace with consecutive points 3.8 apart.
func randomWalk(n int) []rmsd.Coords {
	cs := make([]rmsd.Coords, n)
	for i := 1; i < n; i++ {
		var step rmsd.Coords
		var norm float64
		for norm < 1e-3 {
			step = rmsd.Coords{rng.NormFloat64(), rng.NormFloat64(),
				rng.NormFloat64()}
			norm = step.Dist(rmsd.Coords{})
		}
		for j := range step {
			cs[i][j] = cs[i-1][j] + 3.8*step[j]/norm
		}
	}
	return cs
}

func sequence(n int) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = 'A' + byte(rng.Intn(20))
	}
	return seq
}
