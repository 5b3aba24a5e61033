/*
Package batch compares every pair of protein structures that share a naming
prefix within each subfolder of an input directory.

For a pair of files e1_a.pdb and e1_b.pdb in folder "set1", a successful
comparison writes the directory <output>/set1/e1_a_vs_e1_b containing:

	superposed_structure.pdb  e1_b.pdb moved onto e1_a.pdb
	alignment_results.txt     scores, transform and residue comparison
	view_superposition.rms    a RasMol script showing both structures
	e1_a.pdb, e1_b.pdb        copies of the inputs

A pair that cannot be superposed (fewer than 3 shared carbon-alpha atoms) is
skipped and produces no directory. A pair whose files cannot be read fails.
Neither stops the rest of the batch. Every outcome is recorded in a SQLite
summary database.
*/
package batch
