/*
pdb-superpose compares the first chains of two PDB files. Residues are paired
by residue number and insertion code, the second structure is superposed onto
the first using the carbon-alpha atoms of the shared residues, and the
TM-score, RMSD, transformation and a residue by residue comparison are
printed.

A PDB file may either be plain text or compressed using the Lempel-Ziv coding
(i.e., gzip). If the PDB file is gzipped, it must end with a '.gz' extension.

Usage:
	pdb-superpose [flags] pdb-file pdb-file

The flags are:
	-out file
		Write the second structure, moved onto the first, to this file.
	-tmalign path
		Also run the TM-align executable at path and report its scores.
	-verbose
		Print the number of shared residues before the results.

Details

The superposition is computed with the Kabsch algorithm: the rotation that
minimizes the RMSD of the paired atoms comes from the singular value
decomposition of their cross covariance matrix, with a reflection removed
when necessary. The TM-score is normalized by the length of the first chain.
*/
package documentation
