/*
pdb-pairalign superposes and scores every pair of related structures in a
directory tree. Each subfolder of the input directory is searched for PDB
files, which are grouped by a prefix of their file names (by default a
leading "e" and a number, as in "e12_model1.pdb"). Every pair of files within
a group is compared.

Usage:
	pdb-pairalign [flags] input-dir

For every pair that shares at least three residues, a directory named
"<name1>_vs_<name2>" is made in the output directory under the name of the
input subfolder. It contains the second structure superposed onto the first,
a text report of the comparison, a RasMol script showing both structures and
copies of both input files. Pairs with fewer shared residues are skipped.

The outcome of every pair is also recorded in a SQLite database, by default
summary.db in the output directory. A run log is written to run.log in the
output directory.

Settings may be given in a YAML file with -config. Flags given on the command
line take precedence over the file. Example:

	input_dir: /data/models
	prefix_pattern: '^(e\d+)'
	workers: 8
	tmalign: /usr/local/bin/TMalign
	no_copy: false
*/
package documentation
