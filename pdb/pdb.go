package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strconv"
	"strings"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// AminoOneToThree is the reverse of AminoThreeToOne. It is created in
// this packages 'init' function.
var AminoOneToThree = map[byte]string{}

// Unknown is the one letter code given to residues that are not in
// AminoThreeToOne.
const Unknown = 'X'

func init() {
	// Create a reverse map of AminoThreeToOne.
	for k, v := range AminoThreeToOne {
		AminoOneToThree[v] = k
	}
}

// Entry represents all information known about a particular PDB file (that
// has been implemented in this package).
//
// Every line of the file is kept so that a transformed copy of the entry can
// be written with WriteTransformed.
type Entry struct {
	Path   string
	IdCode string
	Chains []*Chain

	lines []string
}

// ReadPDB creates a new PDB Entry from a file. If the file cannot be read, or
// there is an error parsing the PDB file, an error is returned.
//
// If the file name ends with ".gz", gzip decompression will be used.
func ReadPDB(fileName string) (*Entry, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("Could not decompress '%s': %w",
				fileName, err)
		}
		defer gz.Close()
		reader = gz
	}
	return Read(reader, fileName)
}

// Read parses a PDB formatted stream. fileName is only used to fill in
// Entry.Path and to describe errors.
//
// Only ATOM records from the first model contribute residues. HETATM records
// and later models are kept (and transformed by WriteTransformed), but they
// are not part of any chain.
func Read(r io.Reader, fileName string) (*Entry, error) {
	entry := &Entry{Path: fileName}

	inFirstModel := true
	breader := bufio.NewReader(r)
	for lineNum := 1; ; lineNum++ {
		line, err := breader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("Could not read '%s': %w", fileName, err)
		}
		if len(line) > 0 {
			line = strings.TrimRight(line, "\r\n")
			entry.lines = append(entry.lines, line)

			switch recordName(line) {
			case "HEADER":
				if len(line) >= 66 {
					entry.IdCode = strings.TrimSpace(line[62:66])
				}
			case "ENDMDL":
				inFirstModel = false
			case "ATOM":
				if inFirstModel {
					if perr := entry.parseAtom(line); perr != nil {
						return nil, fmt.Errorf("%s:%d: %w",
							fileName, lineNum, perr)
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
	}
	return entry, nil
}

// recordName returns the record name, which is always in the first six
// columns.
func recordName(line string) string {
	if len(line) < 6 {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[0:6])
}

// Name returns the base name of the entry's file without any extensions.
func (e *Entry) Name() string {
	base := path.Base(e.Path)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// Chain looks for the chain with identifier ident. If one does not exist,
// nil is returned.
func (e *Entry) Chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// FirstChain returns the first chain that appears in the file, or nil if the
// entry has no ATOM records.
func (e *Entry) FirstChain() *Chain {
	if len(e.Chains) == 0 {
		return nil
	}
	return e.Chains[0]
}

// getOrMakeChain looks for a chain corresponding to the chain identifier. If
// one exists, it is returned. If one doesn't exist, it is created and
// returned.
func (e *Entry) getOrMakeChain(ident byte) *Chain {
	if chain := e.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Entry:    e,
		Ident:    ident,
		residues: make(map[ResidueID]*Residue),
	}
	e.Chains = append(e.Chains, chain)
	return chain
}

// parseAtom loads all pertinent information from an ATOM record in a PDB
// file: the residue it belongs to and, for carbon-alpha atoms, the
// coordinates.
//
// Residue names that aren't in AminoThreeToOne are given the code Unknown.
func (e *Entry) parseAtom(line string) error {
	if len(line) < 54 {
		return fmt.Errorf("ATOM record has %d columns, but at least 54 "+
			"are required", len(line))
	}
	chain := e.getOrMakeChain(line[21])

	// The residue sequence number is in columns 23-26, with the insertion
	// code in column 27.
	num, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return fmt.Errorf("Could not parse residue number '%s': %w",
			line[22:26], err)
	}
	id := ResidueID{Num: num, ICode: line[26]}

	res := chain.residues[id]
	if res == nil {
		name, ok := AminoThreeToOne[strings.TrimSpace(line[17:20])]
		if !ok {
			name = Unknown
		}
		res = &Residue{ID: id, Name: name}
		chain.residues[id] = res
		chain.Residues = append(chain.Residues, res)
	}

	// Only the first alternate location of a carbon-alpha is used.
	if strings.TrimSpace(line[12:16]) == "CA" && res.Ca == nil {
		coords, err := parseCoords(line)
		if err != nil {
			return err
		}
		res.Ca = &coords
	}
	return nil
}

// parseCoords reads the x, y and z coordinates in columns 31-54.
func parseCoords(line string) (Coords, error) {
	var c Coords
	for i := 0; i < 3; i++ {
		field := strings.TrimSpace(line[30+8*i : 38+8*i])
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return c, fmt.Errorf("Could not parse coordinate '%s': %w",
				field, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return c, fmt.Errorf("Coordinate '%s' is not a finite number",
				field)
		}
		c[i] = v
	}
	return c, nil
}
