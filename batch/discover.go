package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Group is a set of structure files in one folder that share a prefix.
type Group struct {
	Folder string
	Prefix string
	Files  []string
}

// Job is one pair of structure files to compare.
type Job struct {
	Folder, Prefix string
	File1, File2   string
}

// Names returns the file names of both structures without their
// extensions.
func (j Job) Names() (string, string) {
	return structName(j.File1), structName(j.File2)
}

// Dir returns the output directory of the job, relative to the run's output
// directory.
func (j Job) Dir() string {
	n1, n2 := j.Names()
	return filepath.Join(j.Folder, n1+"_vs_"+n2)
}

func (j Job) String() string {
	n1, n2 := j.Names()
	return fmt.Sprintf("%s vs %s in %s/%s", n1, n2, j.Folder, j.Prefix)
}

func isStructFile(name string) bool {
	return strings.HasSuffix(name, ".pdb") || strings.HasSuffix(name, ".pdb.gz")
}

func structName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, ".pdb")
}

// Discover finds every structure file (ending in ".pdb" or ".pdb.gz") in the
// direct subfolders of inputDir and groups the files of each subfolder by the
// first capture group of prefix. Files whose names don't match are ignored,
// as are files directly in inputDir.
//
// Groups are ordered by folder and then by prefix. Files within a group are
// sorted by name.
func Discover(inputDir string, prefix *regexp.Regexp) ([]Group, error) {
	folders, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var groups []Group
	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}
		folderPath := filepath.Join(inputDir, folder.Name())
		files, err := os.ReadDir(folderPath)
		if err != nil {
			return nil, err
		}

		byPrefix := make(map[string][]string)
		for _, file := range files {
			if file.IsDir() || !isStructFile(file.Name()) {
				continue
			}
			m := prefix.FindStringSubmatch(file.Name())
			if m == nil || m[1] == "" {
				continue
			}
			byPrefix[m[1]] = append(byPrefix[m[1]],
				filepath.Join(folderPath, file.Name()))
		}

		prefixes := make([]string, 0, len(byPrefix))
		for p := range byPrefix {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)
		for _, p := range prefixes {
			sort.Strings(byPrefix[p])
			groups = append(groups, Group{
				Folder: folder.Name(),
				Prefix: p,
				Files:  byPrefix[p],
			})
		}
	}
	return groups, nil
}

// Pairs returns every unordered pair of files in the group. The first file
// of each pair always comes before the second in the group.
func (g Group) Pairs() []Job {
	var jobs []Job
	for i := 0; i < len(g.Files); i++ {
		for j := i + 1; j < len(g.Files); j++ {
			jobs = append(jobs, Job{
				Folder: g.Folder,
				Prefix: g.Prefix,
				File1:  g.Files[i],
				File2:  g.Files[j],
			})
		}
	}
	return jobs
}
