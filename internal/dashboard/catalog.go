// Package dashboard presents the table files of the output directory in a
// browser, grouping each award with the modifications of the same contract.
package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/a3tai/contract-data-extractor/internal/output"
)

// Kind is the document class of a table file, taken from its name.
type Kind string

const (
	KindAward        Kind = "award"
	KindModification Kind = "modification"
	KindOther        Kind = "other"
)

var contractNumber = regexp.MustCompile(`(?i)([A-Z0-9]{5,6})-?(\d{2})-?([A-Z])-?(\d{4})`)

// ParseFileName classifies a table file by its name prefix and extracts the
// normalized contract number it mentions, if any.
func ParseFileName(name string) (Kind, string) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	kind := KindOther
	switch {
	case strings.HasPrefix(base, "Award"):
		kind = KindAward
	case strings.HasPrefix(base, "Mod"):
		kind = KindModification
	}
	return kind, NormalizeContractNumber(base)
}

// NormalizeContractNumber returns the first contract number in s, upper
// case and without hyphens, or "" when there is none.
func NormalizeContractNumber(s string) string {
	m := contractNumber.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1] + m[2] + m[3] + m[4])
}

// Entry is one table file.
type Entry struct {
	File     string        `json:"file"`
	Name     string        `json:"name"`
	Kind     Kind          `json:"kind"`
	Contract string        `json:"contract,omitempty"`
	Table    *output.Table `json:"table,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Group is an award and the modifications of its contract.
type Group struct {
	Award         Entry   `json:"award"`
	Modifications []Entry `json:"modifications"`
}

// Catalog is the grouped content of an output directory.
type Catalog struct {
	Dir       string  `json:"dir"`
	Exists    bool    `json:"exists"`
	Groups    []Group `json:"groups"`
	Unmatched []Entry `json:"unmatched"`
	Other     []Entry `json:"other"`
}

// Empty reports whether the directory holds no table files
func (c *Catalog) Empty() bool {
	return len(c.Groups) == 0 && len(c.Unmatched) == 0 && len(c.Other) == 0
}

// Load reads every table file in dir, sorted by name. A missing directory
// is not an error; the catalog reports it through Exists. A file that
// cannot be read is kept with its error so it still shows up.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{Dir: dir}

	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}
	c.Exists = true

	var awards, mods []Entry
	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !output.IsTableFile(de.Name()) {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		e := loadEntry(dir, name)
		switch e.Kind {
		case KindAward:
			awards = append(awards, e)
		case KindModification:
			mods = append(mods, e)
		default:
			c.Other = append(c.Other, e)
		}
	}

	c.Groups, c.Unmatched = group(awards, mods)
	return c, nil
}

func loadEntry(dir, name string) Entry {
	kind, contract := ParseFileName(name)
	e := Entry{
		File:     name,
		Name:     strings.TrimSuffix(name, filepath.Ext(name)),
		Kind:     kind,
		Contract: contract,
	}

	table, err := output.ReadTable(filepath.Join(dir, name))
	if err != nil {
		e.Error = err.Error()
		return e
	}
	e.Table = table
	return e
}

// group attaches each modification to every award of the same contract.
// Modifications without a matching award are returned separately.
func group(awards, mods []Entry) ([]Group, []Entry) {
	groups := make([]Group, len(awards))
	byContract := make(map[string][]int)
	for i, a := range awards {
		groups[i] = Group{Award: a}
		if a.Contract != "" {
			byContract[a.Contract] = append(byContract[a.Contract], i)
		}
	}

	var unmatched []Entry
	for _, m := range mods {
		idx := byContract[m.Contract]
		if m.Contract == "" || len(idx) == 0 {
			unmatched = append(unmatched, m)
			continue
		}
		for _, i := range idx {
			groups[i].Modifications = append(groups[i].Modifications, m)
		}
	}
	return groups, unmatched
}
