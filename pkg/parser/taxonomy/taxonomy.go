// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package taxonomy reads the NCBI taxdump and SILVA taxonomy databases
// and resolves taxon identifiers to lineages.
package taxonomy

import (
	"bufio"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// ScientificName is the name class carrying the canonical taxon name.
const ScientificName = "scientific name"

// CanonicalRanks are the ranks Rank accepts as queries.
var CanonicalRanks = []string{
	"superkingdom", "kingdom", "phylum", "order", "family", "genus", "species",
}

// Node is one entry of nodes.dmp.
type Node struct {
	TaxID    int
	Parent   int
	Rank     string
	EmblCode string
}

// Name is one entry of names.dmp for a taxon.
type Name struct {
	// Text is the name itself, Unique its disambiguated variant when
	// the plain text is not unique
	Text   string
	Unique string
}

// Level is one step of a lineage.
type Level struct {
	Rank string
	Name string
}

// DB indexes the NCBI taxdump (nodes.dmp + names.dmp).
type DB struct {
	nodes map[int]*Node
	// names: taxid -> name class -> names
	names map[int]map[string][]Name
}

// dmp rows use "\t|\t" as field separator and "\t|" as terminator.
func splitDmp(line string) []string {
	return strings.Split(strings.TrimRight(line, "\t|\n"), "\t|\t")
}

// NewDB loads nodes.dmp and names.dmp from the NCBI taxdump archive.
func NewDB(nodesPath, namesPath string) (*DB, error) {
	db := &DB{
		nodes: map[int]*Node{},
		names: map[int]map[string][]Name{},
	}
	if err := db.loadNodes(nodesPath); err != nil {
		return nil, err
	}
	if err := db.loadNames(namesPath); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) loadNodes(path string) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		fields := splitDmp(scanner.Text())
		if len(fields) < 4 {
			return fmt.Errorf("nodes.dmp row has %d fields, want at least 4", len(fields))
		}
		taxID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("parsing tax_id: %w", err)
		}
		parent, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("parsing parent tax_id: %w", err)
		}
		db.nodes[taxID] = &Node{
			TaxID:    taxID,
			Parent:   parent,
			Rank:     fields[2],
			EmblCode: fields[3],
		}
	}
	return scanner.Err()
}

func (db *DB) loadNames(path string) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		fields := splitDmp(scanner.Text())
		if len(fields) != 4 {
			return fmt.Errorf("names.dmp row has %d fields, want 4", len(fields))
		}
		taxID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("parsing tax_id: %w", err)
		}
		if db.names[taxID] == nil {
			db.names[taxID] = map[string][]Name{}
		}
		class := fields[3]
		db.names[taxID][class] = append(db.names[taxID][class], Name{
			Text:   fields[1],
			Unique: fields[2],
		})
	}
	return scanner.Err()
}

// Node returns the taxdump node of a taxon.
func (db *DB) Node(taxID int) (*Node, bool) {
	n, ok := db.nodes[taxID]
	return n, ok
}

// Names returns the names of a taxon grouped by name class.
func (db *DB) Names(taxID int) map[string][]Name {
	return db.names[taxID]
}

func (db *DB) levelName(taxID int, class string, useUnique bool) string {
	names, ok := db.names[taxID][class]
	if !ok || len(names) == 0 {
		return ""
	}
	texts := make([]string, 0, len(names))
	for _, n := range names {
		if useUnique && n.Unique != "" {
			texts = append(texts, n.Unique)
		} else {
			texts = append(texts, n.Text)
		}
	}
	return strings.Join(texts, "|")
}

// Lineage backtraces a taxon to the root and returns the levels in
// root-to-leaf order.
func (db *DB) Lineage(taxID int, class string, useUnique bool) ([]Level, error) {
	levels := []Level{}
	seen := map[int]struct{}{}
	for id := taxID; ; {
		node, ok := db.nodes[id]
		if !ok {
			return nil, fmt.Errorf("taxon %d not found", id)
		}
		if _, cycle := seen[id]; cycle {
			return nil, fmt.Errorf("taxonomy cycle at taxon %d", id)
		}
		seen[id] = struct{}{}

		levels = append(levels, Level{
			Rank: node.Rank,
			Name: db.levelName(id, class, useUnique),
		})
		if id == 1 {
			break
		}
		id = node.Parent
	}
	slices.Reverse(levels)
	return levels, nil
}

// Rank resolves the name of one canonical rank of a taxon's lineage.
// It returns the empty string when the lineage has no such rank.
func (db *DB) Rank(taxID int, rank, class string, useUnique bool) (string, error) {
	if !slices.Contains(CanonicalRanks, rank) {
		return "", fmt.Errorf("unknown rank %q, want one of %s", rank, strings.Join(CanonicalRanks, "/"))
	}
	levels, err := db.Lineage(taxID, class, useUnique)
	if err != nil {
		return "", err
	}
	for _, lvl := range levels {
		if lvl.Rank == rank {
			return lvl.Name, nil
		}
	}
	return "", nil
}
