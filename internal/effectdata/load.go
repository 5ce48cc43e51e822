package effectdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// File name suffixes of the three tables inside a tables directory.
// One file per set, e.g. a1_move_effects.csv.
const (
	MoveFileSuffix    = "_move_effects.csv"
	AbilityFileSuffix = "_ability_effects.csv"
	TrainerFileSuffix = "_trainer_effects.csv"
)

// ErrMissingColumn is returned when a table header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

var requiredColumns = map[TableKind][]string{
	TableMoves:     {"set", "number", "pokemonName", "attackName", "effect_type"},
	TableAbilities: {"set", "number", "abilityName", "effect_type"},
	TableTrainers:  {"id", "trainerName", "effect_type"},
}

// ParseCSV reads one effect table. The first record is the header; columns
// are matched by name so extra or reordered columns are tolerated. Rows with
// no effect kind are kept: they still identify the card for display.
func ParseCSV(r io.Reader, kind TableKind) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", kind, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns[kind] {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%s table: %w %q", kind, ErrMissingColumn, c)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", kind, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := Row{
			Kind:   strings.ToLower(get("effect_type")),
			Param1: get("param1"),
			Param2: get("param2"),
			Text:   get("text"),
		}
		switch kind {
		case TableMoves:
			row.Set = NormalizeSet(get("set"))
			row.Number = PadNumber(get("number"))
			row.PokemonName = get("pokemonName")
			row.Name = get("attackName")
			row.DamageNotation = get("damageNotation")
			row.DamageBase, _ = strconv.Atoi(get("damageBase"))
		case TableAbilities:
			row.Set = NormalizeSet(get("set"))
			row.Number = PadNumber(get("number"))
			row.PokemonName = get("pokemonName")
			row.Name = get("abilityName")
			row.AbilityType = AbilityType(strings.ToLower(get("abilityType")))
		case TableTrainers:
			row.Set, row.Number = splitTrainerID(get("id"))
			row.Name = get("trainerName")
			row.TrainerType = get("trainerType")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitTrainerID splits "A1-219" into ("A1", "219"). The set code itself may
// contain dashes (P-A), so the split is on the last one.
func splitTrainerID(id string) (string, string) {
	i := strings.LastIndex(id, "-")
	if i < 0 {
		return NormalizeSet(id), ""
	}
	return NormalizeSet(id[:i]), PadNumber(id[i+1:])
}

// LoadFile parses a single table file.
func LoadFile(path string, kind TableKind) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ParseCSV(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// LoadDir loads every table file found in dir, parsing files concurrently.
// Rows keep a deterministic order: files sorted by name, rows in file order.
func LoadDir(ctx context.Context, dir string) (*Tables, error) {
	type job struct {
		path string
		kind TableKind
	}
	var jobs []job
	for kind, suffix := range map[TableKind]string{
		TableMoves:     MoveFileSuffix,
		TableAbilities: AbilityFileSuffix,
		TableTrainers:  TrainerFileSuffix,
	} {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
		if err != nil {
			return nil, fmt.Errorf("glob %s tables: %w", kind, err)
		}
		for _, m := range matches {
			jobs = append(jobs, job{path: m, kind: kind})
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].path < jobs[j].path })

	results := make([][]Row, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := LoadFile(j.path, j.kind)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load effect tables from %s: %w", dir, err)
	}

	var moves, abilities, trainers []Row
	for i, j := range jobs {
		switch j.kind {
		case TableMoves:
			moves = append(moves, results[i]...)
		case TableAbilities:
			abilities = append(abilities, results[i]...)
		case TableTrainers:
			trainers = append(trainers, results[i]...)
		}
	}
	return NewTables(moves, abilities, trainers), nil
}
