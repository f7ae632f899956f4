package tabular

import (
	"sort"

	"github.com/rs/zerolog"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
)

// SortKeys names the two columns the engine derives its ordering from.
type SortKeys struct {
	// GroupColumn holds the group key: a maximal run of adjacent rows
	// with equal values in this column forms one group.
	GroupColumn string

	// RankColumn holds the rank key looked up in the priority list.
	RankColumn string
}

// DefaultSortKeys matches the record-list workbooks this tool was built
// for: releases grouped by title, ordered within a title by country.
var DefaultSortKeys = SortKeys{GroupColumn: "TITLE", RankColumn: "CTY"}

// rankedRow pairs a record with its derived two-level sort key.
type rankedRow struct {
	row           Record
	groupRank     int
	secondaryRank int
}

// Sort reorders the table's rows by (group rank, secondary rank) and
// returns a new Table; the input is not modified. Group rank starts at 1
// and increments whenever a row's group key differs from the immediately
// preceding row's, so pre-existing macro ordering between groups is
// preserved and only rows within a group are reordered. Rows whose rank
// key is absent from the priority list are logged at warn level and sort
// after every ranked row of their group; they are never dropped.
//
// Rows with an equal derived key keep their original relative order.
func Sort(log zerolog.Logger, t Table, priority PriorityList, keys SortKeys) (Table, error) {
	if keys.GroupColumn == "" || keys.RankColumn == "" {
		return Table{}, lserrors.New("sort", lserrors.ErrInvalidInput).
			WithSource(t.Source).
			WithMessage("group and rank column names cannot be empty")
	}

	groupIdx := t.ColumnIndex(keys.GroupColumn)
	if groupIdx < 0 {
		return Table{}, lserrors.New("sort", lserrors.ErrInvalidInput).
			WithSource(t.Source).
			WithName(keys.GroupColumn).
			WithMessage("group column not present in table")
	}
	rankIdx := t.ColumnIndex(keys.RankColumn)
	if rankIdx < 0 {
		return Table{}, lserrors.New("sort", lserrors.ErrInvalidInput).
			WithSource(t.Source).
			WithName(keys.RankColumn).
			WithMessage("rank column not present in table")
	}

	ranked := annotate(log, t, priority, groupIdx, rankIdx)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].groupRank != ranked[j].groupRank {
			return ranked[i].groupRank < ranked[j].groupRank
		}
		return ranked[i].secondaryRank < ranked[j].secondaryRank
	})

	out := Table{
		Source:  t.Source,
		Columns: t.Columns,
		Rows:    make([]Record, len(ranked)),
	}
	for i, rr := range ranked {
		out.Rows[i] = rr.row
	}
	return out, nil
}

// annotate walks the rows once, in original order, deriving each row's
// two-level sort key. It is a pure function over the input table: the
// derived ranks live on the returned slice, never on the table itself.
func annotate(log zerolog.Logger, t Table, priority PriorityList, groupIdx, rankIdx int) []rankedRow {
	ranked := make([]rankedRow, 0, len(t.Rows))

	groupRank := 0
	prevGroup := ""
	for i, row := range t.Rows {
		group := row.value(groupIdx)
		// The first row always opens a new group; after that a group
		// ends only when the key changes between adjacent rows. Equal
		// keys separated by a different key are distinct groups.
		if i == 0 || group != prevGroup {
			groupRank++
		}
		prevGroup = group

		token := row.value(rankIdx)
		secondary, ok := priority.Rank(token)
		if !ok {
			log.Warn().
				Str("source", t.Source).
				Str("value", token).
				Int("row", i).
				Strs("record", row).
				Msg("rank key not in priority list, sorting row last within its group")
		}

		ranked = append(ranked, rankedRow{
			row:           row,
			groupRank:     groupRank,
			secondaryRank: secondary,
		})
	}
	return ranked
}
