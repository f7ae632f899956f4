package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mkwant/list-to-sheets/internal/tabular"
	"github.com/mkwant/list-to-sheets/internal/workbook"
)

var (
	flagInput        string
	flagOutputDir    string
	flagSheets       []string
	flagPriorityFile string
	flagGroupColumn  string
	flagRankColumn   string
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort workbook sheets by title group and country preference",
	Long: `Sort reads the named sheets of an xlsx workbook and writes one sorted
output file per sheet. Rows stay grouped by adjacent equal titles, in
the order the groups first appear; within a group rows are ordered by
the priority list. Rows with a country missing from the priority list
are kept, logged, and sorted last within their group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		priority := tabular.DefaultCountryOrder
		if flagPriorityFile != "" {
			f, err := os.Open(flagPriorityFile)
			if err != nil {
				return err
			}
			defer f.Close()
			if priority, err = tabular.ParsePriorityList(f); err != nil {
				return err
			}
		}

		keys := tabular.SortKeys{GroupColumn: flagGroupColumn, RankColumn: flagRankColumn}
		for _, sheet := range flagSheets {
			table, err := workbook.ReadSheet(flagInput, sheet)
			if err != nil {
				return err
			}

			sorted, err := tabular.Sort(log, table, priority, keys)
			if err != nil {
				return err
			}

			path, err := workbook.Write(sorted, flagOutputDir, flagInput)
			if err != nil {
				return err
			}
			log.Info().Str("sheet", sheet).Str("path", path).Int("rows", len(sorted.Rows)).Msg("sheet sorted")
		}
		return nil
	},
}

func init() {
	sortCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input xlsx workbook")
	sortCmd.Flags().StringVarP(&flagOutputDir, "output", "o", "Output", "directory for sorted output files")
	sortCmd.Flags().StringSliceVar(&flagSheets, "sheets", workbook.DefaultSheetNames, "sheet names to sort")
	sortCmd.Flags().StringVar(&flagPriorityFile, "priority", "", "file with one country code per line, highest preference first (default: built-in order)")
	sortCmd.Flags().StringVar(&flagGroupColumn, "group-column", tabular.DefaultSortKeys.GroupColumn, "column holding the group key")
	sortCmd.Flags().StringVar(&flagRankColumn, "rank-column", tabular.DefaultSortKeys.RankColumn, "column holding the rank key")
	_ = sortCmd.MarkFlagRequired("input")
}
