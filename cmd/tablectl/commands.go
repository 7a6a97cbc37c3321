package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/core/tables"
	"github.com/JonMunkholm/tablekit/internal/table"
)

type filterFlags struct {
	field  string
	search string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.field, "search-field", "", "field to search (name, email, role)")
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive substring to match")
}

func (f *filterFlags) spec() core.FilterSpec {
	return core.FilterSpec{Field: f.field, Search: f.search}
}

func newFindCmd(s *session) *cobra.Command {
	var (
		filter filterFlags
		sortBy string
		desc   bool
		page   int
		size   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print one page of users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := core.Query{
				Filter: filter.spec(),
				Sort:   core.SortSpec{Field: sortBy, Ascending: !desc},
				Page:   table.PageRequest{Number: page, Size: size},
			}
			state, err := s.service.Find(cmd.Context(), tables.UsersKey, q)
			if err != nil {
				return userError(cmd.ErrOrStderr(), err)
			}
			info := s.users.Info()
			return writeRows(cmd.OutOrStdout(), output, info, state.Page)
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort", "id", "field to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 5, "page size")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, csv")
	return cmd
}

func newCountCmd(s *session) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print how many users match a filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := s.service.CountMatching(cmd.Context(), tables.UsersKey, filter.spec())
			if err != nil {
				return userError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	filter.register(cmd)
	return cmd
}

func newDeleteCmd(s *session) *cobra.Command {
	var (
		filter  filterFlags
		ids     []int64
		byQuery bool
		yes     bool
		write   bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete users by id or by filter",
		Long: `Deletes users by id (--ids) or every user matching the filter
(--filter). A filter delete that matches everything needs --yes.
With --write the remaining users are saved back to the seed file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if write && s.seedPath == "" {
				return errors.New("--write needs --seed")
			}

			sel := core.IDSelection(ids...)
			if byQuery {
				sel = core.FilterSelection(filter.spec())
			}

			needs, err := s.service.RequiresConfirmation(tables.UsersKey, sel)
			if err != nil {
				return userError(cmd.ErrOrStderr(), err)
			}
			if needs && !yes {
				return userError(cmd.ErrOrStderr(), core.ErrConfirmationRequired)
			}

			n, err := s.service.Delete(cmd.Context(), tables.UsersKey, sel)
			if err != nil {
				return userError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d, %d remaining\n", n, s.users.Len())

			if write {
				return saveSeed(s.seedPath, s.users.Snapshot())
			}
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "ids to delete, comma separated")
	cmd.Flags().BoolVar(&byQuery, "filter", false, "delete every user matching the filter")
	cmd.Flags().BoolVar(&yes, "yes", false, "allow a delete that empties the table")
	cmd.Flags().BoolVar(&write, "write", false, "save the remaining users to the seed file")
	cmd.MarkFlagsMutuallyExclusive("ids", "filter")
	return cmd
}

func saveSeed(path string, users []tables.User) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	if err := tables.WriteUsersYAML(f, users); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type pageJSON struct {
	Items      []core.TableRow `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

func writeRows(w io.Writer, format string, info core.TableInfo, page table.Page[core.TableRow]) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		items := page.Items
		if items == nil {
			items = []core.TableRow{}
		}
		return enc.Encode(pageJSON{
			Items:      items,
			Page:       page.CurrentPage,
			PageSize:   page.PageSize,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages(),
		})

	case "csv":
		cw := csv.NewWriter(w)
		cw.Write(info.Labels)
		for _, row := range page.Items {
			cw.Write(rowValues(info, row))
		}
		cw.Flush()
		return cw.Error()

	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeTabbed(tw, info.Labels)
		for _, row := range page.Items {
			writeTabbed(tw, rowValues(info, row))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "page %d of %d, %d matching\n", page.CurrentPage, page.TotalPages(), page.TotalItems)
		return nil

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func rowValues(info core.TableInfo, row core.TableRow) []string {
	out := make([]string, len(info.Columns))
	for i, field := range info.Columns {
		out[i] = row[field]
	}
	return out
}

func writeTabbed(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, c)
	}
	io.WriteString(w, "\n")
}
