package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/oisee/colscan/pkg/bitvec"
	"github.com/oisee/colscan/pkg/colfile"
	"github.com/oisee/colscan/pkg/column"
	"github.com/oisee/colscan/pkg/coltable"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "colscan",
		Short: "Column-store scan engine — append, scan and inspect bit-packed columns",
	}

	var file string
	var colName string
	var typStr string
	var width uint32

	appendCmd := &cobra.Command{
		Use:   "append [codes...]",
		Short: "Append codes to a column, creating the table/column if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := parseCodes(args)
			if err != nil {
				return err
			}
			t, err := openOrCreate(file)
			if err != nil {
				return err
			}
			if _, err := t.GetColumn(colName); err != nil {
				typ, err := parseLayout(typStr)
				if err != nil {
					return err
				}
				if err := t.AddColumn(colName, typ, width); err != nil {
					return err
				}
				fmt.Printf("created column %q (%s, width %d)\n", colName, typ, width)
			}
			if err := t.AppendToColumn(colName, codes); err != nil {
				return err
			}
			col, err := t.GetColumn(colName)
			if err != nil {
				return err
			}
			fmt.Printf("appended %d codes to %q (now %d rows, width %d)\n", len(codes), colName, col.NumCodes(), col.Width())
			return save(t, file)
		},
	}
	appendCmd.Flags().StringVar(&file, "file", "colscan.tbl", "table file")
	appendCmd.Flags().StringVar(&colName, "column", "", "column name")
	appendCmd.Flags().StringVar(&typStr, "type", "horizontal", "column layout: naive|horizontal|vertical")
	appendCmd.Flags().Uint32Var(&width, "width", 8, "initial bit width")
	appendCmd.MarkFlagRequired("column")

	var cmpStr string
	var literal uint64
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a column against a literal and print matching row positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := open(file)
			if err != nil {
				return err
			}
			cmp, err := parseComparator(cmpStr)
			if err != nil {
				return err
			}
			target := t.CreateBitVector()
			if err := t.ScanLiteral(colName, cmp, literal, target, column.Set); err != nil {
				return err
			}
			it := bitvec.NewIterator(target)
			n := 0
			for it.Advance() {
				fmt.Println(it.Pos())
				n++
			}
			fmt.Fprintf(os.Stderr, "%d matching rows\n", n)
			return nil
		},
	}
	scanCmd.Flags().StringVar(&file, "file", "colscan.tbl", "table file")
	scanCmd.Flags().StringVar(&colName, "column", "", "column name")
	scanCmd.Flags().StringVar(&cmpStr, "op", "eq", "comparator: eq|ne|gt|lt|ge|le")
	scanCmd.Flags().Uint64Var(&literal, "literal", 0, "literal to compare against")
	scanCmd.MarkFlagRequired("column")

	iterCmd := &cobra.Command{
		Use:   "iter",
		Short: "Print every code in a column, in row order",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := open(file)
			if err != nil {
				return err
			}
			it, err := t.CreateIterator(colName)
			if err != nil {
				return err
			}
			for it.Advance() {
				v, err := it.Code()
				if err != nil {
					return err
				}
				fmt.Printf("%d\t%d\n", it.Pos(), v)
			}
			return nil
		},
	}
	iterCmd.Flags().StringVar(&file, "file", "colscan.tbl", "table file")
	iterCmd.Flags().StringVar(&colName, "column", "", "column name")
	iterCmd.MarkFlagRequired("column")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print table and column size statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := open(file)
			if err != nil {
				return err
			}
			fmt.Printf("rows: %s\n", humanize.Comma(int64(t.NumRows())))
			names := t.ColumnNames()
			for _, name := range names {
				col, err := t.GetColumn(name)
				if err != nil {
					return err
				}
				bytes := estimateBytes(col)
				fmt.Printf("  %-20s %-10s width=%-3d rows=%-10s size=%s\n",
					name, col.Type(), col.Width(),
					humanize.Comma(int64(col.NumCodes())),
					humanize.Bytes(uint64(bytes)))
			}
			return nil
		},
	}
	statsCmd.Flags().StringVar(&file, "file", "colscan.tbl", "table file")

	rootCmd.AddCommand(appendCmd, scanCmd, iterCmd, statsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseCodes(args []string) ([]uint64, error) {
	codes := make([]uint64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid code %q: %w", a, err)
		}
		codes = append(codes, v)
	}
	return codes, nil
}

func parseLayout(s string) (column.Type, error) {
	switch strings.ToLower(s) {
	case "naive":
		return column.Naive, nil
	case "horizontal", "h":
		return column.Horizontal, nil
	case "vertical", "v":
		return column.Vertical, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", s)
	}
}

func parseComparator(s string) (column.Comparator, error) {
	switch strings.ToLower(s) {
	case "eq", "=":
		return column.Eq, nil
	case "ne", "!=":
		return column.Ne, nil
	case "gt", ">":
		return column.Gt, nil
	case "lt", "<":
		return column.Lt, nil
	case "ge", ">=":
		return column.Ge, nil
	case "le", "<=":
		return column.Le, nil
	default:
		return 0, fmt.Errorf("unknown comparator %q", s)
	}
}

func open(path string) (*coltable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return colfile.Load(f, coltable.Options{})
}

func openOrCreate(path string) (*coltable.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return coltable.New(coltable.Options{}), nil
	}
	return open(path)
}

func save(t *coltable.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return colfile.Save(t, f)
}

// estimateBytes reports the on-disk size of a column's raw storage words.
func estimateBytes(col *column.Column) int {
	total := 0
	for i := 0; i < col.NumBlocks(); i++ {
		total += len(col.Block(i).RawWords()) * 8
	}
	return total
}
