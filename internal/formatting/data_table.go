package formatting

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	tstrings "testtrail/pkg/strings"
)

const (
	indexColumn  = "(index)"
	valuesColumn = "Values"
)

// RenderDataTable writes data as a table with an index column. A list gives
// one row per element, a map one row per key. Elements that are objects
// spread their fields over columns; anything else goes to a Values column.
// Other data is printed on a single line.
func RenderDataTable(w io.Writer, data interface{}) error {
	var keys []string
	var rows []interface{}

	switch d := data.(type) {
	case []interface{}:
		for i, v := range d {
			keys = append(keys, strconv.Itoa(i))
			rows = append(rows, v)
		}
	case map[string]interface{}:
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, d[k])
		}
	default:
		_, err := fmt.Fprintln(w, PrettyJSON(data))
		return err
	}

	columns := collectColumns(rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{indexColumn}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i, v := range rows {
		row := table.Row{keys[i]}
		obj, isObj := v.(map[string]interface{})
		for _, c := range columns {
			switch {
			case isObj && c != valuesColumn:
				row = append(row, cell(obj[c]))
			case !isObj && c == valuesColumn:
				row = append(row, cell(v))
			default:
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

// collectColumns returns the sorted union of object fields, followed by
// Values when any row is not an object.
func collectColumns(rows []interface{}) []string {
	seen := map[string]bool{}
	var columns []string
	scalar := false
	for _, v := range rows {
		obj, ok := v.(map[string]interface{})
		if !ok {
			scalar = true
			continue
		}
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	if scalar {
		columns = append(columns, valuesColumn)
	}
	return columns
}

func cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return tstrings.SingleLine(x, tstrings.DefaultCellMaxLen)
	case map[string]interface{}, []interface{}:
		return tstrings.SingleLine(Compact(x), tstrings.DefaultCellMaxLen)
	default:
		return fmt.Sprint(x)
	}
}
