package hexes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hexmap/internal/geom"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".json", ".js", ".geojson", ".csv", ".yaml", ".yml"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads a hex dataset, picking the format from the file extension.
// Column alignment is not checked here; the renderer rejects misaligned data.
func Load(path string) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".geojson":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".js":
		return ParseJS(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("hexes: unsupported file %q", ext)
}

// ParseJS reads the page asset form `var hexes = {...};`.
func ParseJS(data []byte) (*Dataset, error) {
	s := bytes.TrimSpace(data)
	if i := bytes.IndexByte(s, '='); i >= 0 {
		if j := bytes.IndexAny(s, "{["); j < 0 || i < j {
			s = s[i+1:]
		}
	}
	s = bytes.TrimSpace(s)
	s = bytes.TrimSuffix(s, []byte(";"))
	return ParseJSON(s)
}

// ParseJSON accepts column orient (an object of columns, each an array or an
// object keyed by row index) or record orient (an array of rows).
func ParseJSON(data []byte) (*Dataset, error) {
	s := bytes.TrimSpace(data)
	if len(s) == 0 {
		return nil, errors.New("hexes: empty json")
	}
	if s[0] == '[' {
		return parseJSONRecords(s)
	}
	return parseJSONColumns(s)
}

type jsonRecord struct {
	HexID   any          `json:"hex_id"`
	ID      any          `json:"id"`
	Count   json.Number  `json:"count"`
	Corners []geom.Coord `json:"corners"`
}

func parseJSONRecords(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []jsonRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("hexes: %w", err)
	}
	recs := make([]Record, 0, len(raw))
	for i, r := range raw {
		count, err := parseCount(r.Count)
		if err != nil {
			return nil, fmt.Errorf("hexes: row %d: %w", i, err)
		}
		id := r.HexID
		if id == nil {
			id = r.ID
		}
		recs = append(recs, Record{ID: idString(id), Count: count, Corners: r.Corners})
	}
	return FromRecords(recs), nil
}

func parseJSONColumns(data []byte) (*Dataset, error) {
	var cols map[string]json.RawMessage
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("hexes: %w", err)
	}
	for _, name := range []string{"corners", "hex_id", "count"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("hexes: missing column %q", name)
		}
	}

	// corners decides the row keys; other columns of equal length must
	// carry the same keys or rows would be joined to the wrong hex
	rows, vals, err := columnValues(cols["corners"])
	if err != nil {
		return nil, fmt.Errorf("hexes: column corners: %w", err)
	}
	column := func(name string) ([]json.RawMessage, error) {
		keys, vals, err := columnValues(cols[name])
		if err != nil {
			return nil, fmt.Errorf("hexes: column %s: %w", name, err)
		}
		if len(keys) == len(rows) && !slices.Equal(keys, rows) {
			return nil, fmt.Errorf("hexes: column %s rows %v do not match corners rows %v", name, keys, rows)
		}
		return vals, nil
	}

	var d Dataset
	if _, ok := cols["corner0"]; ok {
		vals, err := column("corner0")
		if err != nil {
			return nil, err
		}
		d.Corner0 = make([]geom.Coord, len(vals))
		for i, v := range vals {
			if err := json.Unmarshal(v, &d.Corner0[i]); err != nil {
				return nil, fmt.Errorf("hexes: corner0 row %d: %w", i, err)
			}
		}
	}

	d.Corners = make([][]geom.Coord, len(vals))
	for i, v := range vals {
		if err := json.Unmarshal(v, &d.Corners[i]); err != nil {
			return nil, fmt.Errorf("hexes: corners row %d: %w", i, err)
		}
	}

	if vals, err = column("hex_id"); err != nil {
		return nil, err
	}
	d.HexID = make([]string, len(vals))
	for i, v := range vals {
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var id any
		if err := dec.Decode(&id); err != nil {
			return nil, fmt.Errorf("hexes: hex_id row %d: %w", i, err)
		}
		d.HexID[i] = idString(id)
	}

	if vals, err = column("count"); err != nil {
		return nil, err
	}
	d.Count = make([]int, len(vals))
	for i, v := range vals {
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return nil, fmt.Errorf("hexes: count row %d: %w", i, err)
		}
		if d.Count[i], err = parseCount(n); err != nil {
			return nil, fmt.Errorf("hexes: count row %d: %w", i, err)
		}
	}
	return &d, nil
}

// columnValues returns a column's row indexes and cells in row order. Array
// columns are indexed by position; object columns are keyed by row index
// ("0", "1", ...) and ordered numerically.
func columnValues(raw json.RawMessage) ([]int, []json.RawMessage, error) {
	s := bytes.TrimSpace(raw)
	if len(s) > 0 && s[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(s, &arr); err != nil {
			return nil, nil, err
		}
		keys := make([]int, len(arr))
		for i := range keys {
			keys[i] = i
		}
		return keys, arr, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(s, &obj); err != nil {
		return nil, nil, err
	}
	keys := make([]int, 0, len(obj))
	byKey := make(map[int]json.RawMessage, len(obj))
	for k, v := range obj {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, nil, fmt.Errorf("row key %q is not an index", k)
		}
		keys = append(keys, idx)
		byKey[idx] = v
	}
	sort.Ints(keys)
	out := make([]json.RawMessage, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return keys, out, nil
}

type yamlRecord struct {
	HexID   any         `yaml:"hex_id"`
	ID      any         `yaml:"id"`
	Count   int         `yaml:"count"`
	Corners [][]float64 `yaml:"corners"`
}

// ParseYAML reads record orient rows.
func ParseYAML(data []byte) (*Dataset, error) {
	var raw []yamlRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("hexes: %w", err)
	}
	recs := make([]Record, 0, len(raw))
	for i, r := range raw {
		corners := make([]geom.Coord, 0, len(r.Corners))
		for _, c := range r.Corners {
			if len(c) < 2 {
				return nil, fmt.Errorf("hexes: row %d: corner needs lat and lon", i)
			}
			corners = append(corners, geom.Coord{c[0], c[1]})
		}
		id := r.HexID
		if id == nil {
			id = r.ID
		}
		recs = append(recs, Record{ID: idString(id), Count: r.Count, Corners: corners})
	}
	return FromRecords(recs), nil
}

func parseCount(n json.Number) (int, error) {
	if n == "" {
		return 0, errors.New("missing count")
	}
	if v, err := n.Int64(); err == nil {
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("count %q is not an integer", n.String())
	}
	return int(f), nil
}

func idString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}
