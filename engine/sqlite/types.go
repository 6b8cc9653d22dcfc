package sqlite

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/semihalev/duckflat"
)

// columnType resolves the logical type of column i from its declared type,
// falling back to the storage class of the first non-NULL value. A column
// without a declared type and without values is reported as INTEGER.
func columnType(declared string, i int, values [][]any) duckflat.LogicalType {
	if declared != "" {
		if l, ok := duckflat.ParseLogicalType(declared); ok {
			return affinity(l)
		}
	}
	for _, row := range values {
		switch row[i].(type) {
		case nil:
			continue
		case int64:
			return duckflat.LogicalBigint
		case float64:
			return duckflat.LogicalDouble
		case bool:
			return duckflat.LogicalBoolean
		case time.Time:
			return duckflat.LogicalTimestamp
		case []byte:
			return duckflat.LogicalBlob
		default:
			return duckflat.LogicalVarchar
		}
	}
	if declared != "" {
		// Unknown declared name with NULL-only data.
		return duckflat.LogicalVarchar
	}
	return duckflat.LogicalInteger
}

// affinity folds declared types SQLite cannot hold distinctly onto the type
// its values are actually stored as.
func affinity(l duckflat.LogicalType) duckflat.LogicalType {
	switch l {
	case duckflat.LogicalDecimal:
		return duckflat.LogicalDouble
	case duckflat.LogicalUTinyint, duckflat.LogicalUSmallint, duckflat.LogicalUInteger, duckflat.LogicalUBigint:
		return duckflat.LogicalBigint
	case duckflat.LogicalTimestampS, duckflat.LogicalTimestampMS, duckflat.LogicalTimestampNS, duckflat.LogicalTimestampTZ:
		return duckflat.LogicalTimestamp
	case duckflat.LogicalTimeTZ:
		return duckflat.LogicalTime
	case duckflat.LogicalUUID, duckflat.LogicalEnum:
		return duckflat.LogicalVarchar
	default:
		return l
	}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339Nano,
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseTimeOfDay(s string) (duckflat.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05.999999999", "15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return duckflat.TimeOfDay(t), nil
		}
	}
	return duckflat.Time{}, fmt.Errorf("invalid time %q", s)
}

// convert turns a value scanned from SQLite into the Go value the logical
// type's ColumnVector accepts.
func convert(l duckflat.LogicalType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch l {
	case duckflat.LogicalBoolean:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case float64:
			return x != 0, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(x))
		}

	case duckflat.LogicalTinyint, duckflat.LogicalSmallint, duckflat.LogicalInteger, duckflat.LogicalBigint:
		switch x := v.(type) {
		case int64:
			return x, nil
		case bool:
			return x, nil
		case float64:
			if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
				return nil, fmt.Errorf("value %v is not an integer", x)
			}
			return int64(x), nil
		case string:
			return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		}

	case duckflat.LogicalHugeint:
		switch x := v.(type) {
		case int64:
			return x, nil
		case string:
			n, ok := new(big.Int).SetString(strings.TrimSpace(x), 10)
			if !ok {
				return nil, fmt.Errorf("invalid integer %q", x)
			}
			return n, nil
		}

	case duckflat.LogicalFloat, duckflat.LogicalDouble:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(x), 64)
		}

	case duckflat.LogicalDate:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			t, err := parseTimestamp(x)
			if err != nil {
				return nil, err
			}
			return t, nil
		}

	case duckflat.LogicalTime:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			return parseTimeOfDay(x)
		}

	case duckflat.LogicalTimestamp:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case int64:
			return time.Unix(x, 0).UTC(), nil
		case string:
			t, err := parseTimestamp(x)
			if err != nil {
				return nil, err
			}
			return t, nil
		}

	case duckflat.LogicalVarchar:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		case float64:
			return strconv.FormatFloat(x, 'g', -1, 64), nil
		case bool:
			return strconv.FormatBool(x), nil
		case time.Time:
			return x.Format(time.RFC3339Nano), nil
		}

	case duckflat.LogicalBlob:
		switch x := v.(type) {
		case []byte:
			return x, nil
		case string:
			return []byte(x), nil
		}

	default:
		// No flat tag exists; the marshaler rejects the column.
		return v, nil
	}

	return nil, fmt.Errorf("cannot convert %T to %s", v, l)
}
