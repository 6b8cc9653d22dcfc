package duckflat

import (
	"fmt"
	"strings"
)

// StandardVectorSize is the number of rows in a full engine chunk.
const StandardVectorSize = 2048

// Type is the closed set of column type tags a flat Result can hold.
// The numeric values are part of the C ABI and must not change.
type Type int32

const (
	TypeInvalid   Type = 0
	TypeBoolean   Type = 1
	TypeTinyint   Type = 2
	TypeSmallint  Type = 3
	TypeInteger   Type = 4
	TypeBigint    Type = 5
	TypeFloat     Type = 6
	TypeDouble    Type = 7
	TypeTimestamp Type = 8
	TypeDate      Type = 9
	TypeTime      Type = 10
	TypeInterval  Type = 11
	TypeHugeint   Type = 12
	TypeVarchar   Type = 13
	TypeBlob      Type = 14
)

var typeNames = [...]string{
	TypeInvalid:   "INVALID",
	TypeBoolean:   "BOOLEAN",
	TypeTinyint:   "TINYINT",
	TypeSmallint:  "SMALLINT",
	TypeInteger:   "INTEGER",
	TypeBigint:    "BIGINT",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeTimestamp: "TIMESTAMP",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeInterval:  "INTERVAL",
	TypeHugeint:   "HUGEINT",
	TypeVarchar:   "VARCHAR",
	TypeBlob:      "BLOB",
}

// Storage size of one cell, in bytes, per tag.
var typeSizes = [...]int{
	TypeBoolean:   1,
	TypeTinyint:   1,
	TypeSmallint:  2,
	TypeInteger:   4,
	TypeBigint:    8,
	TypeFloat:     4,
	TypeDouble:    8,
	TypeTimestamp: 16,
	TypeDate:      8,
	TypeTime:      8,
	TypeInterval:  16,
	TypeHugeint:   16,
	TypeVarchar:   8,
	TypeBlob:      16,
}

// String returns the SQL name of the tag.
func (t Type) String() string {
	if t.known() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

func (t Type) known() bool {
	return t >= 0 && int(t) < len(typeNames)
}

// Valid reports whether t is a tag with a defined storage layout.
func (t Type) Valid() bool {
	return t != TypeInvalid && t.known()
}

// Size returns the storage size of one cell of type t.
// Asking for the size of TypeInvalid or an unknown tag is a programming error
// and panics; Marshal rejects such columns before ever calling Size.
func (t Type) Size() int {
	if !t.Valid() {
		panic(fmt.Sprintf("duckflat: no storage size for %s", t))
	}
	return typeSizes[t]
}

// Variable reports whether cells of type t reference out-of-line bytes.
func (t Type) Variable() bool {
	return t == TypeVarchar || t == TypeBlob
}

// LogicalType is an engine column type id. The values follow the DuckDB C API
// numbering so engines can pass their ids through unchanged.
type LogicalType int32

const (
	LogicalInvalid     LogicalType = 0
	LogicalBoolean     LogicalType = 1
	LogicalTinyint     LogicalType = 2
	LogicalSmallint    LogicalType = 3
	LogicalInteger     LogicalType = 4
	LogicalBigint      LogicalType = 5
	LogicalUTinyint    LogicalType = 6
	LogicalUSmallint   LogicalType = 7
	LogicalUInteger    LogicalType = 8
	LogicalUBigint     LogicalType = 9
	LogicalFloat       LogicalType = 10
	LogicalDouble      LogicalType = 11
	LogicalTimestamp   LogicalType = 12
	LogicalDate        LogicalType = 13
	LogicalTime        LogicalType = 14
	LogicalInterval    LogicalType = 15
	LogicalHugeint     LogicalType = 16
	LogicalVarchar     LogicalType = 17
	LogicalBlob        LogicalType = 18
	LogicalDecimal     LogicalType = 19
	LogicalTimestampS  LogicalType = 20
	LogicalTimestampMS LogicalType = 21
	LogicalTimestampNS LogicalType = 22
	LogicalEnum        LogicalType = 23
	LogicalList        LogicalType = 24
	LogicalStruct      LogicalType = 25
	LogicalMap         LogicalType = 26
	LogicalUUID        LogicalType = 27
	LogicalUnion       LogicalType = 28
	LogicalBit         LogicalType = 29
	LogicalTimeTZ      LogicalType = 30
	LogicalTimestampTZ LogicalType = 31
	LogicalUHugeint    LogicalType = 32
	LogicalArray       LogicalType = 33
	LogicalAny         LogicalType = 34
	LogicalVarint      LogicalType = 35
	LogicalSQLNull     LogicalType = 36
)

var logicalNames = map[LogicalType]string{
	LogicalInvalid:     "INVALID",
	LogicalBoolean:     "BOOLEAN",
	LogicalTinyint:     "TINYINT",
	LogicalSmallint:    "SMALLINT",
	LogicalInteger:     "INTEGER",
	LogicalBigint:      "BIGINT",
	LogicalUTinyint:    "UTINYINT",
	LogicalUSmallint:   "USMALLINT",
	LogicalUInteger:    "UINTEGER",
	LogicalUBigint:     "UBIGINT",
	LogicalFloat:       "FLOAT",
	LogicalDouble:      "DOUBLE",
	LogicalTimestamp:   "TIMESTAMP",
	LogicalDate:        "DATE",
	LogicalTime:        "TIME",
	LogicalInterval:    "INTERVAL",
	LogicalHugeint:     "HUGEINT",
	LogicalVarchar:     "VARCHAR",
	LogicalBlob:        "BLOB",
	LogicalDecimal:     "DECIMAL",
	LogicalTimestampS:  "TIMESTAMP_S",
	LogicalTimestampMS: "TIMESTAMP_MS",
	LogicalTimestampNS: "TIMESTAMP_NS",
	LogicalEnum:        "ENUM",
	LogicalList:        "LIST",
	LogicalStruct:      "STRUCT",
	LogicalMap:         "MAP",
	LogicalUUID:        "UUID",
	LogicalUnion:       "UNION",
	LogicalBit:         "BIT",
	LogicalTimeTZ:      "TIME WITH TIME ZONE",
	LogicalTimestampTZ: "TIMESTAMP WITH TIME ZONE",
	LogicalUHugeint:    "UHUGEINT",
	LogicalArray:       "ARRAY",
	LogicalAny:         "ANY",
	LogicalVarint:      "VARINT",
	LogicalSQLNull:     "NULL",
}

// String returns the engine's name for the logical type.
func (l LogicalType) String() string {
	if name, ok := logicalNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LogicalType(%d)", int32(l))
}

// TranslateType maps an engine logical type onto a flat tag. Only types whose
// representation the flat layout defines are accepted; everything else,
// including unsigned integers, DECIMAL and the zoned or rescaled timestamps,
// yields TypeInvalid.
func TranslateType(l LogicalType) Type {
	switch l {
	case LogicalBoolean:
		return TypeBoolean
	case LogicalTinyint:
		return TypeTinyint
	case LogicalSmallint:
		return TypeSmallint
	case LogicalInteger:
		return TypeInteger
	case LogicalBigint:
		return TypeBigint
	case LogicalHugeint:
		return TypeHugeint
	case LogicalFloat:
		return TypeFloat
	case LogicalDouble:
		return TypeDouble
	case LogicalDate:
		return TypeDate
	case LogicalTime:
		return TypeTime
	case LogicalTimestamp:
		return TypeTimestamp
	case LogicalVarchar:
		return TypeVarchar
	case LogicalBlob:
		return TypeBlob
	case LogicalInterval:
		return TypeInterval
	default:
		return TypeInvalid
	}
}

// Declared type names, including common aliases, keyed by upper-case name.
var logicalAliases = map[string]LogicalType{
	"BOOLEAN":                     LogicalBoolean,
	"BOOL":                        LogicalBoolean,
	"LOGICAL":                     LogicalBoolean,
	"TINYINT":                     LogicalTinyint,
	"INT1":                        LogicalTinyint,
	"SMALLINT":                    LogicalSmallint,
	"INT2":                        LogicalSmallint,
	"SHORT":                       LogicalSmallint,
	"INTEGER":                     LogicalInteger,
	"INT":                         LogicalInteger,
	"INT4":                        LogicalInteger,
	"SIGNED":                      LogicalInteger,
	"MEDIUMINT":                   LogicalInteger,
	"BIGINT":                      LogicalBigint,
	"INT8":                        LogicalBigint,
	"LONG":                        LogicalBigint,
	"UTINYINT":                    LogicalUTinyint,
	"USMALLINT":                   LogicalUSmallint,
	"UINTEGER":                    LogicalUInteger,
	"UBIGINT":                     LogicalUBigint,
	"HUGEINT":                     LogicalHugeint,
	"INT128":                      LogicalHugeint,
	"UHUGEINT":                    LogicalUHugeint,
	"FLOAT":                       LogicalFloat,
	"FLOAT4":                      LogicalFloat,
	"REAL":                        LogicalFloat,
	"DOUBLE":                      LogicalDouble,
	"FLOAT8":                      LogicalDouble,
	"DOUBLE PRECISION":            LogicalDouble,
	"DATE":                        LogicalDate,
	"TIME":                        LogicalTime,
	"TIMESTAMP":                   LogicalTimestamp,
	"DATETIME":                    LogicalTimestamp,
	"TIMESTAMP_US":                LogicalTimestamp,
	"TIMESTAMP_S":                 LogicalTimestampS,
	"TIMESTAMP_MS":                LogicalTimestampMS,
	"TIMESTAMP_NS":                LogicalTimestampNS,
	"TIMESTAMPTZ":                 LogicalTimestampTZ,
	"TIMESTAMP WITH TIME ZONE":    LogicalTimestampTZ,
	"TIMETZ":                      LogicalTimeTZ,
	"TIME WITH TIME ZONE":         LogicalTimeTZ,
	"INTERVAL":                    LogicalInterval,
	"VARCHAR":                     LogicalVarchar,
	"TEXT":                        LogicalVarchar,
	"STRING":                      LogicalVarchar,
	"CHAR":                        LogicalVarchar,
	"BPCHAR":                      LogicalVarchar,
	"CHARACTER":                   LogicalVarchar,
	"CHARACTER VARYING":           LogicalVarchar,
	"NVARCHAR":                    LogicalVarchar,
	"CLOB":                        LogicalVarchar,
	"BLOB":                        LogicalBlob,
	"BYTEA":                       LogicalBlob,
	"BINARY":                      LogicalBlob,
	"VARBINARY":                   LogicalBlob,
	"DECIMAL":                     LogicalDecimal,
	"NUMERIC":                     LogicalDecimal,
	"UUID":                        LogicalUUID,
	"ENUM":                        LogicalEnum,
	"BIT":                         LogicalBit,
	"BITSTRING":                   LogicalBit,
	"VARINT":                      LogicalVarint,
	"NULL":                        LogicalSQLNull,
}

// ParseLogicalType maps a declared column type name such as "INTEGER",
// "varchar(20)" or "DECIMAL(10,2)" to a logical type. Unknown names return
// LogicalInvalid and false.
func ParseLogicalType(name string) (LogicalType, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return LogicalInvalid, false
	}
	if strings.HasSuffix(n, "[]") || strings.HasPrefix(n, "STRUCT") || strings.HasPrefix(n, "MAP") {
		switch {
		case strings.HasSuffix(n, "[]"):
			return LogicalList, true
		case strings.HasPrefix(n, "STRUCT"):
			return LogicalStruct, true
		default:
			return LogicalMap, true
		}
	}
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	n = strings.Join(strings.Fields(n), " ")
	if l, ok := logicalAliases[n]; ok {
		return l, true
	}
	// "UNSIGNED BIG INT" and friends.
	if strings.Contains(n, "INT") {
		return LogicalBigint, true
	}
	return LogicalInvalid, false
}
