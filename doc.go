/*
Package duckflat exposes query results of an embedded analytical database as flat,
random-access column buffers.

# Overview

An embedded engine produces results as a sequence of chunks, each holding one
vector per column in the engine's internal representation. Callers that cannot walk
those structures (a foreign runtime reading raw memory, a C caller, a renderer)
need every cell addressable by (column, row). duckflat copies a chunked result into
a Result: one data buffer and one null mask per column, laid out with a fixed byte
size per type tag.

The package has four layers:

 1. Type translation: engine LogicalType ids are mapped to the closed Type tag set
    that the flat layout supports.
 2. Marshaling: Marshal walks every chunk of every column of a Source and fills a
    Result using an Allocator.
 3. Access: typed accessors on Result return (value, ok) and never read outside a
    column, never read a null cell and never reinterpret a cell of another type.
 4. Lifecycle: Open, Connect, Execute and Close pass through to a registered
    Engine. Engines live in sub-packages (engine/duckdb, engine/sqlite).

# Example

	import (
		"github.com/semihalev/duckflat"
		_ "github.com/semihalev/duckflat/engine/sqlite"
	)

	db, err := duckflat.Open("sqlite", "")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	conn, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	var res duckflat.Result
	if err := conn.Execute("SELECT 42 AS answer", &res); err != nil {
		log.Fatal(err)
	}
	defer res.Destroy()

	v, ok := res.Int64(0, 0)

# Memory

A Result owns all of its buffers. Strings and blobs are copied into a per-column
arena, so nothing in a Result aliases engine memory and a Result stays valid after
the engine's result is closed. Destroy returns the buffers to the allocator and may
be called any number of times.
*/
package duckflat
