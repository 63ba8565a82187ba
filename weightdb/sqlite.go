package weightdb

import (
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

// Open loads the weights table of a PredictDB-style sqlite weight model and
// indexes it. Any failure is reported as a *ModelLoadError.
func Open(path string) (*Index, error) {
	path = gwasbetas.ExpandHome(path)

	// sqlite would happily create an empty database in place of a missing
	// file, so check first.
	if _, err := os.Stat(path); err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	entries, err := readEntries(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	idx, err := NewIndex(entries)
	if err != nil {
		if mle, ok := err.(*ModelLoadError); ok {
			mle.Path = path
		}
		return nil, err
	}

	return idx, nil
}

func readEntries(path string) ([]Entry, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	dsn += "?mode=ro"

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer db.Close()

	columns := make([]string, 0)
	if err := db.Select(&columns, "SELECT name FROM pragma_table_info('weights')"); err != nil {
		return nil, pfx.Err(err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no weights table")
	}

	varID := "'' AS varID"
	for _, c := range columns {
		if c == "varID" {
			varID = "COALESCE(varID, '') AS varID"
		}
	}

	entries := make([]Entry, 0)
	query := "SELECT rsid, COALESCE(gene, '') AS gene, COALESCE(weight, 0) AS weight, ref_allele, eff_allele, " + varID + " FROM weights"
	if err := db.Select(&entries, query); err != nil {
		return nil, pfx.Err(err)
	}

	return entries, nil
}
