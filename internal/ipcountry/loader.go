// Package ipcountry streams the startup IP-to-country CSV into the database
// backend's iptocountry table. Grounded on ghost.cpp's LoadIPToCountryData:
// a long operation that happens once at startup, outside the orchestrator's
// hot loop.
package ipcountry

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/PhilippHeuer/ghostpp/internal/db"
)

// batchSize bounds how many rows share one transaction, keeping the startup
// load responsive without paying one commit per row.
const batchSize = 1000

// Load streams path (format: ip_from,ip_to,country per line) into backend,
// batching rows into transactions of batchSize. Returns the number of rows
// loaded.
func Load(ctx context.Context, backend db.Backend, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("opening iptocountry file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3

	total := 0
	tx, err := backend.Begin(ctx)
	if err != nil {
		return 0, err
	}
	inBatch := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tx.Rollback()
			return total, fmt.Errorf("reading iptocountry row %d: %w", total, err)
		}

		ipLow, err := strconv.ParseUint(record[0], 10, 32)
		if err != nil {
			tx.Rollback()
			return total, fmt.Errorf("parsing ip_from on row %d: %w", total, err)
		}
		ipHigh, err := strconv.ParseUint(record[1], 10, 32)
		if err != nil {
			tx.Rollback()
			return total, fmt.Errorf("parsing ip_to on row %d: %w", total, err)
		}

		if err := tx.FromAdd(uint32(ipLow), uint32(ipHigh), record[2]); err != nil {
			tx.Rollback()
			return total, err
		}

		total++
		inBatch++
		if inBatch >= batchSize {
			if err := tx.Commit(); err != nil {
				return total, fmt.Errorf("committing iptocountry batch: %w", err)
			}
			tx, err = backend.Begin(ctx)
			if err != nil {
				return total, err
			}
			inBatch = 0
		}
	}

	if inBatch > 0 {
		if err := tx.Commit(); err != nil {
			return total, fmt.Errorf("committing final iptocountry batch: %w", err)
		}
	} else {
		tx.Rollback()
	}

	return total, nil
}
