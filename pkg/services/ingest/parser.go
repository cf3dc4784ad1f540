package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// ErrMalformedInput means the stream could not be read as a header plus
// rows. Defects inside individual rows are not errors at this layer;
// they surface later as malformed records.
var ErrMalformedInput = errors.New("malformed input stream")

// Parse reads a delimited stream with a header row and returns one
// RawRecord per data row, in file order. A row shorter than the header
// yields a record without the trailing keys; extra fields beyond the
// header are dropped.
func Parse(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	logger := zerolog.Ctx(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		// io.EOF here means the stream ended before a header row.
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrMalformedInput, err)
	}

	records := make([]domain.RawRecord, 0)
	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: failed to read row %d: %v", ErrMalformedInput, len(records)+1, readErr)
		}

		rec := make(domain.RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}

	logger.Debug().Int("rows", len(records)).Msg("parsed upload")
	return records, nil
}
