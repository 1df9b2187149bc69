package gcs

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/dvloznov/expense-assistant/internal/assistant"
)

// CSVFetcher downloads the expenses CSV from a GCS bucket and parses it
// into loosely-typed rows (header row -> string-keyed maps). It
// implements assistant.RecordFetcher.
// Application Default Credentials are assumed (gcloud auth application-default login).
type CSVFetcher struct {
	Bucket string
	Object string
}

// NewCSVFetcher creates a fetcher for the given bucket and object.
func NewCSVFetcher(bucket, object string) *CSVFetcher {
	return &CSVFetcher{Bucket: bucket, Object: object}
}

// FetchRows downloads and parses the CSV. Storage failures are
// classified onto the assistant package's sentinel errors; a CSV that
// cannot be parsed at all maps to ErrMalformedRecords.
func (f *CSVFetcher) FetchRows(ctx context.Context) ([]map[string]string, error) {
	if f.Bucket == "" || f.Object == "" {
		return nil, fmt.Errorf("%w: bucket and object must be set", assistant.ErrNotConfigured)
	}

	data, err := f.download(ctx)
	if err != nil {
		return nil, classifyStorageError(err)
	}

	rows, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", assistant.ErrMalformedRecords, err)
	}
	return rows, nil
}

func (f *CSVFetcher) download(ctx context.Context) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(f.Bucket).Object(f.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader %s/%s: %w", f.Bucket, f.Object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

// classifyStorageError maps storage-layer failures onto the assistant
// sentinels so the orchestrator can pick the right taxonomy kind.
func classifyStorageError(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %v", assistant.ErrNotFound, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", assistant.ErrAccessDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", assistant.ErrNotFound, err)
		}
	}

	return err
}

// parseCSV reads a header row and turns every following record into a
// map keyed by the header names. Ragged records are tolerated: short
// rows simply omit the trailing fields.
func parseCSV(data []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
