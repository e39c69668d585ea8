package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookstore-api/internal/domain"
)

type BookWriter interface {
	Create(ctx context.Context, book domain.Book) (*domain.Book, error)
}

// CSVImporter reads catalog CSV exports and inserts books.
// Expected columns: title, author, description, price.
type CSVImporter struct {
	reader   *csv.Reader
	bookRepo BookWriter
}

func NewCSVImporter(r io.Reader, repo BookWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		bookRepo: repo,
	}
}

// Run parses CSV rows and inserts one book per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		title := pick(record, index, "title")
		author := pick(record, index, "author")
		desc := pick(record, index, "description")
		priceStr := pick(record, index, "price")

		if title == "" && author == "" && priceStr == "" {
			continue
		}

		price, err := strconv.ParseInt(priceStr, 10, 64)
		if err != nil || price <= 0 {
			return imported, fmt.Errorf("invalid price %q for title %q", priceStr, title)
		}
		if title == "" {
			return imported, fmt.Errorf("missing title in row %d", imported+1)
		}

		if _, err := i.bookRepo.Create(ctx, domain.Book{
			Title:       title,
			Author:      author,
			Description: desc,
			Price:       price,
		}); err != nil {
			return imported, fmt.Errorf("insert book %q: %w", title, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
