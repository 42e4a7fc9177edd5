package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillgrove.com/tcgshelf/pkg/seed"
)

func TestAsRows(t *testing.T) {
	slim := seed.Products()[2]
	rows := AsRows(slim)
	require.Len(t, rows, 3)

	assert.Equal(t, "prod-3", rows[0].ID)
	assert.Equal(t, "Yonko TCG", rows[0].Store)
	assert.Equal(t, "39.95", rows[0].Price)
	assert.True(t, rows[0].Cheapest)
	assert.False(t, rows[1].Cheapest)
	assert.False(t, rows[2].Cheapest)
	assert.Equal(t, "", rows[0].Era)
}

func TestWriteCSV(t *testing.T) {
	products := seed.Products()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, products))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "id,category,era,name,set,language,product_type,store,price,cheapest,unit,shipping,variant,url,created_at", header)

	var rows []Row
	require.NoError(t, gocsv.UnmarshalBytes(buf.Bytes(), &rows))

	offers := 0
	for _, p := range products {
		offers += len(p.Links)
	}
	assert.Len(t, rows, offers)

	last := rows[len(rows)-1]
	assert.Equal(t, "prod-14", last.ID)
	assert.Equal(t, "Scarlet & Violet", last.Era)
	assert.Equal(t, "109.00", last.Price)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "id,category"))
}

type closeBuffer struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (b *closeBuffer) Close() error {
	b.closed = true
	return b.closeErr
}

func TestWriteCSVFile(t *testing.T) {
	out := &closeBuffer{}
	require.NoError(t, WriteCSVFile(out, seed.Products()))
	assert.True(t, out.closed)
	assert.True(t, strings.HasPrefix(out.String(), "id,"))
}

func TestWriteCSVFileCloseError(t *testing.T) {
	flushErr := errors.New("disk full")
	out := &closeBuffer{closeErr: flushErr}
	err := WriteCSVFile(out, seed.Products())
	assert.ErrorIs(t, err, flushErr)
	assert.True(t, out.closed)
}
