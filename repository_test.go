package bookshelf

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFilter(t *testing.T) {
	logger := NewLogger(io.Discard, slog.LevelInfo)

	books := NewRepository[*Book](nil, logger,
		WithTableName[*Book]("book"),
		WithKeyColumn[*Book](bookKeyColumn),
	).(*repository[*Book])

	query, args := books.keyFilter("a/b", true)
	assert.Equal(t, "book.book_id = ?", query)
	assert.Equal(t, []interface{}{"a/b"}, args)
	assert.Equal(t, "book.book_id", books.order)

	records := NewRepository[*Record](nil, logger,
		WithTableName[*Record]("record"),
		WithKeyColumns[*Record]("book_id", "reader_id"),
	).(*repository[*Record])

	query, args = records.keyFilter("B1/R1", false)
	assert.Equal(t, "book_id = ? AND reader_id = ?", query)
	assert.Equal(t, []interface{}{"B1", "R1"}, args)
	assert.Equal(t, "record.book_id, record.reader_id", records.order)

	_, args = records.keyFilter("B1", true)
	assert.Equal(t, []interface{}{"B1", ""}, args)
}

func TestRecordID(t *testing.T) {
	record := &Record{}
	assert.Empty(t, record.GetID())

	record.SetID("B1/R1")
	assert.Equal(t, "B1", record.BookID)
	assert.Equal(t, "R1", record.ReaderID)
	assert.Equal(t, "B1/R1", record.GetID())

	record.ReaderID = ""
	assert.Empty(t, record.GetID())
}
