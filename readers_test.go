package bookshelf_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burkel24/go-bookshelf"
)

func TestReaderLifecycle(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	reader := bookshelf.Reader{ID: "R1", Name: "Ada", Sex: "F", Department: "Maths"}

	rec := stack.do(t, http.MethodPost, "/api/readers", reader)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"message": "Reader added successfully"}, decode(t, rec))

	rec = stack.do(t, http.MethodPost, "/api/readers", reader)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Reader with ID R1 already exists.", decode(t, rec)["error"])

	rec = stack.do(t, http.MethodPut, "/api/readers/R1", map[string]any{
		"reader_name":       "Ada Lovelace",
		"reader_sex":        "F",
		"reader_department": "Engines",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Reader updated successfully", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodGet, "/api/readers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []bookshelf.Reader `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []bookshelf.Reader{
		{ID: "R1", Name: "Ada Lovelace", Sex: "F", Department: "Engines"},
	}, list.Data)

	rec = stack.do(t, http.MethodDelete, "/api/readers/R1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reader deleted successfully", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodDelete, "/api/readers/R1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Reader not found", decode(t, rec)["error"])
}

func TestReaderRejectsBadBodies(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	for _, body := range []string{"{}", "null", `{"reader_name": "No id"}`} {
		rec := stack.doRaw(t, http.MethodPost, "/api/readers", body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Missing reader_id", decode(t, rec)["error"])
	}

	rec := stack.doRaw(t, http.MethodPut, "/api/readers/ghost", "{}")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["error"])

	rec = stack.do(t, http.MethodPut, "/api/readers/ghost", map[string]any{"reader_name": "Nobody"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Reader not found", decode(t, rec)["error"])
}

func TestRecordLifecycle(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodPost, "/api/records", map[string]any{
		"book_id":     "B1",
		"reader_id":   "R1",
		"borrow_date": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Record added successfully", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodPost, "/api/records", map[string]any{"book_id": "B2", "reader_id": "R1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = stack.do(t, http.MethodPost, "/api/records", map[string]any{"book_id": "B1", "reader_id": "R1"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Record with Book ID B1 and Reader ID R1 already exists.", decode(t, rec)["error"])

	rec = stack.do(t, http.MethodPut, "/api/records/B1/R1", map[string]any{
		"borrow_date": "2024-03-01",
		"return_date": "2024-03-15",
		"notes":       "returned late",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Record updated successfully", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodGet, "/api/records", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": [
		{
			"book_id": "B1",
			"reader_id": "R1",
			"borrow_date": "2024-03-01",
			"return_date": "2024-03-15",
			"notes": "returned late",
			"record_id": "B1/R1"
		},
		{
			"book_id": "B2",
			"reader_id": "R1",
			"borrow_date": null,
			"return_date": null,
			"notes": null,
			"record_id": "B2/R1"
		}
	]}`, rec.Body.String())

	rec = stack.do(t, http.MethodDelete, "/api/records/B1/R1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Record deleted successfully", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodDelete, "/api/records/B1/R1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found", decode(t, rec)["error"])

	rec = stack.do(t, http.MethodGet, "/api/records/B2/R1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B2/R1", decode(t, rec)["record_id"])
}

func TestRecordRejectsBadBodies(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		error  string
	}{
		{
			name:   "create without reader",
			method: http.MethodPost,
			path:   "/api/records",
			body:   `{"book_id": "B1"}`,
			status: http.StatusBadRequest,
			error:  "Missing book_id or reader_id",
		},
		{
			name:   "create from null",
			method: http.MethodPost,
			path:   "/api/records",
			body:   "null",
			status: http.StatusBadRequest,
			error:  "Missing book_id or reader_id",
		},
		{
			name:   "create with bad date",
			method: http.MethodPost,
			path:   "/api/records",
			body:   `{"book_id": "B1", "reader_id": "R1", "borrow_date": "March"}`,
			status: http.StatusBadRequest,
			error:  "borrow_date must be a YYYY-MM-DD date",
		},
		{
			name:   "update from empty object",
			method: http.MethodPut,
			path:   "/api/records/B1/R1",
			body:   "{}",
			status: http.StatusBadRequest,
			error:  "Invalid data",
		},
		{
			name:   "update missing record",
			method: http.MethodPut,
			path:   "/api/records/B1/R1",
			body:   `{"notes": "x"}`,
			status: http.StatusNotFound,
			error:  "Record not found or data not changed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := stack.doRaw(t, tt.method, tt.path, tt.body)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.error, decode(t, rec)["error"])
		})
	}
}
