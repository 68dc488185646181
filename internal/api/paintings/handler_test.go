package paintings

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"artfolio/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------------
// Stub SQL driver: reads return one painting row, writes always fail.
// ---------------------------------------------------------------------------

type readOnlyDriver struct{}

func (readOnlyDriver) Open(string) (driver.Conn, error) { return &readOnlyConn{}, nil }

type readOnlyConn struct{}

func (*readOnlyConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (*readOnlyConn) Close() error { return nil }
func (*readOnlyConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (*readOnlyConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return &paintingRow{}, nil
}

func (*readOnlyConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	return nil, errors.New("db write failed")
}

type paintingRow struct{ done bool }

func (*paintingRow) Columns() []string {
	return []string{
		"id", "title", "year", "medium", "size", "description",
		"availability", "tags", "featured", "image_url", "created_at", "updated_at",
	}
}

func (*paintingRow) Close() error { return nil }

func (r *paintingRow) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	now := time.Now()
	copy(dest, []driver.Value{
		"p1", "Dawn", int64(2020), "Oil", "40x40", "",
		"available", "", false, "/uploads/paintings/old.jpg", now, now,
	})
	return nil
}

func init() {
	sql.Register("artfolio-read-only", readOnlyDriver{})
}

// ---------------------------------------------------------------------------
// Recording storage fake
// ---------------------------------------------------------------------------

type recordingStore struct {
	saved   []string
	deleted []string
}

func (s *recordingStore) Save(_ context.Context, key string, _ io.Reader) (string, error) {
	s.saved = append(s.saved, key)
	return "/uploads/" + key, nil
}

func (s *recordingStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func multipartUpdateBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="new.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("new image bytes"))
	require.NoError(t, err)

	for name, value := range map[string]string{
		"title":        "Dawn",
		"year":         "2020",
		"medium":       "Oil",
		"size":         "40x40",
		"availability": "available",
	} {
		require.NoError(t, w.WriteField(name, value))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

// When the row update fails after a replacement image was already stored,
// the fresh file must be removed again; the previously stored image stays.
func TestUpdatePainting_FailedSaveRemovesFreshImage(t *testing.T) {
	sqlDB, err := sql.Open("artfolio-read-only", "")
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	prevDB, prevStore := database.DB, Store
	t.Cleanup(func() { database.DB, Store = prevDB, prevStore })
	database.DB = gdb
	store := &recordingStore{}
	Store = store

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/api/admin/paintings/:id", UpdatePainting)

	body, contentType := multipartUpdateBody(t)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/paintings/p1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to update painting"}`, rec.Body.String())

	require.Len(t, store.saved, 1, "the replacement image was stored before the update")
	require.Len(t, store.deleted, 1, "the orphaned replacement must be removed")
	assert.Equal(t, store.saved[0], store.deleted[0])
	assert.NotContains(t, store.deleted, "paintings/old.jpg",
		fmt.Sprintf("the stored image of the unchanged row must survive; deleted: %v", store.deleted))
}
