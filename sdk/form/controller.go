// Package form owns the transient state of one in-progress painting
// submission: the selected image, the field values and the submit
// lifecycle. One network call per submit, no retries.
package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"artfolio/sdk/remote"
	"artfolio/sdk/schema"
)

const (
	// MaxFileSize matches the server-side cap.
	MaxFileSize = 10 << 20

	// UploadPath receives the multipart submission.
	UploadPath = "/api/admin/paintings"

	// PaintingsPath is the list cache key invalidated after a successful
	// upload so dependent views refetch.
	PaintingsPath = "/api/paintings"
)

var (
	ErrMissingImage    = errors.New("form: no image selected")
	ErrFileTooLarge    = errors.New("form: image exceeds 10 MB")
	ErrInvalidFileType = errors.New("form: file is not an image")
	ErrSubmitPending   = errors.New("form: a submission is already in flight")
	ErrValidation      = errors.New("form: validation failed")
)

// File is a candidate upload: name, declared MIME type and raw bytes.
type File struct {
	Name string
	Type string
	Data []byte
}

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

// Controller manages one upload form instance. Safe for use from a single
// event loop; the mutex only guards against a second Submit racing the
// first across the network suspension point.
type Controller struct {
	client *remote.Client

	mu          sync.Mutex
	selected    *File
	dragOver    bool
	values      schema.Values
	status      Status
	fieldErrors schema.FieldErrors
	lastError   string
}

func NewController(client *remote.Client) *Controller {
	return &Controller{client: client}
}

// SelectFile accepts a candidate image. Oversized or non-image files are
// rejected and the current selection stays untouched.
func (c *Controller) SelectFile(f File) error {
	if int64(len(f.Data)) > MaxFileSize {
		return ErrFileTooLarge
	}
	if !strings.HasPrefix(f.Type, "image/") {
		return ErrInvalidFileType
	}

	c.mu.Lock()
	c.selected = &f
	c.mu.Unlock()
	return nil
}

func (c *Controller) SelectedFile() *File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SetDragOver toggles the visual-only drop-target highlight.
func (c *Controller) SetDragOver(over bool) {
	c.mu.Lock()
	c.dragOver = over
	c.mu.Unlock()
}

func (c *Controller) DragOver() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragOver
}

func (c *Controller) SetValues(v schema.Values) {
	c.mu.Lock()
	c.values = v
	c.mu.Unlock()
}

func (c *Controller) Values() schema.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// FieldErrors returns the inline errors from the last failed validation.
func (c *Controller) FieldErrors() schema.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// LastError returns the server-reported message of the last failed submit.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Submit validates the form and uploads it as one multipart request.
// A second submit while one is pending is rejected, never queued: two
// in-flight submissions from the same form would risk duplicate records.
// On success all state resets and the painting list cache is invalidated;
// on failure state is preserved so the user can retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.status == StatusPending {
		c.mu.Unlock()
		return ErrSubmitPending
	}
	if c.selected == nil {
		c.mu.Unlock()
		return ErrMissingImage
	}

	sub, errs := schema.Validate(c.values)
	if errs != nil {
		c.fieldErrors = errs
		c.status = StatusError
		c.mu.Unlock()
		return ErrValidation
	}
	c.fieldErrors = nil

	file := *c.selected
	c.status = StatusPending
	c.mu.Unlock()

	body, contentType, err := buildMultipart(file, sub)
	if err != nil {
		c.fail(err.Error())
		return err
	}

	if _, err := c.client.Mutate(ctx, http.MethodPost, UploadPath, contentType, body); err != nil {
		var ue *remote.UploadError
		if errors.As(err, &ue) {
			c.fail(ue.Message)
		} else {
			c.fail(err.Error())
		}
		return err
	}

	c.mu.Lock()
	c.selected = nil
	c.dragOver = false
	c.values = schema.Values{}
	c.fieldErrors = nil
	c.lastError = ""
	c.status = StatusSuccess
	c.mu.Unlock()

	c.client.Invalidate(PaintingsPath)
	return nil
}

func (c *Controller) fail(msg string) {
	c.mu.Lock()
	c.status = StatusError
	c.lastError = msg
	c.mu.Unlock()
}

// buildMultipart serializes the image plus every scalar field as text,
// exactly the shape the upload endpoint parses.
func buildMultipart(file File, sub schema.Submission) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, file.Name))
	h.Set("Content-Type", file.Type)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"title":        sub.Title,
		"year":         strconv.Itoa(sub.Year),
		"medium":       sub.Medium,
		"size":         sub.Size,
		"description":  sub.Description,
		"availability": sub.Availability,
		"tags":         sub.Tags,
		"featured":     strconv.FormatBool(sub.Featured),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
