package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/msctl-dev/msctl/internal/models"
)

// ListParams filters a paginated list. Zero values are left to the server defaults.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
}

func (p ListParams) query() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Resource is a typed CRUD collection under a single path. In is the create body
// and Up the partial update body.
type Resource[T any, In any, Up any] struct {
	client *Client
	path   string
	name   string
}

// Students returns the /students collection
func (c *Client) Students() *Resource[models.Student, models.StudentInput, models.StudentUpdate] {
	return &Resource[models.Student, models.StudentInput, models.StudentUpdate]{client: c, path: "/students", name: "student"}
}

// Teachers returns the /teachers collection
func (c *Client) Teachers() *Resource[models.Teacher, models.TeacherInput, models.TeacherUpdate] {
	return &Resource[models.Teacher, models.TeacherInput, models.TeacherUpdate]{client: c, path: "/teachers", name: "teacher"}
}

// Instruments returns the /instruments collection
func (c *Client) Instruments() *Resource[models.Instrument, models.InstrumentInput, models.InstrumentUpdate] {
	return &Resource[models.Instrument, models.InstrumentInput, models.InstrumentUpdate]{client: c, path: "/instruments", name: "instrument"}
}

// Schedule returns the /schedule collection
func (c *Client) Schedule() *Resource[models.ScheduleEntry, models.ScheduleInput, models.ScheduleUpdate] {
	return &Resource[models.ScheduleEntry, models.ScheduleInput, models.ScheduleUpdate]{client: c, path: "/schedule", name: "schedule entry"}
}

func (r *Resource[T, In, Up]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// List returns one page of the collection
func (r *Resource[T, In, Up]) List(ctx context.Context, params ListParams) (*models.Page[T], error) {
	resp, err := r.client.Request(ctx, r.path+params.query())
	if err != nil {
		return nil, err
	}

	var page models.Page[T]
	if err := decodeResult(resp, &page); err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.name, err)
	}
	return &page, nil
}

// Get returns a single item by ID
func (r *Resource[T, In, Up]) Get(ctx context.Context, id int) (*T, error) {
	resp, err := r.client.Request(ctx, r.itemPath(id))
	if err != nil {
		return nil, err
	}

	var item T
	if err := decodeResult(resp, &item); err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", r.name, id, err)
	}
	return &item, nil
}

// Create adds a new item
func (r *Resource[T, In, Up]) Create(ctx context.Context, in In) (*T, error) {
	resp, err := r.client.Request(ctx, r.path, WithMethod(http.MethodPost), WithJSONBody(in))
	if err != nil {
		return nil, err
	}

	var item T
	if err := decodeResult(resp, &item); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	return &item, nil
}

// Update modifies an existing item; fields left nil in up are unchanged
func (r *Resource[T, In, Up]) Update(ctx context.Context, id int, up Up) (*T, error) {
	resp, err := r.client.Request(ctx, r.itemPath(id), WithMethod(http.MethodPut), WithJSONBody(up))
	if err != nil {
		return nil, err
	}

	var item T
	if err := decodeResult(resp, &item); err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", r.name, id, err)
	}
	return &item, nil
}

// Delete removes an item by ID
func (r *Resource[T, In, Up]) Delete(ctx context.Context, id int) error {
	resp, err := r.client.Request(ctx, r.itemPath(id), WithMethod(http.MethodDelete))
	if err != nil {
		return err
	}

	if err := decodeResult(resp, nil); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.name, id, err)
	}
	return nil
}
