package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexanderramin/millennium/internal/domain"
)

// Table implements repository.RecordRepo for one resource over the table API.
type Table struct {
	c   *Client
	res domain.Resource
}

// NewTable creates a Table for res.
func NewTable(c *Client, res domain.Resource) *Table {
	return &Table{c: c, res: res}
}

var returnRepresentation = http.Header{"Prefer": {"return=representation"}}

func (t *Table) path() string {
	return restPath + "/" + t.res.Name
}

func (t *Table) SelectAll(ctx context.Context, owner string) ([]domain.Record, error) {
	q := url.Values{
		"select": {"*"},
		"order":  {"id.asc"},
	}
	if owner != "" {
		q.Set("user_id", "eq."+owner)
	}

	var rows []map[string]json.RawMessage
	err := t.c.do(ctx, request{
		method:  http.MethodGet,
		path:    t.path(),
		query:   q,
		out:     &rows,
		session: true,
	})
	if err != nil {
		return nil, err
	}
	return t.decode(rows)
}

func (t *Table) Insert(ctx context.Context, rec domain.Record) (domain.Record, error) {
	body := []map[string]any{{
		t.res.DisplayField: rec.Display,
		"user_id":          rec.Owner,
	}}
	return t.mutateOne(ctx, http.MethodPost, nil, body)
}

func (t *Table) Update(ctx context.Context, id int64, display string) (domain.Record, error) {
	q := url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}}
	body := map[string]any{t.res.DisplayField: display}
	return t.mutateOne(ctx, http.MethodPatch, q, body)
}

func (t *Table) Delete(ctx context.Context, id int64) error {
	return t.c.do(ctx, request{
		method:  http.MethodDelete,
		path:    t.path(),
		query:   url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}},
		session: true,
	})
}

// mutateOne sends a write that returns the affected rows and expects one.
func (t *Table) mutateOne(ctx context.Context, method string, q url.Values, body any) (domain.Record, error) {
	var rows []map[string]json.RawMessage
	err := t.c.do(ctx, request{
		method:  method,
		path:    t.path(),
		query:   q,
		body:    body,
		header:  returnRepresentation,
		out:     &rows,
		session: true,
	})
	if err != nil {
		return domain.Record{}, err
	}
	recs, err := t.decode(rows)
	if err != nil {
		return domain.Record{}, err
	}
	if len(recs) == 0 {
		return domain.Record{}, domain.ErrNotFound
	}
	return recs[0], nil
}

func (t *Table) decode(rows []map[string]json.RawMessage) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		var rec domain.Record
		if err := json.Unmarshal(row["id"], &rec.ID); err != nil {
			return nil, fmt.Errorf("decoding %s id: %w", t.res.Noun(), err)
		}
		if err := decodeOptionalString(row[t.res.DisplayField], &rec.Display); err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", t.res.Noun(), t.res.DisplayField, err)
		}
		if err := decodeOptionalString(row["user_id"], &rec.Owner); err != nil {
			return nil, fmt.Errorf("decoding %s owner: %w", t.res.Noun(), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeOptionalString leaves dst empty for missing or null values.
func decodeOptionalString(raw json.RawMessage, dst *string) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
