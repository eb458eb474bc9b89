package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/repository"
)

type recordService struct {
	res      domain.Resource
	records  repository.RecordRepo
	observer UseCaseObserver
}

func NewRecordService(res domain.Resource, records repository.RecordRepo, observers ...UseCaseObserver) RecordService {
	return &recordService{res: res, records: records, observer: useCaseObserverOrNoop(observers)}
}

func (s *recordService) Resource() domain.Resource { return s.res }

func (s *recordService) List(ctx context.Context, owner string) (recs []domain.Record, err error) {
	fields := map[string]any{"resource": s.res.Name}
	defer observe(ctx, s.observer, "list-records", time.Now(), fields, &err)

	if !s.res.OwnerScoped {
		owner = ""
	}
	recs, err = s.records.SelectAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	fields["count"] = len(recs)
	return recs, nil
}

// Create inserts a trimmed display value. Blank input returns
// domain.ErrEmptyInput without touching the store.
func (s *recordService) Create(ctx context.Context, display, owner string) (rec domain.Record, err error) {
	fields := map[string]any{"resource": s.res.Name}
	defer observe(ctx, s.observer, "create-record", time.Now(), fields, &err)

	display = strings.TrimSpace(display)
	if display == "" {
		return domain.Record{}, domain.ErrEmptyInput
	}
	rec, err = s.records.Insert(ctx, domain.Record{Display: display, Owner: owner})
	if err != nil {
		return domain.Record{}, err
	}
	fields["id"] = rec.ID
	return rec, nil
}

func (s *recordService) Rename(ctx context.Context, id int64, display string) (rec domain.Record, err error) {
	defer observe(ctx, s.observer, "rename-record", time.Now(), map[string]any{"resource": s.res.Name, "id": id}, &err)

	display = strings.TrimSpace(display)
	if display == "" {
		return domain.Record{}, domain.ErrEmptyInput
	}
	return s.records.Update(ctx, id, display)
}

func (s *recordService) Delete(ctx context.Context, id int64) (err error) {
	defer observe(ctx, s.observer, "delete-record", time.Now(), map[string]any{"resource": s.res.Name, "id": id}, &err)
	return s.records.Delete(ctx, id)
}
