package service

import (
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/repository"
)

// Services bundles the services built over one backend.
type Services struct {
	Auth    AuthService
	records map[string]RecordService
}

// NewServices wires an AuthService and one RecordService per known resource.
func NewServices(backend repository.Backend, observers ...UseCaseObserver) *Services {
	obs := useCaseObserverOrNoop(observers)
	s := &Services{
		Auth:    NewAuthService(backend.Auth(), obs),
		records: make(map[string]RecordService),
	}
	for _, res := range domain.Resources() {
		s.records[res.Name] = NewRecordService(res, backend.Records(res), obs)
	}
	return s
}

// Records returns the service for res. Unknown resources panic; callers
// obtain resources from domain.Resources or domain.LookupResource.
func (s *Services) Records(res domain.Resource) RecordService {
	svc, ok := s.records[res.Name]
	if !ok {
		panic("service: unknown resource " + res.Name)
	}
	return svc
}
