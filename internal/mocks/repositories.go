package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
)

// MockTestimonialRepository is a mock implementation of TestimonialRepository
type MockTestimonialRepository struct {
	mu           sync.Mutex
	Testimonials map[string]*models.Testimonial
	CreateError  error
	UpdateError  error
	DeleteError  error
	GetError     error
	UpdateCalls  int
}

// Verify interface compliance
var _ repository.TestimonialRepository = (*MockTestimonialRepository)(nil)

func NewMockTestimonialRepository() *MockTestimonialRepository {
	return &MockTestimonialRepository{
		Testimonials: make(map[string]*models.Testimonial),
	}
}

func (m *MockTestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.Testimonials[t.ID]; ok {
		return repository.ErrDuplicateID
	}
	m.Testimonials[t.ID] = t.Clone()
	return nil
}

func (m *MockTestimonialRepository) GetByID(ctx context.Context, id string) (*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	t, ok := m.Testimonials[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

func (m *MockTestimonialRepository) ListByStatus(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Testimonial, 0, len(all))
	for _, t := range all {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTestimonialRepository) ListAll(ctx context.Context) ([]*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	out := make([]*models.Testimonial, 0, len(m.Testimonials))
	for _, t := range m.Testimonials {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (m *MockTestimonialRepository) Update(ctx context.Context, t *models.Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Testimonials[t.ID]; !ok {
		return repository.ErrNotFound
	}
	m.Testimonials[t.ID] = t.Clone()
	return nil
}

func (m *MockTestimonialRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Testimonials[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Testimonials, id)
	return nil
}

func (m *MockTestimonialRepository) Count(ctx context.Context, status models.TestimonialStatus) (int, error) {
	items, err := m.ListByStatus(ctx, status)
	return len(items), err
}

// MockDealLocationRepository is a mock implementation of DealLocationRepository
type MockDealLocationRepository struct {
	mu          sync.Mutex
	Locations   map[string]*models.DealLocation
	order       []string
	CreateFunc  func(ctx context.Context, loc *models.DealLocation) error
	CreateError error
	CreateCalls int
}

// Verify interface compliance
var _ repository.DealLocationRepository = (*MockDealLocationRepository)(nil)

func NewMockDealLocationRepository() *MockDealLocationRepository {
	return &MockDealLocationRepository{
		Locations: make(map[string]*models.DealLocation),
	}
}

func (m *MockDealLocationRepository) Create(ctx context.Context, loc *models.DealLocation) error {
	m.mu.Lock()
	m.CreateCalls++
	fn := m.CreateFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, loc); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.Locations[loc.ID]; ok {
		return repository.ErrDuplicateID
	}
	c := *loc
	m.Locations[loc.ID] = &c
	m.order = append(m.order, loc.ID)
	return nil
}

func (m *MockDealLocationRepository) GetByID(ctx context.Context, id string) (*models.DealLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.Locations[id]
	if !ok {
		return nil, nil
	}
	c := *loc
	return &c, nil
}

func (m *MockDealLocationRepository) List(ctx context.Context) ([]*models.DealLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.DealLocation, 0, len(m.order))
	for _, id := range m.order {
		c := *m.Locations[id]
		out = append(out, &c)
	}
	return out, nil
}

func (m *MockDealLocationRepository) UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.Locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	loc.Name = name
	c := *loc
	return &c, nil
}

func (m *MockDealLocationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Locations, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockDealLocationRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Locations), nil
}

// NewMockRepositories bundles fresh mock repositories
func NewMockRepositories() (*repository.Repositories, *MockTestimonialRepository, *MockDealLocationRepository) {
	t := NewMockTestimonialRepository()
	d := NewMockDealLocationRepository()
	return &repository.Repositories{Testimonial: t, DealLocation: d}, t, d
}
