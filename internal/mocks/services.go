package mocks

import (
	"context"
	"time"

	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/service"
)

// MockTestimonialService is a mock implementation of TestimonialService
type MockTestimonialService struct {
	SubmitFunc      func(ctx context.Context, sub *models.TestimonialSubmission, video *service.VideoUpload) (*models.Testimonial, error)
	ListFunc        func(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error)
	ApproveFunc     func(ctx context.Context, id string) (*models.Testimonial, error)
	RejectFunc      func(ctx context.Context, id string) error
	EditFunc        func(ctx context.Context, id string, update *models.TestimonialUpdate) (*models.Testimonial, error)
	DeleteVideoFunc func(ctx context.Context, id string) (*models.Testimonial, error)
	DeleteTextFunc  func(ctx context.Context, id string) (*models.Testimonial, error)
	Submitted       []*models.TestimonialSubmission
}

// Verify interface compliance
var _ service.TestimonialService = (*MockTestimonialService)(nil)

func NewMockTestimonialService() *MockTestimonialService {
	return &MockTestimonialService{}
}

func (m *MockTestimonialService) Submit(ctx context.Context, sub *models.TestimonialSubmission, video *service.VideoUpload) (*models.Testimonial, error) {
	m.Submitted = append(m.Submitted, sub)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sub, video)
	}
	return &models.Testimonial{
		ID:              "test-testimonial-id",
		Name:            sub.Name,
		TestimonialText: sub.TestimonialText,
		HasVideo:        video != nil,
		Status:          models.TestimonialStatusPending,
		UploadedAt:      time.Now(),
	}, nil
}

func (m *MockTestimonialService) List(ctx context.Context, status models.TestimonialStatus) ([]*models.Testimonial, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status)
	}
	return []*models.Testimonial{}, nil
}

func (m *MockTestimonialService) Approve(ctx context.Context, id string) (*models.Testimonial, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, id)
	}
	now := time.Now()
	return &models.Testimonial{ID: id, Status: models.TestimonialStatusApproved, ApprovedAt: &now}, nil
}

func (m *MockTestimonialService) Reject(ctx context.Context, id string) error {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, id)
	}
	return nil
}

func (m *MockTestimonialService) Edit(ctx context.Context, id string, update *models.TestimonialUpdate) (*models.Testimonial, error) {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, id, update)
	}
	t := &models.Testimonial{ID: id, Status: models.TestimonialStatusPending}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.TestimonialText != nil {
		t.TestimonialText = *update.TestimonialText
	}
	return t, nil
}

func (m *MockTestimonialService) DeleteVideo(ctx context.Context, id string) (*models.Testimonial, error) {
	if m.DeleteVideoFunc != nil {
		return m.DeleteVideoFunc(ctx, id)
	}
	return &models.Testimonial{ID: id, Status: models.TestimonialStatusPending}, nil
}

func (m *MockTestimonialService) DeleteText(ctx context.Context, id string) (*models.Testimonial, error) {
	if m.DeleteTextFunc != nil {
		return m.DeleteTextFunc(ctx, id)
	}
	return &models.Testimonial{ID: id, Status: models.TestimonialStatusPending}, nil
}

// MockDealLocationService is a mock implementation of DealLocationService
type MockDealLocationService struct {
	AddFunc        func(ctx context.Context, req *models.DealLocationRequest) (*models.DealLocation, error)
	ListFunc       func(ctx context.Context) ([]*models.DealLocation, error)
	GetFunc        func(ctx context.Context, id string) (*models.DealLocation, error)
	UpdateNameFunc func(ctx context.Context, id, name string) (*models.DealLocation, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

// Verify interface compliance
var _ service.DealLocationService = (*MockDealLocationService)(nil)

func NewMockDealLocationService() *MockDealLocationService {
	return &MockDealLocationService{}
}

func (m *MockDealLocationService) Add(ctx context.Context, req *models.DealLocationRequest) (*models.DealLocation, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, req)
	}
	return &models.DealLocation{ID: "test-location-id", Lat: *req.Lat, Lng: *req.Lng, Name: req.Name, AddedAt: time.Now()}, nil
}

func (m *MockDealLocationService) List(ctx context.Context) ([]*models.DealLocation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.DealLocation{}, nil
}

func (m *MockDealLocationService) Get(ctx context.Context, id string) (*models.DealLocation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.DealLocation{ID: id}, nil
}

func (m *MockDealLocationService) UpdateName(ctx context.Context, id, name string) (*models.DealLocation, error) {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, id, name)
	}
	return &models.DealLocation{ID: id, Name: name}, nil
}

func (m *MockDealLocationService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockOfferService is a mock implementation of OfferService
type MockOfferService struct {
	SubmitOfferFunc   func(ctx context.Context, offer *models.OfferSubmission) (*models.SubmissionReceipt, error)
	SubmitContactFunc func(ctx context.Context, contact *models.ContactSubmission) (*models.SubmissionReceipt, error)
	Offers            []*models.OfferSubmission
	Contacts          []*models.ContactSubmission
}

// Verify interface compliance
var _ service.OfferService = (*MockOfferService)(nil)

func NewMockOfferService() *MockOfferService {
	return &MockOfferService{}
}

func (m *MockOfferService) SubmitOffer(ctx context.Context, offer *models.OfferSubmission) (*models.SubmissionReceipt, error) {
	m.Offers = append(m.Offers, offer)
	if m.SubmitOfferFunc != nil {
		return m.SubmitOfferFunc(ctx, offer)
	}
	return &models.SubmissionReceipt{MessageID: "mock-1", Provider: "mock", Mocked: true}, nil
}

func (m *MockOfferService) SubmitContact(ctx context.Context, contact *models.ContactSubmission) (*models.SubmissionReceipt, error) {
	m.Contacts = append(m.Contacts, contact)
	if m.SubmitContactFunc != nil {
		return m.SubmitContactFunc(ctx, contact)
	}
	return &models.SubmissionReceipt{MessageID: "mock-1", Provider: "mock", Mocked: true}, nil
}

// MockSweeperService is a mock implementation of SweeperService
type MockSweeperService struct {
	Started bool
	Stopped bool
	Sweeps  int
}

// Verify interface compliance
var _ service.SweeperService = (*MockSweeperService)(nil)

func (m *MockSweeperService) StartProcessor(ctx context.Context) { m.Started = true }
func (m *MockSweeperService) StopProcessor()                     { m.Stopped = true }
func (m *MockSweeperService) SweepOnce(ctx context.Context) (int, error) {
	m.Sweeps++
	return 0, nil
}

// NewMockServices bundles fresh mock services
func NewMockServices() *service.Services {
	return &service.Services{
		Testimonial:  NewMockTestimonialService(),
		DealLocation: NewMockDealLocationService(),
		Offer:        NewMockOfferService(),
		Sweeper:      &MockSweeperService{},
	}
}
