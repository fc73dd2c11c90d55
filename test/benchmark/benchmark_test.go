package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/repository"
	"github.com/leadsite-api/internal/throttle"
	"github.com/leadsite-api/internal/validation"
)

func seedTestimonials(b *testing.B, repo repository.TestimonialRepository, n int) {
	b.Helper()
	for i := 0; i < n; i++ {
		status := models.TestimonialStatusPending
		if i%2 == 0 {
			status = models.TestimonialStatusApproved
		}
		err := repo.Create(context.Background(), &models.Testimonial{
			ID:              fmt.Sprintf("t-%06d", i),
			Name:            fmt.Sprintf("Customer %d", i),
			TestimonialText: "Sold in a week, smooth closing.",
			Status:          status,
			UploadedAt:      time.Now(),
		})
		if err != nil {
			b.Fatalf("seed: %v", err)
		}
	}
}

// BenchmarkTestimonialListByStatus benchmarks reading one status out of the JSON document
func BenchmarkTestimonialListByStatus(b *testing.B) {
	repo := repository.NewTestimonialJSONRepo(b.TempDir())
	seedTestimonials(b, repo, 500)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := repo.ListByStatus(context.Background(), models.TestimonialStatusApproved); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTestimonialCreate benchmarks the read-modify-write cycle of the JSON store
func BenchmarkTestimonialCreate(b *testing.B) {
	repo := repository.NewTestimonialJSONRepo(b.TempDir())
	seedTestimonials(b, repo, 100)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		err := repo.Create(context.Background(), &models.Testimonial{
			ID:         fmt.Sprintf("bench-%d", i),
			Name:       "Bench",
			Status:     models.TestimonialStatusPending,
			UploadedAt: time.Now(),
		})
		if err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "writes/sec")
}

// BenchmarkDealLocationList benchmarks the public map query
func BenchmarkDealLocationList(b *testing.B) {
	repo := repository.NewDealLocationJSONRepo(b.TempDir())
	for i := 0; i < 200; i++ {
		err := repo.Create(context.Background(), &models.DealLocation{
			ID:      fmt.Sprintf("d-%04d", i),
			Lat:     30 + float64(i)/100,
			Lng:     -97 - float64(i)/100,
			City:    "Austin",
			State:   "TX",
			AddedAt: time.Now(),
		})
		if err != nil {
			b.Fatalf("seed: %v", err)
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := repo.List(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkValidateOffer benchmarks the schema validation of an offer form
func BenchmarkValidateOffer(b *testing.B) {
	offer := &models.OfferSubmission{
		Name:         "Jane Seller",
		Email:        "jane@example.com",
		Phone:        "555-0100",
		Address:      "1 Main St",
		City:         "Austin",
		State:        "TX",
		Zip:          "78701",
		PropertyType: "single-family",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := validation.ValidateOffer(offer); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkThrottleParallel benchmarks concurrent limiter lookups across many clients
func BenchmarkThrottleParallel(b *testing.B) {
	limiter := throttle.New(&config.ThrottleConfig{
		Enabled: true,
		Limit:   1 << 30,
		Window:  time.Minute,
		CacheMB: 8,
	}, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			limiter.Allow(fmt.Sprintf("submit:10.0.0.%d", i%256))
			i++
		}
	})
}
