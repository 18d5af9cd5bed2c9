package service

import (
	"context"
	"math"
	"strings"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/infrastructure"
	"trahy/booking-service/internal/app/booking/repository"
	"trahy/pkg/metrics"
)

// ReviewService keeps a property's displayed rating consistent with its
// reviews. Every review mutation is paired with a recomputation in the same
// unit of work.
type ReviewService struct {
	reviewRepo   repository.ReviewRepository
	propertyRepo repository.PropertyRepository
	resolver     *PropertyResolver
	tx           repository.Transactor
	publisher    infrastructure.MessagePublisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	propertyRepo repository.PropertyRepository,
	resolver *PropertyResolver,
	tx repository.Transactor,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		propertyRepo: propertyRepo,
		resolver:     resolver,
		tx:           tx,
		publisher:    publisher,
	}
}

// Summarize averages the ratings of reviews, counting a missing rating as 0,
// rounded to one decimal. No reviews yields 0/0.
func Summarize(reviews []entity.Review) entity.RatingSummary {
	if len(reviews) == 0 {
		return entity.RatingSummary{AverageRating: 0, ReviewCount: 0}
	}

	var total float64
	for _, review := range reviews {
		total += review.RatingValue()
	}

	return entity.RatingSummary{
		AverageRating: roundToOneDecimal(total / float64(len(reviews))),
		ReviewCount:   len(reviews),
	}
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// Recompute rebuilds the rating summary of a property from its current reviews
// and writes it back. It is safe to call repeatedly.
func (s *ReviewService) Recompute(ctx context.Context, identifier string) (*entity.RatingSummary, error) {
	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return s.recompute(ctx, propertyID, "manual")
}

func (s *ReviewService) recompute(ctx context.Context, propertyID string, trigger string) (*entity.RatingSummary, error) {
	reviews, err := s.reviewRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		metrics.RatingRecomputes.WithLabelValues(trigger, "failed").Inc()
		return nil, translate(err, "list reviews")
	}

	summary := Summarize(reviews)

	if err := s.propertyRepo.UpdateRating(ctx, propertyID, summary); err != nil {
		metrics.RatingRecomputes.WithLabelValues(trigger, "failed").Inc()
		return nil, translate(err, "update property rating")
	}

	metrics.RatingRecomputes.WithLabelValues(trigger, "success").Inc()
	return &summary, nil
}

// ListReviews returns the reviews of a property, newest first, with the
// summary computed from exactly that set.
func (s *ReviewService) ListReviews(ctx context.Context, identifier string) ([]entity.Review, entity.RatingSummary, error) {
	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, entity.RatingSummary{}, err
	}

	reviews, err := s.reviewRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, entity.RatingSummary{}, translate(err, "list reviews")
	}

	return reviews, Summarize(reviews), nil
}

// CreateReview stores a guest review and refreshes the property's rating.
func (s *ReviewService) CreateReview(ctx context.Context, identifier, guestID string, req *entity.CreateReviewRequest) (*entity.Review, *entity.RatingSummary, error) {
	if strings.TrimSpace(guestID) == "" {
		return nil, nil, missing("guest id")
	}

	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}

	rating := req.Rating
	review := &entity.Review{
		PropertyID: propertyID,
		GuestID:    guestID,
		Rating:     &rating,
		Text:       req.Text,
	}

	var summary *entity.RatingSummary
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.reviewRepo.Create(txCtx, review); err != nil {
			return translate(err, "create review")
		}

		var recomputeErr error
		summary, recomputeErr = s.recompute(txCtx, propertyID, "create")
		return recomputeErr
	})
	if err != nil {
		return nil, nil, translate(err, "create review")
	}

	metrics.ReviewsRating.Observe(rating)
	s.publishReviewEvent(ctx, entity.EventReviewCreated, review.ID, propertyID, summary)

	return review, summary, nil
}

// EditReview overwrites a review's text and rating, then recomputes.
func (s *ReviewService) EditReview(ctx context.Context, identifier, reviewID, newText string, newRating float64) (*entity.RatingSummary, error) {
	if strings.TrimSpace(reviewID) == "" {
		return nil, missing("review id")
	}

	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var summary *entity.RatingSummary
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.reviewRepo.Update(txCtx, propertyID, reviewID, newText, newRating); err != nil {
			return translate(err, "update review")
		}

		var recomputeErr error
		summary, recomputeErr = s.recompute(txCtx, propertyID, "edit")
		return recomputeErr
	})
	if err != nil {
		return nil, translate(err, "edit review")
	}

	s.publishReviewEvent(ctx, entity.EventReviewUpdated, reviewID, propertyID, summary)

	return summary, nil
}

// DeleteReview removes a review, then recomputes. A failure after the removal
// leaves the rating stale until the next recomputation of the property.
func (s *ReviewService) DeleteReview(ctx context.Context, identifier, reviewID string) (*entity.RatingSummary, error) {
	if strings.TrimSpace(reviewID) == "" {
		return nil, missing("review id")
	}

	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var summary *entity.RatingSummary
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.reviewRepo.Delete(txCtx, propertyID, reviewID); err != nil {
			return translate(err, "delete review")
		}

		var recomputeErr error
		summary, recomputeErr = s.recompute(txCtx, propertyID, "delete")
		return recomputeErr
	})
	if err != nil {
		return nil, translate(err, "delete review")
	}

	s.publishReviewEvent(ctx, entity.EventReviewDeleted, reviewID, propertyID, summary)

	return summary, nil
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType, reviewID, propertyID string, summary *entity.RatingSummary) {
	event := entity.ReviewEvent{
		EventType:     eventType,
		ReviewID:      reviewID,
		PropertyID:    propertyID,
		AverageRating: summary.AverageRating,
		ReviewCount:   summary.ReviewCount,
		Timestamp:     time.Now().UTC(),
	}

	publishEvent(ctx, s.publisher, propertyID, eventType, event)
}
