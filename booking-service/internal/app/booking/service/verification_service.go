package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/infrastructure"
	"trahy/booking-service/internal/app/booking/repository"
	"trahy/pkg/logger"
	"trahy/pkg/metrics"
)

// VerificationService applies an admin's partner verification decision to the
// user and then to the property the user owns.
type VerificationService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	tx           repository.Transactor
	publisher    infrastructure.MessagePublisher
}

func NewVerificationService(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	tx repository.Transactor,
	publisher infrastructure.MessagePublisher,
) *VerificationService {
	return &VerificationService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		tx:           tx,
		publisher:    publisher,
	}
}

// Decide records the decision on the user and cascades it to the owned
// property. An owner is expected to have at most one property; when there are
// several, the one with the lowest id is updated. A user without a property is
// still a successful decision.
func (s *VerificationService) Decide(ctx context.Context, userID string, action entity.VerificationAction, remark string) (*entity.VerificationResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, missing("user id")
	}

	userStatus, propertyStatus, ok := action.Outcome()
	if !ok {
		return nil, missing("verification action approve or reject")
	}

	result := &entity.VerificationResult{
		UserID:             userID,
		VerificationStatus: userStatus,
	}

	userUpdated := false
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// 1. User record
		isVerified := userStatus == entity.VerificationStatusVerified
		if err := s.userRepo.UpdateVerification(txCtx, userID, userStatus, isVerified, remark); err != nil {
			return translate(err, "update user verification")
		}
		userUpdated = true

		// 2. Owned property
		property, err := s.propertyRepo.FindByOwner(txCtx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrPropertyNotFound) {
				return nil
			}
			return translate(err, "find owned property")
		}

		// 3. Property status
		if err := s.propertyRepo.UpdateStatus(txCtx, property.ID, propertyStatus); err != nil {
			return translate(err, "update property status")
		}

		result.PropertyID = property.ID
		result.PropertyStatus = propertyStatus
		return nil
	})
	if err != nil {
		err = translate(err, "apply verification decision")
		if userUpdated {
			logger.Ctx(ctx).Error().
				Err(err).
				Str("user_id", userID).
				Str("action", string(action)).
				Msg("Verification cascade failed after user update, state may be partial")
		}
		metrics.VerificationDecisions.WithLabelValues(string(action), "failed").Inc()
		return nil, err
	}

	metrics.VerificationDecisions.WithLabelValues(string(action), "success").Inc()

	eventType := entity.EventPartnerVerified
	if action == entity.VerificationReject {
		eventType = entity.EventPartnerRejected
	}
	publishEvent(ctx, s.publisher, userID, eventType, entity.VerificationEvent{
		EventType:      eventType,
		UserID:         userID,
		Remark:         remark,
		PropertyID:     result.PropertyID,
		PropertyStatus: result.PropertyStatus,
		Timestamp:      time.Now().UTC(),
	})

	logger.Ctx(ctx).Info().
		Str("user_id", userID).
		Str("action", string(action)).
		Str("property_id", result.PropertyID).
		Msg("Partner verification decided")

	return result, nil
}
