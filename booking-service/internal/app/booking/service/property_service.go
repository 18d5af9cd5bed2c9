package service

import (
	"context"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/repository"
)

// PropertyService serves read-side property lookups addressed by id or slug.
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	roomRepo     repository.RoomRepository
	resolver     *PropertyResolver
}

func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	roomRepo repository.RoomRepository,
	resolver *PropertyResolver,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		resolver:     resolver,
	}
}

func (s *PropertyService) GetProperty(ctx context.Context, identifier string) (*entity.Property, error) {
	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, translate(err, "get property")
	}

	return property, nil
}

// ListRooms resolves the identifier once and lists rooms by the canonical id.
func (s *PropertyService) ListRooms(ctx context.Context, identifier string) (string, []entity.Room, error) {
	propertyID, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return "", nil, err
	}

	rooms, err := s.roomRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return "", nil, translate(err, "list rooms")
	}

	return propertyID, rooms, nil
}
