package entity

import (
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

// Property is a bookable hotel or listing. Rating and ReviewCount are derived
// from the property's reviews and written only by rating recomputation.
type Property struct {
	ID          string         `json:"id" bson:"_id"`
	OwnerID     string         `json:"ownerId" bson:"ownerId"`
	Slug        string         `json:"slug,omitempty" bson:"slug,omitempty"` // immutable once published
	Name        string         `json:"name" bson:"name"`
	City        string         `json:"city,omitempty" bson:"city,omitempty"`
	Address     string         `json:"address,omitempty" bson:"address,omitempty"`
	Price       float64        `json:"price" bson:"price"`
	Images      []string       `json:"images,omitempty" bson:"images,omitempty"`
	Status      PropertyStatus `json:"status" bson:"status"`
	Rating      float64        `json:"rating" bson:"rating"`
	ReviewCount int            `json:"reviewCount" bson:"reviewCount"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type Room struct {
	ID         string  `json:"id" bson:"_id"`
	PropertyID string  `json:"propertyId" bson:"propertyId"`
	Name       string  `json:"name" bson:"name"`
	Price      float64 `json:"price" bson:"price"`
	Capacity   int     `json:"capacity" bson:"capacity"`
}

// Review belongs to exactly one property. Rating is a pointer because older
// documents may lack the field; aggregation counts a missing rating as 0.
type Review struct {
	ID         string    `json:"id" bson:"_id"`
	PropertyID string    `json:"propertyId" bson:"propertyId"`
	GuestID    string    `json:"guestId,omitempty" bson:"guestId,omitempty"`
	Rating     *float64  `json:"rating" bson:"rating,omitempty"`
	Text       string    `json:"text" bson:"text"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RatingValue returns the review's rating, 0 when absent.
func (r Review) RatingValue() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

// UnmarshalBSON decodes a review document. A rating stored as anything other
// than a number decodes as absent instead of failing the whole read.
func (r *Review) UnmarshalBSON(data []byte) error {
	var doc struct {
		ID         string        `bson:"_id"`
		PropertyID string        `bson:"propertyId"`
		GuestID    string        `bson:"guestId,omitempty"`
		Rating     bson.RawValue `bson:"rating,omitempty"`
		Text       string        `bson:"text"`
		CreatedAt  time.Time     `bson:"createdAt"`
		UpdatedAt  time.Time     `bson:"updatedAt"`
	}
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	*r = Review{
		ID:         doc.ID,
		PropertyID: doc.PropertyID,
		GuestID:    doc.GuestID,
		Rating:     numericRating(doc.Rating),
		Text:       doc.Text,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	return nil
}

func numericRating(v bson.RawValue) *float64 {
	var rating float64
	switch v.Type {
	case bsontype.Double:
		rating = v.Double()
	case bsontype.Int32:
		rating = float64(v.Int32())
	case bsontype.Int64:
		rating = float64(v.Int64())
	case bsontype.Decimal128:
		parsed, err := strconv.ParseFloat(v.Decimal128().String(), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		rating = parsed
	default:
		return nil
	}
	return &rating
}

// RatingSummary is what a property displays for its review set.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

type BookingKind string

const (
	BookingKindStay    BookingKind = "stay"
	BookingKindVehicle BookingKind = "vehicle"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// AdminReply is one entry of a booking's append-only support thread.
type AdminReply struct {
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	AdminName string    `json:"adminName" bson:"adminName"`
}

// Booking references either a property (stay) or a vehicle. CheckIn and
// CheckOut are stored as supplied; ordering and availability are not checked.
type Booking struct {
	ID            string        `json:"id" bson:"_id"`
	Kind          BookingKind   `json:"kind" bson:"kind"`
	PropertyID    string        `json:"propertyId,omitempty" bson:"propertyId,omitempty"`
	VehicleID     string        `json:"vehicleId,omitempty" bson:"vehicleId,omitempty"`
	GuestID       string        `json:"guestId" bson:"guestId"`
	Status        BookingStatus `json:"status" bson:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	CheckIn       string        `json:"checkIn" bson:"checkIn"`
	CheckOut      string        `json:"checkOut" bson:"checkOut"`
	Guests        int           `json:"guests,omitempty" bson:"guests,omitempty"`
	TotalPrice    float64       `json:"totalPrice,omitempty" bson:"totalPrice,omitempty"`
	HasOpenTicket bool          `json:"hasOpenTicket" bson:"hasOpenTicket"`
	TicketMessage string        `json:"ticketMessage,omitempty" bson:"ticketMessage,omitempty"`
	AdminReplies  []AdminReply  `json:"adminReplies" bson:"adminReplies"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusVerified   VerificationStatus = "verified"
	VerificationStatusRejected   VerificationStatus = "rejected"
)

// User is a guest, partner or admin account as seen by this service.
type User struct {
	ID                 string             `json:"uid" bson:"_id"`
	Name               string             `json:"name,omitempty" bson:"name,omitempty"`
	Email              string             `json:"email,omitempty" bson:"email,omitempty"`
	Role               string             `json:"role,omitempty" bson:"role,omitempty"`
	IsVerified         bool               `json:"isVerified" bson:"isVerified"`
	VerificationStatus VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	VerificationRemark string             `json:"verificationRemark" bson:"verificationRemark"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type VerificationAction string

const (
	VerificationApprove VerificationAction = "approve"
	VerificationReject  VerificationAction = "reject"
)

// VerificationResult reports what a verification decision touched.
// PropertyID is empty when the partner owns no property yet.
type VerificationResult struct {
	UserID             string             `json:"userId"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	PropertyID         string             `json:"propertyId,omitempty"`
	PropertyStatus     PropertyStatus     `json:"propertyStatus,omitempty"`
}
