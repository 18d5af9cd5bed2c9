package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/service"
	"trahy/booking-service/internal/app/booking/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret"
	testSuccessURL = "http://localhost:3000/booking/status"
)

type testServer struct {
	router       *gin.Engine
	properties   *mocks.MockPropertyService
	reviews      *mocks.MockReviewService
	bookings     *mocks.MockBookingService
	verification *mocks.MockVerificationService
}

func newTestServer(checks map[string]HealthCheck) *testServer {
	gin.SetMode(gin.TestMode)

	s := &testServer{
		properties:   new(mocks.MockPropertyService),
		reviews:      new(mocks.MockReviewService),
		bookings:     new(mocks.MockBookingService),
		verification: new(mocks.MockVerificationService),
	}

	s.router = SetupRoutes(Handlers{
		Property:     NewPropertyHandler(s.properties),
		Review:       NewReviewHandler(s.reviews),
		Booking:      NewBookingHandler(s.bookings),
		Verification: NewVerificationHandler(s.verification),
		Payment:      NewPaymentHandler(s.bookings, testSuccessURL),
		Health:       NewHealthCheckHandler(serviceName, checks),
	}, NewAuthMiddleware(testSecret))

	return s
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   userID,
		Email:    userID + "@example.com",
		Name:     "Name " + userID,
		RoleName: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// ===================== Auth =====================

func TestAuthenticate_MissingHeader(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodGet, "/bookings/mine", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header required", errorBody(t, w))
}

func TestAuthenticate_BadFormat(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid authorization header format", errorBody(t, w))
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	s := newTestServer(nil)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{UserID: "guest-1"}).SignedString([]byte("other"))
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/bookings/mine", signed, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	s := newTestServer(nil)

	claims := JWTClaims{
		UserID: "guest-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/bookings/mine", signed, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, w))
}

func TestRequireRole_NonAdmin(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodGet, "/admin/tickets", tokenFor(t, "guest-1", "guest"), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", errorBody(t, w))
	s.bookings.AssertNotCalled(t, "ListOpenTickets", mock.Anything)
}

// ===================== Properties & reviews =====================

func TestGetProperty_BySlug(t *testing.T) {
	s := newTestServer(nil)
	s.properties.On("GetProperty", mock.Anything, "sunny-villa").Return(&entity.Property{ID: "prop-1", Slug: "sunny-villa"}, nil)

	w := s.do(http.MethodGet, "/properties/sunny-villa", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var property entity.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &property))
	assert.Equal(t, "prop-1", property.ID)
}

func TestGetProperty_NotFound(t *testing.T) {
	s := newTestServer(nil)
	s.properties.On("GetProperty", mock.Anything, "nowhere").Return(nil, service.ErrNotFound)

	w := s.do(http.MethodGet, "/properties/nowhere", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRooms_EmptyList(t *testing.T) {
	s := newTestServer(nil)
	s.properties.On("ListRooms", mock.Anything, "prop-1").Return("prop-1", nil, nil)

	w := s.do(http.MethodGet, "/properties/prop-1/rooms", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"propertyId":"prop-1","rooms":[]}`, w.Body.String())
}

func TestListReviews_WithSummary(t *testing.T) {
	s := newTestServer(nil)
	rating := 4.0
	s.reviews.On("ListReviews", mock.Anything, "prop-1").
		Return([]entity.Review{{ID: "r1", Rating: &rating}}, entity.RatingSummary{AverageRating: 4, ReviewCount: 1}, nil)

	w := s.do(http.MethodGet, "/properties/prop-1/reviews", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var response entity.ReviewListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Reviews, 1)
	assert.Equal(t, 1, response.Summary.ReviewCount)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/properties/prop-1/reviews", tokenFor(t, "guest-1", "guest"),
		entity.CreateReviewRequest{Rating: 6, Text: "Too good"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating is max", errorBody(t, w))
	s.reviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReview_Success(t *testing.T) {
	s := newTestServer(nil)
	rating := 5.0
	s.reviews.On("CreateReview", mock.Anything, "prop-1", "guest-1", mock.AnythingOfType("*entity.CreateReviewRequest")).
		Return(&entity.Review{ID: "r1", PropertyID: "prop-1", Rating: &rating}, &entity.RatingSummary{AverageRating: 5, ReviewCount: 1}, nil)

	w := s.do(http.MethodPost, "/properties/prop-1/reviews", tokenFor(t, "guest-1", "guest"),
		entity.CreateReviewRequest{Rating: 5, Text: "Lovely"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteReview_AdminOnly(t *testing.T) {
	s := newTestServer(nil)
	s.reviews.On("DeleteReview", mock.Anything, "prop-1", "r1").Return(&entity.RatingSummary{}, nil)

	guest := s.do(http.MethodDelete, "/properties/prop-1/reviews/r1", tokenFor(t, "guest-1", "guest"), nil)
	admin := s.do(http.MethodDelete, "/properties/prop-1/reviews/r1", tokenFor(t, "admin-1", RoleAdmin), nil)

	assert.Equal(t, http.StatusForbidden, guest.Code)
	assert.Equal(t, http.StatusOK, admin.Code)
	s.reviews.AssertNumberOfCalls(t, "DeleteReview", 1)
}

func TestEditReview_PersistenceError(t *testing.T) {
	s := newTestServer(nil)
	s.reviews.On("EditReview", mock.Anything, "prop-1", "r1", "Updated", 3.0).
		Return(nil, errors.Join(service.ErrPersistence, errors.New("socket closed")))

	w := s.do(http.MethodPatch, "/properties/prop-1/reviews/r1", tokenFor(t, "admin-1", RoleAdmin),
		entity.EditReviewRequest{Rating: 3, Text: "Updated"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to update review", errorBody(t, w))
}

func TestRecomputeRating(t *testing.T) {
	s := newTestServer(nil)
	s.reviews.On("Recompute", mock.Anything, "prop-1").Return(&entity.RatingSummary{AverageRating: 4.5, ReviewCount: 2}, nil)

	w := s.do(http.MethodPost, "/properties/prop-1/rating/recompute", tokenFor(t, "admin-1", RoleAdmin), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"averageRating":4.5,"reviewCount":2}`, w.Body.String())
}

// ===================== Bookings =====================

func TestCreateBooking_Success(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Create", mock.Anything, "guest-1", mock.AnythingOfType("*entity.CreateBookingRequest")).
		Return(&entity.Booking{ID: "b1", GuestID: "guest-1", Status: entity.BookingStatusPendingPayment}, nil)

	w := s.do(http.MethodPost, "/bookings", tokenFor(t, "guest-1", "guest"), entity.CreateBookingRequest{
		PropertyID: "sunny-villa",
		CheckIn:    "2026-07-01",
		CheckOut:   "2026-07-03",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var booking entity.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, "b1", booking.ID)
}

func TestCreateBooking_MissingDates(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/bookings", tokenFor(t, "guest-1", "guest"), entity.CreateBookingRequest{PropertyID: "prop-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_NoReference(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Create", mock.Anything, "guest-1", mock.Anything).
		Return(nil, errors.Join(service.ErrMissingInput, errors.New("property or vehicle reference")))

	w := s.do(http.MethodPost, "/bookings", tokenFor(t, "guest-1", "guest"), entity.CreateBookingRequest{
		CheckIn:  "2026-07-01",
		CheckOut: "2026-07-03",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMyBookings(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("ListByGuest", mock.Anything, "guest-1").Return([]entity.Booking{{ID: "b1"}, {ID: "b2"}}, nil)

	w := s.do(http.MethodGet, "/bookings/mine", tokenFor(t, "guest-1", "guest"), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var response entity.BookingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Total)
}

func TestGetBooking_Ownership(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Get", mock.Anything, "b1").Return(&entity.Booking{ID: "b1", GuestID: "guest-1"}, nil)

	owner := s.do(http.MethodGet, "/bookings/b1", tokenFor(t, "guest-1", "guest"), nil)
	stranger := s.do(http.MethodGet, "/bookings/b1", tokenFor(t, "guest-2", "guest"), nil)
	admin := s.do(http.MethodGet, "/bookings/b1", tokenFor(t, "admin-1", RoleAdmin), nil)

	assert.Equal(t, http.StatusOK, owner.Code)
	assert.Equal(t, http.StatusForbidden, stranger.Code)
	assert.Equal(t, http.StatusOK, admin.Code)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Get", mock.Anything, "b1").Return(&entity.Booking{ID: "b1", GuestID: "guest-1", Status: entity.BookingStatusCancelled}, nil)
	s.bookings.On("Cancel", mock.Anything, "b1").Return(nil, service.ErrAlreadyCancelled)

	w := s.do(http.MethodPost, "/bookings/b1/cancel", tokenFor(t, "guest-1", "guest"), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Already cancelled", errorBody(t, w))
}

func TestCancelBooking_Stranger(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Get", mock.Anything, "b1").Return(&entity.Booking{ID: "b1", GuestID: "guest-1"}, nil)

	w := s.do(http.MethodPost, "/bookings/b1/cancel", tokenFor(t, "guest-2", "guest"), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	s.bookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelBooking_NotFound(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Get", mock.Anything, "missing").Return(nil, service.ErrNotFound)

	w := s.do(http.MethodPost, "/bookings/missing/cancel", tokenFor(t, "guest-1", "guest"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenTicket_OwnerOnly(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("Get", mock.Anything, "b1").Return(&entity.Booking{ID: "b1", GuestID: "guest-1"}, nil)
	s.bookings.On("OpenTicket", mock.Anything, "b1", "Late check-in?").Return(nil)

	admin := s.do(http.MethodPost, "/bookings/b1/tickets", tokenFor(t, "admin-1", RoleAdmin), entity.OpenTicketRequest{Message: "Late check-in?"})
	owner := s.do(http.MethodPost, "/bookings/b1/tickets", tokenFor(t, "guest-1", "guest"), entity.OpenTicketRequest{Message: "Late check-in?"})

	assert.Equal(t, http.StatusForbidden, admin.Code)
	assert.Equal(t, http.StatusOK, owner.Code)
	s.bookings.AssertNumberOfCalls(t, "OpenTicket", 1)
}

func TestReply_UsesAdminName(t *testing.T) {
	s := newTestServer(nil)
	reply := &entity.AdminReply{Message: "On it", AdminName: "Name admin-1", CreatedAt: time.Now().UTC()}
	s.bookings.On("Reply", mock.Anything, "b1", "On it", "Name admin-1").Return(reply, nil)

	w := s.do(http.MethodPost, "/bookings/b1/replies", tokenFor(t, "admin-1", RoleAdmin), entity.ReplyRequest{Message: "On it"})

	assert.Equal(t, http.StatusCreated, w.Code)
	s.bookings.AssertExpectations(t)
}

func TestReply_EmptyMessage(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/bookings/b1/replies", tokenFor(t, "admin-1", RoleAdmin), entity.ReplyRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAmendDates(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("AmendDates", mock.Anything, "b1", "2026-07-02", "2026-07-04").
		Return(&entity.AdminReply{Message: "Booking dates changed", AdminName: "System"}, nil)

	w := s.do(http.MethodPut, "/bookings/b1/dates", tokenFor(t, "admin-1", RoleAdmin),
		entity.AmendDatesRequest{CheckIn: "2026-07-02", CheckOut: "2026-07-04"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListOpenTickets_Admin(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("ListOpenTickets", mock.Anything).Return(nil, nil)

	w := s.do(http.MethodGet, "/admin/tickets", tokenFor(t, "admin-1", RoleAdmin), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookings":[],"total":0}`, w.Body.String())
}

// ===================== Verification =====================

func TestDecideVerification_Success(t *testing.T) {
	s := newTestServer(nil)
	s.verification.On("Decide", mock.Anything, "user-1", entity.VerificationApprove, "").
		Return(&entity.VerificationResult{
			UserID:             "user-1",
			VerificationStatus: entity.VerificationStatusVerified,
			PropertyID:         "prop-1",
			PropertyStatus:     entity.PropertyStatusApproved,
		}, nil)

	w := s.do(http.MethodPost, "/admin/users/user-1/verification", tokenFor(t, "admin-1", RoleAdmin),
		entity.VerificationDecisionRequest{Action: "approve"})

	require.Equal(t, http.StatusOK, w.Code)
	var result entity.VerificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, entity.PropertyStatusApproved, result.PropertyStatus)
}

func TestDecideVerification_InvalidAction(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/admin/users/user-1/verification", tokenFor(t, "admin-1", RoleAdmin),
		entity.VerificationDecisionRequest{Action: "maybe"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.verification.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideVerification_UnknownUser(t *testing.T) {
	s := newTestServer(nil)
	s.verification.On("Decide", mock.Anything, "ghost", entity.VerificationReject, "no docs").Return(nil, service.ErrNotFound)

	w := s.do(http.MethodPost, "/admin/users/ghost/verification", tokenFor(t, "admin-1", RoleAdmin),
		entity.VerificationDecisionRequest{Action: "reject", Remark: "no docs"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== Payment callback =====================

func TestPaymentCallback_Success(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("ConfirmPayment", mock.Anything, "b1").Return(nil)

	w := s.do(http.MethodGet, "/payments/callback?bookingId=b1", "", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testSuccessURL+"?bookingId=b1", w.Header().Get("Location"))
}

func TestPaymentCallback_FailureStillRedirects(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("ConfirmPayment", mock.Anything, "missing").Return(service.ErrNotFound)

	w := s.do(http.MethodGet, "/payments/callback?bookingId=missing", "", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testSuccessURL+"?bookingId=missing&error=true", w.Header().Get("Location"))
}

func TestPaymentCallback_MissingBookingID(t *testing.T) {
	s := newTestServer(nil)
	s.bookings.On("ConfirmPayment", mock.Anything, "").Return(service.ErrMissingInput)

	w := s.do(http.MethodGet, "/payments/callback", "", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=true")
}

func TestPaymentRedirectURL_KeepsExistingQuery(t *testing.T) {
	h := NewPaymentHandler(nil, "https://app.example.com/status?lang=en")

	assert.Equal(t, "https://app.example.com/status?bookingId=b1&lang=en", h.redirectURL("b1", false))
}

// ===================== Health =====================

func TestHealth_AllHealthy(t *testing.T) {
	s := newTestServer(map[string]HealthCheck{
		"mongodb": func(ctx context.Context) error { return nil },
		"redis":   func(ctx context.Context) error { return nil },
	})

	w := s.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "healthy", response.Checks["mongodb"])
}

func TestHealth_Unhealthy(t *testing.T) {
	s := newTestServer(map[string]HealthCheck{
		"mongodb": func(ctx context.Context) error { return nil },
		"redis":   func(ctx context.Context) error { return errors.New("connection refused") },
	})

	health := s.do(http.MethodGet, "/health", "", nil)
	ready := s.do(http.MethodGet, "/health/readiness", "", nil)
	live := s.do(http.MethodGet, "/health/liveness", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, health.Code)
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Equal(t, "redis not ready", ready.Body.String())
	assert.Equal(t, http.StatusOK, live.Code)
}
