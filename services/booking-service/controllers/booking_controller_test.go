package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/booking-service/services"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
)

type MockDecider struct {
	mock.Mock
}

func (m *MockDecider) Decide(ctx context.Context, req services.BookingRequest) (*services.Decision, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Decision), args.Error(1)
}

func approved(id string, req services.BookingRequest) *services.Decision {
	return &services.Decision{Status: services.StatusApproved, BookingID: id, UserID: req.UserID, CarID: req.CarID, Quantity: req.Quantity}
}

var declined = &services.Decision{Status: services.StatusDeclined, Reason: services.ReasonLimit}

func setupRouter(d Decider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewBookingController(d, zap.NewNop()).RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingApproved(t *testing.T) {
	d := new(MockDecider)
	req := services.BookingRequest{UserID: "u1", CarID: "c1", Quantity: 5}
	d.On("Decide", mock.Anything, req).Return(approved("b-1", req), nil).Once()

	w := post(setupRouter(d), "/bookings", `{"userId":"u1","carId":"c1","quantity":5}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"APPROVED","bookingId":"b-1","userId":"u1","carId":"c1","quantity":5}`, w.Body.String())
	d.AssertExpectations(t)
}

func TestCreateBookingDeclined(t *testing.T) {
	d := new(MockDecider)
	d.On("Decide", mock.Anything, services.BookingRequest{UserID: "u1", CarID: "c1", Quantity: 45}).Return(declined, nil).Once()

	w := post(setupRouter(d), "/bookings", `{"UserId":"u1","CarId":"c1","Quantity":45}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"status":"DECLINED","reason":"limit exceeded"}`, w.Body.String())
	d.AssertExpectations(t)
}

func TestCreateBookingMissingUser(t *testing.T) {
	d := new(MockDecider)
	w := post(setupRouter(d), "/bookings", `{"carId":"c1","quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing UserId or CarId"}`, w.Body.String())
	d.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything)
}

func TestCreateBookingInvalidJSON(t *testing.T) {
	d := new(MockDecider)
	w := post(setupRouter(d), "/bookings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, w.Body.String())
	d.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything)
}

func TestCreateBookingDependencyFailureHidesCause(t *testing.T) {
	d := new(MockDecider)
	d.On("Decide", mock.Anything, mock.Anything).Return(
		&services.Decision{Status: services.StatusApproved, BookingID: "b-7"},
		apperrors.Dependency("Booking recorded but notification could not be queued", errors.New("sqs: AccessDenied arn:aws:...")),
	).Once()

	w := post(setupRouter(d), "/bookings", `{"userId":"u1","carId":"c1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Booking recorded but notification could not be queued","bookingId":"b-7"}`, w.Body.String())
	d.AssertExpectations(t)
}

func TestInvokeBookingOrchestratorShape(t *testing.T) {
	d := new(MockDecider)
	ok := services.BookingRequest{UserID: "u1", CarID: "c1", Quantity: 3}
	d.On("Decide", mock.Anything, ok).Return(approved("b-1", ok), nil).Once()
	d.On("Decide", mock.Anything, services.BookingRequest{UserID: "u1", CarID: "c1", Quantity: 31}).Return(declined, nil).Once()
	r := setupRouter(d)

	w := post(r, "/bookings/invoke", `{"userId":"u1","carId":"c1","quantity":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"APPROVED","bookingId":"b-1","userId":"u1","carId":"c1","quantity":3}`, w.Body.String())

	w = post(r, "/bookings/invoke", `{"userId":"u1","carId":"c1","quantity":31}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"DECLINED","reason":"limit exceeded"}`, w.Body.String())

	w = post(r, "/bookings/invoke", `{"carId":"c1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"INVALID","error":"Missing UserId or CarId"}`, w.Body.String())
	d.AssertExpectations(t)
}

func TestInvokeSynchronousEvent(t *testing.T) {
	d := new(MockDecider)
	d.On("Decide", mock.Anything, services.BookingRequest{UserID: "u1", CarID: "c1", Quantity: 40}).Return(declined, nil).Once()
	bc := NewBookingController(d, zap.NewNop())
	raw, _ := json.Marshal(events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: `{"userId":"u1","carId":"c1","quantity":40}`})

	out, err := bc.Invoke(context.Background(), raw)
	require.NoError(t, err)
	resp, ok := out.(events.APIGatewayProxyResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"status":"DECLINED","reason":"limit exceeded"}`, resp.Body)
	d.AssertExpectations(t)
}

func TestInvokeSynchronousEventMissingIDs(t *testing.T) {
	d := new(MockDecider)
	bc := NewBookingController(d, zap.NewNop())
	out, err := bc.Invoke(context.Background(), json.RawMessage(`{"body":"{\"carId\":\"c1\"}"}`))
	require.NoError(t, err)
	resp := out.(events.APIGatewayProxyResponse)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Missing UserId or CarId"}`, resp.Body)
	d.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything)
}

func TestInvokeOrchestratorEvent(t *testing.T) {
	d := new(MockDecider)
	req := services.BookingRequest{UserID: "u1", CarID: "c1", Quantity: 2}
	d.On("Decide", mock.Anything, req).Return(approved("b-2", req), nil).Once()
	bc := NewBookingController(d, zap.NewNop())

	out, err := bc.Invoke(context.Background(), json.RawMessage(`{"UserId":"u1","CarId":"c1","Quantity":2}`))
	require.NoError(t, err)
	got, ok := out.(*services.Decision)
	require.True(t, ok)
	assert.Equal(t, services.StatusApproved, got.Status)
	assert.Equal(t, 2, got.Quantity)
	d.AssertExpectations(t)
}

func TestInvokeOrchestratorDependencyFailureFailsInvocation(t *testing.T) {
	d := new(MockDecider)
	d.On("Decide", mock.Anything, mock.Anything).Return(nil, apperrors.Dependency("Failed to record booking", errors.New("boom"))).Once()
	bc := NewBookingController(d, zap.NewNop())

	_, err := bc.Invoke(context.Background(), json.RawMessage(`{"userId":"u1","carId":"c1"}`))
	assert.ErrorIs(t, err, apperrors.ErrDependency)
}

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		shape Shape
		want  map[string]any
		err   bool
	}{
		{"orchestrator", `{"userId":"u1"}`, ShapeOrchestrator, map[string]any{"userId": "u1"}, false},
		{"string body", `{"body":"{\"userId\":\"u1\"}"}`, ShapeSynchronous, map[string]any{"userId": "u1"}, false},
		{"object body", `{"body":{"userId":"u1"}}`, ShapeSynchronous, map[string]any{"userId": "u1"}, false},
		{"null body", `{"body":null}`, ShapeSynchronous, map[string]any{}, false},
		{"empty body", `{"body":""}`, ShapeSynchronous, map[string]any{}, false},
		{"bad body", `{"body":"{oops"}`, ShapeSynchronous, nil, true},
		{"not an object", `[1,2]`, ShapeOrchestrator, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := ParseInvocation([]byte(tt.raw))
			assert.Equal(t, tt.shape, inv.Shape)
			if tt.err {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.Payload)
		})
	}
}
