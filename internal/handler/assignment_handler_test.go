package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/handler"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/mocks"
	"gharbazaar/internal/service/assignment"
)

func newAssignmentApp(svc *mocks.AssignmentService, agentID uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDContextKey, agentID)
		return c.Next()
	})

	h := handler.NewAssignmentHandler(svc)
	app.Get("/agent/assignments", h.List)
	app.Post("/agent/assignments/:id/respond", h.Respond)
	return app
}

func TestAssignmentHandler_List(t *testing.T) {
	agentID := uuid.New()

	t.Run("Returns Display Fields", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)

		rows := []domain.Assignment{{
			ID:        uuid.New(),
			AgentID:   agentID,
			Status:    domain.AssignmentPending,
			ExpiresAt: time.Now().Add(-time.Hour),
		}}
		svc.On("ListForAgent", mock.Anything, agentID).Return(rows, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/agent/assignments", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Assignments []struct {
				DisplayStatus        string `json:"display_status"`
				CanRespond           bool   `json:"can_respond"`
				TimeRemainingSeconds int64  `json:"time_remaining_seconds"`
			} `json:"assignments"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Assignments, 1)
		assert.Equal(t, "expired", body.Assignments[0].DisplayStatus)
		assert.False(t, body.Assignments[0].CanRespond)
		assert.Zero(t, body.Assignments[0].TimeRemainingSeconds)
	})

	t.Run("Deep Link Is Applied Before The List And Echoed", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)
		assignmentID := uuid.New()

		svc.On("Respond", mock.Anything, agentID, assignmentID, domain.RespondAssignmentInput{
			Decision: domain.DecisionAccepted,
		}).Return(nil).Once()
		svc.On("ListForAgent", mock.Anything, agentID).Return(nil, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET",
			"/agent/assignments?assignment="+assignmentID.String()+"&action=accept", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			DeepLink struct {
				AssignmentID string `json:"assignment_id"`
				Action       string `json:"action"`
				Applied      bool   `json:"applied"`
				Error        string `json:"error"`
			} `json:"deep_link"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.DeepLink.Applied)
		assert.Equal(t, assignmentID.String(), body.DeepLink.AssignmentID)
		assert.Equal(t, "accept", body.DeepLink.Action)
		assert.Empty(t, body.DeepLink.Error)
		svc.AssertExpectations(t)
	})

	t.Run("Deep Link Failure Still Returns The List", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)
		assignmentID := uuid.New()

		svc.On("Respond", mock.Anything, agentID, assignmentID, mock.Anything).Return(assignment.ErrNotYours).Once()
		svc.On("ListForAgent", mock.Anything, agentID).Return([]domain.Assignment{}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET",
			"/agent/assignments?assignment="+assignmentID.String()+"&action=decline", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), `"applied":false`)
		assert.Contains(t, string(raw), "another agent")
	})

	t.Run("Unknown Action Is Reported Without Calling The Service", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)

		svc.On("ListForAgent", mock.Anything, agentID).Return(nil, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET",
			"/agent/assignments?assignment="+uuid.New().String()+"&action=snooze", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAssignmentHandler_Respond(t *testing.T) {
	agentID := uuid.New()
	assignmentID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)

		svc.On("Respond", mock.Anything, agentID, assignmentID, domain.RespondAssignmentInput{
			Decision: domain.DecisionDeclined,
		}).Return(nil).Once()

		req := httptest.NewRequest("POST", "/agent/assignments/"+assignmentID.String()+"/respond",
			strings.NewReader(`{"decision":"declined"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Foreign Assignment Is Forbidden", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)

		svc.On("Respond", mock.Anything, agentID, assignmentID, mock.Anything).Return(assignment.ErrNotYours).Once()

		req := httptest.NewRequest("POST", "/agent/assignments/"+assignmentID.String()+"/respond",
			strings.NewReader(`{"decision":"accepted"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Invalid Decision Is Bad Request", func(t *testing.T) {
		svc := new(mocks.AssignmentService)
		app := newAssignmentApp(svc, agentID)

		svc.On("Respond", mock.Anything, agentID, assignmentID, mock.Anything).Return(assignment.ErrInvalidDecision).Once()

		req := httptest.NewRequest("POST", "/agent/assignments/"+assignmentID.String()+"/respond",
			strings.NewReader(`{"decision":"maybe"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
