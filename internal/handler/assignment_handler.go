package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/assignment"
)

type AssignmentHandler struct {
	assignmentService assignment.Service
}

func NewAssignmentHandler(assignmentService assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// assignmentView wraps the stored row with the derived fields the
// client renders: the expiry overlay, whether accept/decline buttons
// should show, and the countdown.
type assignmentView struct {
	domain.Assignment
	DisplayStatus        domain.AssignmentStatus `json:"display_status"`
	CanRespond           bool                    `json:"can_respond"`
	TimeRemainingSeconds int64                   `json:"time_remaining_seconds"`
}

func newAssignmentView(a domain.Assignment, now time.Time) assignmentView {
	return assignmentView{
		Assignment:           a,
		DisplayStatus:        a.DisplayStatus(now),
		CanRespond:           a.CanRespond(now),
		TimeRemainingSeconds: int64(a.TimeRemaining(now) / time.Second),
	}
}

// deepLinkResult echoes the query parameters the list call consumed, so
// the client knows to strip them from the URL. Applied is false when the
// response could not be recorded; the list is still returned.
type deepLinkResult struct {
	AssignmentID string `json:"assignment_id"`
	Action       string `json:"action"`
	Applied      bool   `json:"applied"`
	Error        string `json:"error,omitempty"`
}

// Create offers an inquiry to an agent. Admin only.
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateAssignmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.InquiryID == uuid.Nil || input.AgentID == uuid.Nil {
		return middleware.BadRequest("inquiry_id and agent_id are required")
	}

	created, err := h.assignmentService.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, assignment.ErrInquiryNotFound):
			return middleware.NotFound("Inquiry not found")
		case errors.Is(err, assignment.ErrAgentNotFound):
			return middleware.BadRequest("Agent not found or user is not an agent")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newAssignmentView(*created, time.Now()))
}

// List returns the agent's assignments, newest first. When the request
// carries assignment and action query parameters, the decision is
// applied first, exactly once, and the consumed parameters are echoed
// back so the client clears them. A deep-link failure never fails the
// list; it is reported inline for the client to toast.
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	agentID := middleware.GetCurrentUserID(c)

	deepLink := h.applyDeepLink(c, agentID)

	assignments, err := h.assignmentService.ListForAgent(c.Context(), agentID)
	if err != nil {
		return err
	}

	now := time.Now()
	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, newAssignmentView(a, now))
	}

	response := fiber.Map{"assignments": views}
	if deepLink != nil {
		response["deep_link"] = deepLink
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *AssignmentHandler) applyDeepLink(c *fiber.Ctx, agentID uuid.UUID) *deepLinkResult {
	assignmentParam := c.Query("assignment")
	actionParam := c.Query("action")
	if assignmentParam == "" || actionParam == "" {
		return nil
	}

	result := &deepLinkResult{AssignmentID: assignmentParam, Action: actionParam}

	var decision domain.AssignmentDecision
	switch actionParam {
	case "accept":
		decision = domain.DecisionAccepted
	case "decline":
		decision = domain.DecisionDeclined
	default:
		result.Error = "action must be accept or decline"
		return result
	}

	assignmentID, err := uuid.Parse(assignmentParam)
	if err != nil {
		result.Error = "invalid assignment id"
		return result
	}

	err = h.assignmentService.Respond(c.Context(), agentID, assignmentID, domain.RespondAssignmentInput{Decision: decision})
	if err != nil {
		result.Error = respondErrorMessage(err)
		return result
	}

	result.Applied = true
	return result
}

// ListAgents feeds the back office's agent picker.
func (h *AssignmentHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.assignmentService.ListAgents(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"agents": agents})
}

// Respond records the agent's accept or decline.
func (h *AssignmentHandler) Respond(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid assignment id")
	}

	var input domain.RespondAssignmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	agentID := middleware.GetCurrentUserID(c)
	if err := h.assignmentService.Respond(c.Context(), agentID, assignmentID, input); err != nil {
		switch {
		case errors.Is(err, assignment.ErrInvalidDecision):
			return middleware.BadRequest("decision must be accepted or declined")
		case errors.Is(err, assignment.ErrNotFound):
			return middleware.NotFound("Assignment not found")
		case errors.Is(err, assignment.ErrNotYours):
			return middleware.Forbidden("Assignment belongs to another agent")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Response recorded"})
}

func respondErrorMessage(err error) string {
	switch {
	case errors.Is(err, assignment.ErrNotFound):
		return "assignment not found"
	case errors.Is(err, assignment.ErrNotYours):
		return "assignment belongs to another agent"
	case errors.Is(err, assignment.ErrInvalidDecision):
		return "action must be accept or decline"
	default:
		return "failed to record response"
	}
}
