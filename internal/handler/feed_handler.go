package handler

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/feed"
)

const streamKeepAlive = 30 * time.Second

type FeedHandler struct {
	feedService *feed.Service
	keepAlive   time.Duration
}

func NewFeedHandler(feedService *feed.Service) *FeedHandler {
	return &FeedHandler{feedService: feedService, keepAlive: streamKeepAlive}
}

// Open creates a feed session for the current user and returns its
// initial snapshot. The session id is the handle for the stream, read
// and close calls.
func (h *FeedHandler) Open(c *fiber.Ctx) error {
	listener := h.feedService.Open(c.Context(), middleware.GetCurrentUserID(c))
	items, unread := listener.Snapshot()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":    listener.ID,
		"notifications": items,
		"unread_count":  unread,
	})
}

func (h *FeedHandler) Snapshot(c *fiber.Ctx) error {
	listener, err := h.session(c)
	if err != nil {
		return err
	}

	items, unread := listener.Snapshot()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": items,
		"unread_count":  unread,
	})
}

// Stream pushes live feed items over server-sent events. The stream
// ends when the session is closed or the write side fails; a client
// that vanishes without calling DELETE must not leak its subscription,
// so the stream exiting tears the session down either way.
func (h *FeedHandler) Stream(c *fiber.Ctx) error {
	listener, err := h.session(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.streamFeed(w, listener)
	}))

	return nil
}

// streamFeed drains the listener into the SSE writer until the session
// is closed or a write fails (client gone). On exit the session is
// closed and deregistered.
func (h *FeedHandler) streamFeed(w *bufio.Writer, listener *feed.Listener) {
	defer h.feedService.Close(listener.ID, listener.UserID)

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case item := <-listener.Events():
			payload, err := json.Marshal(item)
			if err != nil {
				continue
			}
			if _, err := w.WriteString("event: notification\ndata: " + string(payload) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		case <-keepAlive.C:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		case <-listener.Done():
			return
		}
	}
}

func (h *FeedHandler) MarkRead(c *fiber.Ctx) error {
	listener, err := h.session(c)
	if err != nil {
		return err
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ID == "" {
		return middleware.BadRequest("id is required")
	}

	listener.MarkRead(body.ID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"unread_count": listener.UnreadCount()})
}

func (h *FeedHandler) MarkAllRead(c *fiber.Ctx) error {
	listener, err := h.session(c)
	if err != nil {
		return err
	}

	listener.MarkAllRead()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"unread_count": 0})
}

// Close tears down the session and its subscription.
func (h *FeedHandler) Close(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid session id")
	}

	h.feedService.Close(sessionID, middleware.GetCurrentUserID(c))

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *FeedHandler) session(c *fiber.Ctx) (*feed.Listener, error) {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, middleware.BadRequest("Invalid session id")
	}

	listener, ok := h.feedService.Get(sessionID, middleware.GetCurrentUserID(c))
	if !ok {
		return nil, middleware.NotFound("Feed session not found")
	}
	return listener, nil
}
