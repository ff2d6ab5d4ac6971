package server

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/processor"
)

// errNoTextMessage is the client-facing body for requests without text.
const errNoTextMessage = "No text provided"

type handlers struct {
	logger      *logrus.Logger
	coordinator *transcache.Coordinator
	html        *processor.HTMLProcessor
}

type translateRequest struct {
	Text       *transcache.Input `json:"text"`
	TargetLang string            `json:"target_lang"`
	SourceLang string            `json:"source_lang"`
}

type translateHTMLRequest struct {
	HTML       string `json:"html"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang"`
}

func (h *handlers) translate(c fiber.Ctx) error {
	var req translateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Text == nil {
		return badRequest(c, errNoTextMessage)
	}

	result, err := h.coordinator.Translate(requestContext(c), *req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		return h.fail(c, err)
	}

	if result.Single {
		return c.JSON(fiber.Map{"data": result.Items[0]})
	}
	return c.JSON(fiber.Map{"data": result.Items})
}

func (h *handlers) translateHTML(c fiber.Ctx) error {
	var req translateHTMLRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.HTML == "" {
		return badRequest(c, "No HTML provided")
	}

	target := req.TargetLang
	if target == "" {
		target = transcache.DefaultTargetLang
	}

	result, err := h.html.TranslateHTML(requestContext(c), h.coordinator, req.HTML, req.SourceLang, target)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"data": result})
}

func (h *handlers) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": transcache.FullVersion(),
	})
}

func (h *handlers) stats(c fiber.Ctx) error {
	return c.JSON(h.coordinator.Store().Stats())
}

// fail maps coordinator errors to responses: input errors are 400, anything
// else is 500 with the error message.
func (h *handlers) fail(c fiber.Ctx, err error) error {
	if transcache.IsInputError(err) {
		return badRequest(c, errNoTextMessage)
	}

	h.logger.WithFields(logrus.Fields{
		"action":     "translate",
		"request_id": RequestID(c),
	}).WithError(err).Error("translation error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func requestContext(c fiber.Ctx) context.Context {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
