package server

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/mrsingh-rishi/riverwood-chat/types"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// Replier produces the assistant's text reply.
type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Synthesizer renders a reply as audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Server struct {
	replier     Replier
	synthesizer Synthesizer
	log         *zap.Logger
	timeout     time.Duration
}

// New builds the backend. synthesizer may be nil, in which case replies carry
// no audio.
func New(replier Replier, synthesizer Synthesizer, log *zap.Logger) *Server {
	log = logging.OrNop(log)
	return &Server{
		replier:     replier,
		synthesizer: synthesizer,
		log:         log,
		timeout:     60 * time.Second,
	}
}

// App returns the fiber app with all routes mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + RequestIDHeader,
	}))
	app.Use(s.requestID)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Riverwood AI backend running"})
	})
	app.Post("/chat", s.chat)
	return app
}

func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(RequestIDHeader, id)
	c.Locals("request_id", id)

	start := time.Now()
	err := c.Next()
	s.log.Info("request",
		zap.String("request_id", id),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

// chat answers {"message"} with {"reply","audio"}. Failures are reported as
// {"error"} with status 200 so browser clients always get JSON.
func (s *Server) chat(c *fiber.Ctx) error {
	var req types.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ChatResponse{Error: "invalid JSON"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.timeout)
	defer cancel()
	log := s.log.With(zap.Any("request_id", c.Locals("request_id")))

	reply, err := s.replier.Reply(ctx, req.Message)
	if err != nil {
		log.Error("reply failed", zap.Error(err))
		return c.JSON(types.ChatResponse{Error: err.Error()})
	}

	resp := types.ChatResponse{Reply: reply}
	if s.synthesizer != nil {
		audio, err := s.synthesizer.Synthesize(ctx, reply)
		if err != nil {
			log.Error("speech synthesis failed", zap.Error(err))
			return c.JSON(types.ChatResponse{Error: err.Error()})
		}
		resp.Audio = base64.StdEncoding.EncodeToString(audio)
	}
	return c.JSON(resp)
}
