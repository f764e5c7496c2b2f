package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/agents"
	"github.com/allerpredict/backend/pkg/logger"
)

type WebSocketHandler struct {
	pipeline *agents.Pipeline
}

func NewWebSocketHandler(pipeline *agents.Pipeline) *WebSocketHandler {
	return &WebSocketHandler{
		pipeline: pipeline,
	}
}

// HandleConnection serves one client: each "analyze" message runs the full
// pipeline and the report streams back word by word, followed by a completion
// frame with the structured result.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type        string `json:"type"`
			Content     string `json:"content"`
			UserContext string `json:"user_context"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "analyze" {
			continue
		}

		logger.Info("Processing WebSocket analysis", zap.String("query", msg.Content))

		err = h.streamAnalysis(c, msg.Content, msg.UserContext)
		if err != nil {
			logger.Error("Failed to stream analysis", zap.Error(err))
			h.sendError(c, "Failed to analyze product")
		}
	}
}

func (h *WebSocketHandler) streamAnalysis(c *websocket.Conn, productQuery, userContext string) error {
	ctx := context.Background()

	h.sendChunk(c, "status", "Analyzing product...")

	outcome, err := h.pipeline.Run(ctx, productQuery, userContext)
	if err != nil {
		return err
	}

	words := splitIntoWords(outcome.FullReport)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}

		err := h.sendChunk(c, "chunk", chunk)
		if err != nil {
			return err
		}
	}

	return h.sendComplete(c, outcome)
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	msg := map[string]interface{}{
		"type":    msgType,
		"content": content,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, outcome *agents.Outcome) error {
	msg := map[string]interface{}{
		"type":        "complete",
		"analysis_id": outcome.Result.AnalysisID,
		"result":      outcome.Result,
		"agents_used": outcome.AgentsUsed,
		"latency_ms":  outcome.Result.LatencyMS,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

func splitIntoWords(text string) []string {
	words := []string{}
	currentWord := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			currentWord += string(char)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}
