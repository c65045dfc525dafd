package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/jslattery/product-agent/internal/chat"
	"github.com/jslattery/product-agent/internal/safety"
	"github.com/jslattery/product-agent/internal/telemetry"
	"github.com/jslattery/product-agent/internal/verify"
	"github.com/jslattery/product-agent/tools"
)

type sessionRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

// sessionID resolves the session: body field, then X-Session-Id header, then
// the shared default.
func sessionID(c *gin.Context, body sessionRequest) string {
	id := strings.TrimSpace(body.SessionID)
	if id == "" {
		id = strings.TrimSpace(c.GetHeader("X-Session-Id"))
	}
	if id == "" {
		id = "default"
	}
	return id
}

// answerPayload is the envelope serialised into the "answer" field of every
// chat response.
type answerPayload struct {
	FinalAnswer string         `json:"final_answer"`
	Confidence  string         `json:"confidence"`
	Grounding   grounding      `json:"grounding"`
	Safety      safetyInfo     `json:"safety"`
	Reasoning   string         `json:"reasoning"`
	Decision    decision       `json:"decision"`
	ToolCall    toolCallReport `json:"tool_call"`
	Evidence    []string       `json:"evidence"`
}

type grounding struct {
	Grounded      bool `json:"grounded"`
	Hallucination bool `json:"hallucination"`
}

type safetyInfo struct {
	Malicious bool   `json:"malicious"`
	Reason    string `json:"reason,omitempty"`
}

type decision struct {
	Tool        string  `json:"tool"`
	Designation *string `json:"designation"`
	Field       *string `json:"field"`
}

type toolCallReport struct {
	Name  []string `json:"name"`
	Found bool     `json:"found"`
}

func respondAnswer(c *gin.Context, payload answerPayload) {
	if payload.Evidence == nil {
		payload.Evidence = []string{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "answer": string(raw)})
}

func (s *Server) handleChat(c *gin.Context) {
	var body sessionRequest
	_ = c.ShouldBindJSON(&body)

	text := strings.TrimSpace(body.Text)
	id := sessionID(c, body)

	if verdict := s.Classifier.Check(text); verdict.Malicious {
		telemetry.Emit("guardrail_block", map[string]any{"session": id, "reason": verdict.Reason})
		respondAnswer(c, answerPayload{
			FinalAnswer: safety.RefusalMessage,
			Confidence:  "High",
			Grounding:   grounding{Grounded: false, Hallucination: false},
			Safety:      safetyInfo{Malicious: true, Reason: verdict.Reason},
			Reasoning:   "Blocked request: " + verdict.Reason,
			Decision:    decision{Tool: "safety_filter"},
			ToolCall:    toolCallReport{Name: []string{"safety_filter"}, Found: false},
		})
		return
	}

	release := s.Store.Acquire(id)
	defer release()

	history, _ := s.Store.Get(id)
	history = append(history, chat.User(text))

	ctx := telemetry.WithTurnID(c.Request.Context(), uuid.NewString())
	out, err := s.Runner.Run(ctx, history)
	if err != nil {
		log.Printf("chat session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "agent backend unavailable"})
		return
	}
	s.Store.Put(id, out)

	content := out[len(out)-1].Content
	meta := verify.Extract(content, out)
	filtered := safety.FilterOutput(content, text)

	reasoning := "Used tools: none"
	firstTool := "no_tool"
	if len(meta.ToolsUsed) > 0 {
		reasoning = "Used tools: " + strings.Join(meta.ToolsUsed, ", ")
		firstTool = meta.ToolsUsed[0]
	}

	respondAnswer(c, answerPayload{
		FinalAnswer: filtered.Filtered,
		Confidence:  meta.Confidence,
		Grounding:   grounding{Grounded: meta.Grounded, Hallucination: meta.Hallucination},
		Safety:      safetyInfo{Malicious: false},
		Reasoning:   reasoning,
		Decision:    decision{Tool: firstTool},
		ToolCall:    toolCallReport{Name: meta.ToolsUsed, Found: meta.Grounded},
		Evidence:    meta.EvidenceIDs,
	})
}

func (s *Server) handleClearSession(c *gin.Context) {
	var body sessionRequest
	_ = c.ShouldBindJSON(&body)
	id := sessionID(c, body)

	if s.Store.Delete(id) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": fmt.Sprintf("Session %s cleared", id)})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Session not found"})
}

// handleDebugKV returns raw flattened KV output, bypassing the model.
func (s *Server) handleDebugKV(c *gin.Context) {
	var body struct {
		Designation string `json:"designation"`
	}
	_ = c.ShouldBindJSON(&body)

	args := "{}"
	if d := strings.TrimSpace(body.Designation); d != "" {
		raw, _ := json.Marshal(map[string]string{"designation": d})
		args = string(raw)
	}

	result, err := tools.Execute(c.Request.Context(), s.Tools, "get_product_kv_pairs_tool", json.RawMessage(args))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "kv tool unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(result))
}

func (s *Server) handleUpload(c *gin.Context) {
	var body struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid JSON body"})
		return
	}

	filename := strings.TrimSpace(body.Filename)
	content := strings.TrimSpace(body.Content)

	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing filename"})
		return
	}
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing content"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Only .json files allowed"})
		return
	}
	if !gjson.Valid(content) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid JSON content"})
		return
	}

	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to save file"})
		return
	}

	// Basename only, so uploads cannot traverse outside the data directory.
	safeName := filepath.Base(filename)
	path := filepath.Join(s.DataDir, safeName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"message":  "File uploaded successfully",
		"saved_to": path,
		"bytes":    len(content),
		"filename": safeName,
	})
}
