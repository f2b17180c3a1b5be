package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"newsdesk/internal/domain"
	"newsdesk/internal/draft"
	"newsdesk/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	entries   service.EntryService
	users     service.UserService
	drafts    draft.Generator
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logrus.Logger
}

func NewHandler(entries service.EntryService, users service.UserService, drafts draft.Generator, jwtSecret string, tokenTTL time.Duration, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Handler{
		entries:   entries,
		users:     users,
		drafts:    drafts,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	router.POST("/login", h.login)
	router.POST("/entries/list", h.listEntries)
	router.POST("/entries/upload", h.uploadEntries)
	router.POST("/draft", h.generateDraft)
	router.GET("/me", h.authRequired(), h.me)
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusAccepted, gin.H{"ok": "ok"})
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": false})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.mintToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": true,
		"user_id": user.ID,
		"token":   token,
	})
}

type listEntriesRequest struct {
	// UserID is the uploader name whose entries should be listed. The admin
	// account sees the full archive.
	UserID string `json:"user_id"`
}

func (h *Handler) listEntries(c *gin.Context) {
	var req listEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entries, err := h.entries.ListForUser(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]EntryResponse, len(entries))
	for i := range entries {
		resp[i] = entryToResponse(entries[i])
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// uploadEntryPayload is one element of the multipart "entries" JSON array.
type uploadEntryPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	PageNo     int    `json:"page_no"`
	HasImage   bool   `json:"has_image"`
	ImageIndex *int   `json:"image_index"`
}

// legacyUploadRequest is the single-entry JSON shape kept for older clients.
// The image travels inline as a base64 data URI instead of an attachment.
type legacyUploadRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	UploadedBy  string `json:"uploaded_by"`
	PageNo      int    `json:"page_no"`
	ImageBase64 string `json:"imageBase64"`
}

func (h *Handler) uploadEntries(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		h.uploadMultipart(c)
		return
	}
	h.uploadLegacyJSON(c)
}

func (h *Handler) uploadMultipart(c *gin.Context) {
	uploadedBy := c.PostForm("uploaded_by")
	if uploadedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: uploaded_by"})
		return
	}

	entriesJSON := c.PostForm("entries")
	if entriesJSON == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing entries data"})
		return
	}

	var payloads []uploadEntryPayload
	if err := json.Unmarshal([]byte(entriesJSON), &payloads); err != nil || len(payloads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid entries data format"})
		return
	}

	entries := make([]service.UploadEntry, len(payloads))
	for i, payload := range payloads {
		entries[i] = service.UploadEntry{
			Title:   payload.Title,
			Content: payload.Content,
			PageNo:  payload.PageNo,
		}
		if payload.HasImage && payload.ImageIndex != nil {
			image, err := h.readAttachment(c, fmt.Sprintf("image_%d", *payload.ImageIndex))
			if err != nil {
				// A declared but missing attachment is tolerated; the entry
				// is stored without an image.
				h.logger.Warnf("read attachment for entry %d: %v", i+1, err)
				continue
			}
			entries[i].Image = image
		}
	}

	receipts, err := h.entries.Upload(c.Request.Context(), uploadedBy, entries)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	results := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		results[i] = receiptToResponse(receipts[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully saved %d entries!", len(results)),
		"results": results,
	})
}

func (h *Handler) uploadLegacyJSON(c *gin.Context) {
	var req legacyUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	if req.Title == "" || req.UploadedBy == "" || req.PageNo == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	entry := service.UploadEntry{
		Title:   req.Title,
		Content: req.Content,
		PageNo:  req.PageNo,
	}
	if strings.HasPrefix(req.ImageBase64, "data:image") {
		image, err := decodeDataURI(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid image data"})
			return
		}
		entry.Image = image
	}

	receipts, err := h.entries.Upload(c.Request.Context(), req.UploadedBy, []service.UploadEntry{entry})
	if err != nil {
		h.uploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Document saved successfully!",
		"id":      receipts[0].ID,
	})
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": verr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fmt.Sprintf("Error saving to database: %v", err)})
}

func (h *Handler) readAttachment(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type draftRequest struct {
	Prompt *draft.Prompt `json:"prompt"`
}

func (h *Handler) generateDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == nil || req.Prompt.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	if h.drafts == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate content",
			"details": "draft generator is not configured",
		})
		return
	}

	sections, err := h.drafts.Generate(c.Request.Context(), *req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate content",
			"details": err.Error(),
		})
		return
	}

	pageNo := req.Prompt.PageNumber
	if pageNo <= 0 {
		pageNo = 1
	}
	drafts := draft.Expand(req.Prompt.Title, pageNo, sections)

	resp := make([]DraftResponse, len(drafts))
	for i := range drafts {
		resp[i] = DraftResponse{
			Title:   drafts[i].Title,
			Content: drafts[i].Content,
			PageNo:  drafts[i].PageNo,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"content": gin.H{"sections": sections},
		"drafts":  resp,
	})
}

func (h *Handler) me(c *gin.Context) {
	userID := c.GetInt64(contextUserIDKey)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "user_name": user.UserName})
}

type EntryResponse struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Image      *string `json:"image,omitempty"`
	UploadedBy string  `json:"uploaded_by"`
	PageNo     int     `json:"page_no"`
}

type ReceiptResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	PageNo int    `json:"page_no"`
}

type DraftResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	PageNo  int    `json:"page_no"`
}

// entryToResponse projects a stored entry to its wire form. The image BLOB
// becomes a base64 data URI here and only here; nothing is written back.
func entryToResponse(entry domain.Entry) EntryResponse {
	resp := EntryResponse{
		ID:         entry.ID,
		Date:       entry.Date.Format("2006-01-02"),
		Title:      entry.Title,
		Content:    entry.Content,
		UploadedBy: entry.UploadedBy,
		PageNo:     entry.PageNo,
	}
	if entry.HasImage() {
		uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(entry.Image)
		resp.Image = &uri
	}
	return resp
}

func receiptToResponse(receipt domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:     receipt.ID,
		Title:  receipt.Title,
		PageNo: receipt.PageNo,
	}
}

// decodeDataURI strips the "data:<media>;base64," header and decodes the payload.
func decodeDataURI(uri string) ([]byte, error) {
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil, fmt.Errorf("missing data URI separator")
	}
	return base64.StdEncoding.DecodeString(payload)
}
