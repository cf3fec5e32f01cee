package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scanline-labs/receipt-scanner/constants"
	"github.com/scanline-labs/receipt-scanner/internal/entity"
	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

const defaultUserID = "anonymous"

// uploadReceipt accepts a multipart image upload, runs the full pipeline,
// and returns the stored record.
func (s *Server) uploadReceipt(c *gin.Context) {
	fh, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	userID := c.PostForm("userId")
	if userID == "" {
		userID = defaultUserID
	}

	rec, err := s.processor.ProcessImage(c.Request.Context(), image, userID)
	if err != nil {
		if errors.Is(err, layout.ErrNoText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract receipt data"})
			return
		}
		s.logger.Error("upload failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process receipt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"receiptId": rec.ID.String(),
		"data":      rec.ParsedReceipt,
	})
}

// parseAnnotations runs the extraction engine on a saved Vision JSON
// response without storing anything.
func (s *Server) parseAnnotations(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	res, err := ocr.ResultFromJSON(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := s.extractor.Extract(res)
	if err != nil {
		if errors.Is(err, layout.ErrNoText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract receipt data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse annotations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": parsed})
}

func (s *Server) listReceipts(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = defaultUserID
	}

	recs, err := s.receipts.ListByUser(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("list receipts failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch receipts"})
		return
	}
	if recs == nil {
		recs = []*entity.Receipt{}
	}
	c.JSON(http.StatusOK, gin.H{"receipts": recs})
}

func (s *Server) getReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt id"})
		return
	}

	rec, err := s.receipts.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
			return
		}
		s.logger.Error("get receipt failed", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch receipt"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) exportReceipts(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = defaultUserID
	}

	b, err := s.exporter.ExportReceiptsXLSX(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("export failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export receipts"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}
