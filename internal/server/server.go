// Package server exposes the receipt scanner over HTTP/JSON: image upload,
// raw-annotation parsing, receipt retrieval, and XLSX export.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scanline-labs/receipt-scanner/internal/export"
	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/pipeline"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

// Server wires the HTTP routes to the pipeline and repositories.
type Server struct {
	logger    *slog.Logger
	processor *pipeline.Processor
	extractor *layout.Extractor
	receipts  repository.ReceiptRepository
	exporter  *export.Service
	router    *gin.Engine
}

func New(
	logger *slog.Logger,
	processor *pipeline.Processor,
	extractor *layout.Extractor,
	receipts repository.ReceiptRepository,
	exporter *export.Service,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger,
		processor: processor,
		extractor: extractor,
		receipts:  receipts,
		exporter:  exporter,
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.health)
	s.router.POST("/upload-receipt", s.uploadReceipt)
	s.router.POST("/parse", s.parseAnnotations)
	s.router.GET("/receipts", s.listReceipts)
	s.router.GET("/receipts/export", s.exportReceipts)
	s.router.GET("/receipts/:id", s.getReceipt)
}

// Handler returns the router as an http.Handler for serving and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
