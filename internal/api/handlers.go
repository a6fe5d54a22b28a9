package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/adilg123/bitarchiver/internal/compression"
	"github.com/adilg123/bitarchiver/internal/compression/baseline"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/adilg123/bitarchiver/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("bitarchiver/api")

// ArchiveRequest represents the archive, unarchive and trace request payload
type ArchiveRequest struct {
	Algorithm  string  `form:"algorithm" binding:"required"`
	WindowSize *int    `form:"window_size,omitempty"`
	Alphabet   *string `form:"alphabet,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TraceResponse carries the encoding trace of an uploaded file.
type TraceResponse struct {
	Algorithm    string   `json:"algorithm"`
	OriginalSize int      `json:"original_size"`
	ArchivedBits int      `json:"archived_bits"`
	Trace        []string `json:"trace"`
}

// Handlers serves the HTTP API with the limits and defaults of a Config.
type Handlers struct {
	cfg *config.Config
}

func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{cfg: cfg}
}

func abort(c *gin.Context, code int, title, message string) {
	c.JSON(code, ErrorResponse{
		Error:   title,
		Code:    code,
		Message: message,
	})
}

// readRequest binds the form, validates the algorithm and reads the uploaded
// file. It writes the error response itself and returns ok == false on failure.
func (h *Handlers) readRequest(c *gin.Context) (compression.Options, *multipart.FileHeader, []byte, bool) {
	var req ArchiveRequest
	if err := c.ShouldBind(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request", err.Error())
		return compression.Options{}, nil, nil, false
	}

	if !compression.IsValidAlgorithm(req.Algorithm) {
		abort(c, http.StatusBadRequest, "Invalid algorithm",
			fmt.Sprintf("Supported algorithms: %v", compression.GetSupportedAlgorithms()))
		return compression.Options{}, nil, nil, false
	}

	options := compression.Options{
		Algorithm:     req.Algorithm,
		WindowSize:    h.cfg.LZSSWindowSize,
		MaxOutputSize: h.cfg.MaxOutputSize,
	}
	if req.WindowSize != nil {
		if *req.WindowSize <= 0 {
			abort(c, http.StatusBadRequest, "Invalid window size", "window_size must be positive")
			return compression.Options{}, nil, nil, false
		}
		options.WindowSize = *req.WindowSize
	}
	if req.Alphabet != nil {
		if *req.Alphabet == "" {
			abort(c, http.StatusBadRequest, "Invalid alphabet", "alphabet must not be empty")
			return compression.Options{}, nil, nil, false
		}
		options.Alphabet = []byte(*req.Alphabet)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, "File upload error", "No file provided or file upload failed")
		return compression.Options{}, nil, nil, false
	}
	defer file.Close()

	if header.Size > h.cfg.MaxFileSize {
		abort(c, http.StatusBadRequest, "File too large",
			fmt.Sprintf("Maximum file size is %d bytes", h.cfg.MaxFileSize))
		return compression.Options{}, nil, nil, false
	}

	fileContent, err := io.ReadAll(file)
	if err != nil {
		abort(c, http.StatusInternalServerError, "File read error", "Failed to read uploaded file")
		return compression.Options{}, nil, nil, false
	}
	return options, header, fileContent, true
}

// HandleArchive archives the uploaded file and returns the container
func (h *Handlers) HandleArchive(c *gin.Context) {
	options, header, fileContent, ok := h.readRequest(c)
	if !ok {
		return
	}

	compressedData, stats, err := compression.Compress(fileContent, options)
	if err != nil {
		log.Warningf("archive %s with %s: %v", header.Filename, options.Algorithm, err)
		abort(c, http.StatusUnprocessableEntity, "Compression failed", err.Error())
		return
	}

	if sizes, err := baseline.Measure(fileContent); err == nil {
		c.Header("X-Baseline-Zstd", strconv.Itoa(sizes.Zstd))
		c.Header("X-Baseline-Deflate", strconv.Itoa(sizes.Deflate))
	}

	filename := fmt.Sprintf("%s.%s", getBaseFilename(header.Filename), compression.Extension(options.Algorithm))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("X-Original-Size", strconv.Itoa(stats.OriginalSize))
	c.Header("X-Archived-Bits", strconv.Itoa(stats.ArchivedBits))
	c.Header("X-Compression-Ratio", strconv.FormatFloat(stats.CompressionRatio, 'f', 2, 64))
	c.Data(http.StatusOK, "application/octet-stream", compressedData)
}

// HandleUnarchive decodes an uploaded container
func (h *Handlers) HandleUnarchive(c *gin.Context) {
	options, header, fileContent, ok := h.readRequest(c)
	if !ok {
		return
	}

	decompressedData, stats, err := compression.Decompress(fileContent, options)
	if err != nil {
		log.Warningf("unarchive %s with %s: %v", header.Filename, options.Algorithm, err)
		abort(c, http.StatusUnprocessableEntity, "Decompression failed", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", getBaseFilename(header.Filename)))
	c.Header("X-Archived-Bits", strconv.Itoa(stats.ArchivedBits))
	c.Data(http.StatusOK, "application/octet-stream", decompressedData)
}

// HandleTrace archives the uploaded file and returns the step-by-step trace
// instead of the archive.
func (h *Handlers) HandleTrace(c *gin.Context) {
	options, _, fileContent, ok := h.readRequest(c)
	if !ok {
		return
	}

	rec := &report.Recorder{}
	options.Reporter = rec
	_, nBits, err := compression.Archive(fileContent, options)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, "Compression failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, TraceResponse{
		Algorithm:    options.Algorithm,
		OriginalSize: len(fileContent),
		ArchivedBits: nBits,
		Trace:        rec.Lines,
	})
}

// HandleInfo provides information about supported algorithms
func (h *Handlers) HandleInfo(c *gin.Context) {
	descriptions := map[string]string{}
	for _, name := range compression.GetSupportedAlgorithms() {
		descriptions[name], _ = compression.Describe(name)
	}

	info := map[string]interface{}{
		"service": "bitarchiver",
		"version": "1.0.0",
		"algorithms": map[string]interface{}{
			"supported":    compression.GetSupportedAlgorithms(),
			"descriptions": descriptions,
		},
		"defaults": map[string]interface{}{
			"window_size": h.cfg.LZSSWindowSize,
			"alphabet":    string(compression.DefaultAlphabet),
		},
		"limits": map[string]interface{}{
			"max_file_size": fmt.Sprintf("%d bytes (%.1f MB)", h.cfg.MaxFileSize, float64(h.cfg.MaxFileSize)/(1024*1024)),
		},
		"endpoints": map[string]interface{}{
			"archive":   "POST /api/v1/archive - Upload file for archiving",
			"unarchive": "POST /api/v1/unarchive - Upload archive for decoding",
			"trace":     "POST /api/v1/trace - Upload file and get the encoding trace",
			"info":      "GET /api/v1/info - Get service information",
			"health":    "GET /health - Health check",
		},
	}

	c.JSON(http.StatusOK, info)
}

// HandleHealth provides a simple health check endpoint
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bitarchiver",
	})
}

// Helper functions
func getBaseFilename(filename string) string {
	if filename == "" {
		return "file"
	}

	// Remove extension
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[:i]
		}
	}
	return filename
}
