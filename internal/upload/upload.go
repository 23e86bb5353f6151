// Package upload accepts 3D model files over HTTP and stores them on disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// FormField is the multipart field carrying the model file.
const FormField = "modelFile"

// PublicPrefix is the URL prefix uploaded files are served under.
const PublicPrefix = "/uploads"

const modelsDir = "models"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

var allowedExt = map[string]bool{
	".glb":  true,
	".gltf": true,
}

// Response is the JSON body of every upload reply.
type Response struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Handler writes uploaded models under Dir/models.
type Handler struct {
	dir string
	log *zap.Logger

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewHandler returns a handler storing files under dir.
func NewHandler(dir string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		dir:     dir,
		log:     log,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RegisterRoutes mounts the upload endpoint and the static file tree.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/upload-model", h.UploadModel)
	e.Static(PublicPrefix, h.dir)
}

// SanitizeName replaces every character outside [a-zA-Z0-9_.-] with '_'.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(filepath.Base(name), "_")
}

// AllowedModel reports whether name has a .glb or .gltf extension.
func AllowedModel(name string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}

func (h *Handler) newID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), h.entropy).String()
}

// UploadModel handles POST /api/upload-model.
func (h *Handler) UploadModel(c echo.Context) error {
	fh, err := c.FormFile(FormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return fail(c, http.StatusBadRequest, "No file uploaded")
		}
		return fail(c, http.StatusBadRequest, "Invalid upload")
	}
	if !AllowedModel(fh.Filename) {
		return fail(c, http.StatusBadRequest, "Only .glb and .gltf files are allowed")
	}

	name := h.newID() + "-" + SanitizeName(fh.Filename)
	if err := h.save(fh, name); err != nil {
		h.log.Error("save uploaded model", zap.String("file", name), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Error uploading file")
	}

	h.log.Info("model uploaded", zap.String("file", name), zap.Int64("size", fh.Size))
	return c.JSON(http.StatusOK, Response{
		Success:  true,
		FilePath: path.Join(PublicPrefix, modelsDir, name),
	})
}

func (h *Handler) save(fh *multipart.FileHeader, name string) error {
	dir := filepath.Join(h.dir, modelsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return writeFile(filepath.Join(dir, name), src)
}

// writeFile copies src to dest. A partial file is removed on failure.
func writeFile(dest string, src io.Reader) error {
	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dest)
		return fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Success: false, Message: msg})
}
