package controllers

import (
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/models"
	"github.com/nexora-app/nexora_backend/utils"
)

// UploadController handles multipart media uploads. Files are stored under
// uploads/ with generated names; images get a resized thumbnail and videos a
// poster frame.
type UploadController struct {
	logger *log.Logger
}

// NewUploadController creates a new upload controller
func NewUploadController() *UploadController {
	return &UploadController{
		logger: log.New(os.Stdout, "[UPLOAD] ", log.LstdFlags),
	}
}

type uploadedFile struct {
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	MediaType    string `json:"mediaType"`
	Size         int64  `json:"size"`
}

// UploadMedia handles POST /api/upload. Accepts up to five image or video
// files in the "files" multipart field, each at most 10MB.
func (uc *UploadController) UploadMedia(c echo.Context) error {
	if _, err := utils.GetUserIDFromToken(c); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid multipart form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No files provided",
		})
	}
	if len(files) > utils.MaxFilesPerUpload {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Too many files. Maximum is 5 per upload",
		})
	}

	uploaded := []uploadedFile{}
	for _, fileHeader := range files {
		if fileHeader.Size > utils.MaxFileSize {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "File too large: " + fileHeader.Filename,
			})
		}

		contentType := fileHeader.Header.Get("Content-Type")
		mediaType, err := utils.MediaTypeFromContentType(contentType)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}

		src, err := fileHeader.Open()
		if err != nil {
			uc.logger.Printf("Error opening upload %s: %v", fileHeader.Filename, err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to read uploaded file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to read uploaded file",
			})
		}

		storedName := utils.GenerateStoredFilename(fileHeader.Filename)
		url, err := utils.UploadFileToPath(data, storedName, mediaType, "posts")
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}

		entry := uploadedFile{
			OriginalName: fileHeader.Filename,
			URL:          url,
			MediaType:    mediaType,
			Size:         fileHeader.Size,
		}

		switch mediaType {
		case "image":
			if !strings.HasSuffix(strings.ToLower(storedName), ".gif") {
				if thumbURL, err := utils.GenerateImageThumbnail(url); err == nil {
					entry.ThumbnailURL = thumbURL
				} else {
					uc.logger.Printf("Failed to generate image thumbnail for %s: %v", storedName, err)
				}
			}
		case "video":
			if posterURL, err := utils.GenerateVideoThumbnail(url); err == nil {
				entry.ThumbnailURL = posterURL
			} else {
				uc.logger.Printf("Failed to generate video poster for %s: %v", storedName, err)
			}
		}

		uploaded = append(uploaded, entry)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Files uploaded successfully",
		Data:    map[string]interface{}{"files": uploaded},
	})
}
