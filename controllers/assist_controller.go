package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/models"
	"github.com/nexora-app/nexora_backend/utils"
)

// AssistController serves content helpers: caption suggestions and hashtag
// suggestions. Both are deterministic rule-based transforms, so responses
// are stable for a given input.
type AssistController struct{}

// NewAssistController creates a new assist controller
func NewAssistController() *AssistController {
	return &AssistController{}
}

type captionRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type hashtagRequest struct {
	Text  string `json:"text" validate:"required"`
	Limit int    `json:"limit,omitempty"`
}

// SuggestCaption handles POST /api/assist/caption
func (ac *AssistController) SuggestCaption(c echo.Context) error {
	var req captionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Topic is required",
		})
	}

	caption := utils.SuggestCaption(utils.SanitizeInput(req.Topic))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Caption suggested successfully",
		Data:    map[string]string{"caption": caption},
	})
}

// SuggestHashtags handles POST /api/assist/hashtags
func (ac *AssistController) SuggestHashtags(c echo.Context) error {
	var req hashtagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Text is required",
		})
	}

	hashtags := utils.SuggestHashtags(req.Text, req.Limit)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hashtags suggested successfully",
		Data:    map[string]interface{}{"hashtags": hashtags},
	})
}
