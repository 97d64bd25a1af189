package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"photomap/photo-api/internal/service"
	"photomap/photo-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) PhotoUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err))
		return
	}

	files := form.File["file"]
	if len(files) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	fh := files[0]

	code, f, err := validators.MediaValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	// Private unless the client explicitly asks for public
	private := true
	if v := c.PostForm("private"); v != "" {
		private, err = strconv.ParseBool(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "private must be a boolean",
				"requestID": requestID,
			})
			return
		}
	}

	var latitude, longitude *float64

	if v := c.PostForm("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "latitude is not a valid number",
				"requestID": requestID,
			})
			return
		}
		latitude = &lat
	}

	if v := c.PostForm("longitude"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "longitude is not a valid number",
				"requestID": requestID,
			})
			return
		}
		longitude = &lon
	}

	photoID, err := a.Uploader.Submit(c.Request.Context(), &service.UploadRequest{
		OwnerID:   userID,
		Filename:  fh.Filename,
		Body:      f,
		Size:      fh.Size,
		Tags:      c.PostForm("tag"),
		Private:   private,
		Latitude:  latitude,
		Longitude: longitude,
	})
	if err != nil {
		if errors.Is(err, service.ErrUploadInFlight) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "Another upload is still running",
				"requestID": requestID,
			})
			return
		}

		if errors.Is(err, service.ErrPartialCoordinate) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Latitude and longitude must be provided together",
				"requestID": requestID,
			})
			return
		}

		var stageErr *service.StageError
		if errors.As(err, &stageErr) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     stageErr.Message(),
				"stage":     string(stageErr.Stage),
				"requestID": requestID,
			})

			zap.L().Error("Upload stage failed",
				zap.String("stage", string(stageErr.Stage)),
				zap.Error(err),
			)
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Upload failed", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id": photoID,
	})
}
