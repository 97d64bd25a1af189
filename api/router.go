// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"photomap/photo-api/aws"
	"photomap/photo-api/db"
	"photomap/photo-api/internal/service"
	"photomap/photo-api/middleware"
	"photomap/photo-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	S3     *aws.S3Client

	Refresh    *service.RefreshBus
	Uploader   *service.Uploader
	Gallery    *service.Gallery
	GeoMap     *service.GeoMap
	Visibility *service.Visibility
	Deleter    *service.Deleter
}

func NewRouter() (*API, error) {
	a := &API{
		Argon:   security.New(),
		Refresh: service.NewRefreshBus(),
	}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	s3, err := aws.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.S3 = s3

	a.Uploader = service.NewUploader(db, s3, a.Refresh, viper.GetDuration("upload.timeout"))
	a.Gallery = service.NewGallery(db, s3)
	a.GeoMap = service.NewGeoMap(db, s3)
	a.Visibility = service.NewVisibility(db, a.Refresh)
	a.Deleter = service.NewDeleter(db, s3, a.Refresh)

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(db)
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)

		// GET /api/changes		-> Current data version, read views refetch when it moves
		main.GET("/changes", a.Changes)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the current session
		users.GET("", jwt, a.UserFetch)

		// POST /api/users 		-> Registers a new user
		users.POST("", a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and returns a JWT token
		users.POST("/login", a.UserLogin)

		// POST /api/users/logout 	-> Clears the session cookie
		users.POST("/logout", a.UserLogout)
	}

	photos := main.Group("/photos")
	{
		// GET /api/photos 		-> The caller's own gallery
		photos.GET("", jwt, a.PhotoFetchBulk)

		// GET /api/photos/public 	-> Everyone's public photos
		photos.GET("/public", cacheFor(15), a.PhotoFetchPublic)

		// GET /api/photos/map 		-> The caller's geotagged photos
		photos.GET("/map", jwt, a.PhotoFetchMap)

		// POST /api/photos         	-> Uploads a new photo or video
		photos.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize), a.PhotoUpload)

		// PATCH /api/photos/:id/visibility -> Flips the private flag
		photos.PATCH("/:id/visibility", jwt, a.PhotoToggleVisibility)

		// DELETE /api/photos/:id	-> Deletes a photo owned by a user
		photos.DELETE("/:id", jwt, a.PhotoDelete)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
