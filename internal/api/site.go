package api

import (
	"context"  // Ping deadline
	"net/http" // HTTP status codes
	"time"     // Ping timeout

	"library_system/internal/utils" // Media store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

const uploadForm = `<!doctype html>
<title>Upload new File</title>
<h1>Upload new File</h1>
<form method="post" enctype="multipart/form-data">
  <input type="file" name="file">
  <input type="submit" value="Upload">
</form>
`

// HealthHandler reports whether the database answers
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logrus.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}

// UploadFormHandler serves a plain HTML upload form
func UploadFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadForm))
	}
}

// UploadHandler stores the "file" field in the media folder
func UploadHandler(media *utils.MediaStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		file := utils.UploadedFile(c, "file")
		if file == nil || file.Filename == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No selected file"})
			return
		}
		path, err := media.Save(c, file)
		if err != nil {
			respondError(c, "upload file", err, "File")
			return
		}
		logrus.WithFields(logrus.Fields{"path": path, "size": file.Size}).Info("File uploaded")
		c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "path": path})
	}
}
