package api

import (
	"net/http" // HTTP status codes

	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Cache and media store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ProfileResponse flattens a user and its profile
type ProfileResponse struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	CoverImage   string `json:"cover_image"`
	MobileNumber string `json:"mobile_number"`
}

// GetProfileHandler returns the public profile of a user
func GetProfileHandler(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "user_id")
		if !ok {
			return
		}
		user, err := users.WithProfile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, "get profile", err, "User")
			return
		}
		if user.Profile == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Profile not found!"})
			return
		}
		c.JSON(http.StatusOK, ProfileResponse{
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Email:        user.Email,
			Address:      user.Profile.Address,
			CoverImage:   user.Profile.CoverImage,
			MobileNumber: user.Profile.MobileNumber,
		})
	}
}

// UpdateProfileHandler applies the submitted fields to a user's profile, creating it on first use
func UpdateProfileHandler(repos *repository.Repositories, media *utils.MediaStore, cache *utils.Cache, maxMemory int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "user_id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		user, err := repos.Users.Get(ctx, userID)
		if err != nil {
			respondError(c, "update profile", err, "User")
			return
		}
		fields, err := formValues(c, maxMemory)
		if err != nil {
			respondError(c, "update profile", err, "Profile")
			return
		}
		profile, _, err := repos.Profiles.ForUser(ctx, user.ID)
		if err != nil {
			respondError(c, "update profile", err, "Profile")
			return
		}

		// Names live on the user row
		userColumns := map[string]any{}
		if v, ok := fields["first_name"]; ok {
			userColumns["first_name"] = v
		}
		if v, ok := fields["last_name"]; ok {
			userColumns["last_name"] = v
		}
		if v, ok := fields["address"]; ok {
			profile.Address = v
		}
		if v, ok := fields["mobile_number"]; ok {
			profile.MobileNumber = v
		}
		if v, ok := fields["cover_image"]; ok {
			profile.CoverImage = v
		}
		path, err := media.Save(c, utils.UploadedFile(c, "cover_image"))
		if err != nil {
			respondError(c, "update profile cover", err, "Profile")
			return
		}
		if path != "" {
			profile.CoverImage = path
		}

		if len(userColumns) > 0 {
			if err := repos.Users.UpdateColumns(ctx, user.ID, userColumns); err != nil {
				respondError(c, "update profile user", err, "User")
				return
			}
		}
		if err := repos.Profiles.Save(ctx, profile); err != nil {
			respondError(c, "update profile save", err, "Profile")
			return
		}
		cache.DeletePrefix(ctx, adminUsersCachePrefix) // Admin user pages embed names and profiles
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "profile_id": profile.ID}).Info("Profile updated")
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!"})
	}
}
