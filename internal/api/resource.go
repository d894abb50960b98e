package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/repository" // Data access

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Resource serves the create/list/get/update/delete routes of a JSON entity
type Resource[T any] struct {
	Name string // Display name, e.g. "Genre"
	Key  string // Response key for a single entity, e.g. "genre"
	Repo *repository.Repository[T]
	// Omit names columns Update never writes; they are owned by other code paths
	Omit []string
	// Prepare runs before every write; previous is nil on create
	Prepare func(c *gin.Context, previous, entity *T) error
	// Changed runs after every successful write
	Changed func(c *gin.Context, entity *T)
}

func (r *Resource[T]) op(verb string) string {
	return verb + " " + strings.ToLower(r.Name)
}

func (r *Resource[T]) prepare(c *gin.Context, previous, entity *T) error {
	if r.Prepare == nil {
		return nil
	}
	return r.Prepare(c, previous, entity)
}

func (r *Resource[T]) changed(c *gin.Context, entity *T) {
	if r.Changed != nil {
		r.Changed(c, entity)
	}
}

// Create binds a new entity from the JSON body
func (r *Resource[T]) Create(c *gin.Context) {
	var entity T
	if err := c.ShouldBindJSON(&entity); err != nil {
		respondError(c, r.op("create"), bindingError(err), r.Name)
		return
	}
	if e, ok := any(&entity).(domain.Entity); ok {
		e.ResetModel() // IDs and timestamps are server-assigned
	}
	if err := r.prepare(c, nil, &entity); err != nil {
		respondError(c, r.op("create"), err, r.Name)
		return
	}
	if err := r.Repo.Create(c.Request.Context(), &entity); err != nil {
		respondError(c, r.op("create"), err, r.Name)
		return
	}
	r.changed(c, &entity)
	fields := logrus.Fields{"resource": r.Key}
	if e, ok := any(&entity).(domain.Entity); ok {
		fields["id"] = e.PrimaryKey()
	}
	logrus.WithFields(fields).Info(r.Name + " created")
	c.JSON(http.StatusCreated, gin.H{"message": r.Name + " created successfully!", r.Key: entity})
}

// List returns every entity as a JSON array
func (r *Resource[T]) List(c *gin.Context) {
	items, err := r.Repo.List(c.Request.Context())
	if err != nil {
		respondError(c, r.op("list"), err, r.Name)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one entity
func (r *Resource[T]) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entity, err := r.Repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, r.op("get"), err, r.Name)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// Update merges the JSON body over the stored entity; absent fields keep their values
func (r *Resource[T]) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	entity, err := r.Repo.Get(ctx, id)
	if err != nil {
		respondError(c, r.op("update"), err, r.Name)
		return
	}
	previous := *entity
	if err := c.ShouldBindJSON(entity); err != nil {
		respondError(c, r.op("update"), bindingError(err), r.Name)
		return
	}
	if err := r.prepare(c, &previous, entity); err != nil {
		respondError(c, r.op("update"), err, r.Name)
		return
	}
	if err := r.Repo.Update(ctx, id, entity, r.Omit...); err != nil {
		respondError(c, r.op("update"), err, r.Name)
		return
	}
	r.changed(c, entity)
	logrus.WithFields(logrus.Fields{"resource": r.Key, "id": id}).Info(r.Name + " updated")
	c.JSON(http.StatusOK, gin.H{"message": r.Name + " updated successfully!"})
}

// Delete removes one entity
func (r *Resource[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := r.Repo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, r.op("delete"), err, r.Name)
		return
	}
	r.changed(c, nil)
	logrus.WithFields(logrus.Fields{"resource": r.Key, "id": id}).Info(r.Name + " deleted")
	c.JSON(http.StatusOK, gin.H{"message": r.Name + " deleted successfully!"})
}

// Register mounts the five routes as /add-<single>, /list-<plural>, /get-, /update-, /delete-<single>/:id
func (r *Resource[T]) Register(g gin.IRoutes, single, plural string) {
	g.POST("/add-"+single, r.Create)
	g.GET("/list-"+plural, r.List)
	g.GET("/get-"+single+"/:id", r.Get)
	g.PUT("/update-"+single+"/:id", r.Update)
	g.DELETE("/delete-"+single+"/:id", r.Delete)
}
