package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"growup-backend/database"
)

// resourceRoutes serves the create/get/update/delete/bulk routes every
// resource shares. name is the singular label used in messages, idsKey the
// body key of bulk deletes.
type resourceRoutes[T any] struct {
	name   string
	idsKey string
	logger *zap.Logger

	create     func(context.Context, *T) (*T, error)
	createMany func(context.Context, []T) (database.InsertManyResult, error)
	get        func(context.Context, string) (*T, error)
	update     func(context.Context, string, bson.M) (*T, error)
	remove     func(context.Context, string) (*T, error)
	removeMany func(context.Context, []string) (int64, error)
	count      func(context.Context, database.Filter) (int64, error)
}

func (r resourceRoutes[T]) Create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	created, err := r.create(c.Request.Context(), &doc)
	if err != nil {
		renderError(c, r.logger, err, fmt.Sprintf("An unexpected error occurred while creating the %s.", r.name))
		return
	}
	success(c, http.StatusCreated, r.name+" created successfully", created)
}

func (r resourceRoutes[T]) CreateMany(c *gin.Context) {
	var docs []T
	if err := c.ShouldBindJSON(&docs); err != nil || len(docs) == 0 {
		badRequest(c, fmt.Sprintf("Request body must be a non-empty array of %s objects.", r.name))
		return
	}
	res, err := r.createMany(c.Request.Context(), docs)
	if err != nil {
		renderError(c, r.logger, err, fmt.Sprintf("Error creating %s records", r.name))
		return
	}
	success(c, http.StatusCreated, fmt.Sprintf("Created %d of %d", res.Inserted, len(docs)), gin.H{
		"inserted":   res.Inserted,
		"duplicates": res.Duplicates,
		"requested":  len(docs),
	})
}

// Get answers a missing record with an empty success.
func (r resourceRoutes[T]) Get(c *gin.Context) {
	doc, err := r.get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, r.logger, err, "Error fetching "+r.name)
		return
	}
	if doc == nil {
		success(c, http.StatusOK, r.name+" not found", []interface{}{})
		return
	}
	success(c, http.StatusOK, r.name+" retrieved successfully", doc)
}

// Update sets only the fields present in the body.
func (r resourceRoutes[T]) Update(c *gin.Context) {
	set, ok := bindPartial[T](c)
	if !ok {
		return
	}
	doc, err := r.update(c.Request.Context(), c.Param("id"), set)
	if err != nil {
		renderError(c, r.logger, err, "Error updating "+r.name)
		return
	}
	if doc == nil {
		success(c, http.StatusOK, r.name+" not found for update", []interface{}{})
		return
	}
	success(c, http.StatusOK, r.name+" updated successfully", doc)
}

func (r resourceRoutes[T]) Delete(c *gin.Context) {
	doc, err := r.remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, r.logger, err, "Error deleting "+r.name)
		return
	}
	if doc == nil {
		success(c, http.StatusOK, r.name+" not found for deletion", []interface{}{})
		return
	}
	success(c, http.StatusOK, r.name+" deleted successfully", doc)
}

func (r resourceRoutes[T]) DeleteMany(c *gin.Context) {
	var body map[string][]string
	if err := c.ShouldBindJSON(&body); err != nil || len(body[r.idsKey]) == 0 {
		badRequest(c, fmt.Sprintf("%s must be a non-empty array of ids.", r.idsKey))
		return
	}
	n, err := r.removeMany(c.Request.Context(), body[r.idsKey])
	if err != nil {
		renderError(c, r.logger, err, fmt.Sprintf("Error deleting %s records", r.name))
		return
	}
	success(c, http.StatusOK, fmt.Sprintf("%d %s records deleted successfully", n, r.name), gin.H{"deletedCount": n})
}

// Count answers with the number of records matching filter.
func (r resourceRoutes[T]) Count(filter database.Filter) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := r.count(c.Request.Context(), filter)
		if err != nil {
			renderError(c, r.logger, err, fmt.Sprintf("Error fetching %s count", r.name))
			return
		}
		success(c, http.StatusOK, r.name+" count retrieved successfully", gin.H{"count": n})
	}
}

// bindPartial reads the body as a partial update of T. It writes the error
// response itself and reports whether the caller should continue.
func bindPartial[T any](c *gin.Context) (bson.M, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		badRequest(c, "Request body cannot be empty.")
		return nil, false
	}
	set, err := database.PartialSet[T](body)
	if err != nil {
		badRequest(c, "Invalid request body.")
		return nil, false
	}
	return set, true
}
