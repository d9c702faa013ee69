package handler

import (
	"errors"
	"net/http"

	"github.com/crudapp/crudapp/internal/item"
	"github.com/crudapp/crudapp/internal/item/service"
	"github.com/crudapp/crudapp/internal/upload"
	"github.com/crudapp/crudapp/internal/view"
	"github.com/crudapp/crudapp/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RegisterItemRoutes mounts the HTML pages and form endpoints. uploads runs
// before the two write handlers and may be nil when images are not accepted.
// The engine must render HTML through *view.Templates.
func RegisterItemRoutes(r gin.IRoutes, svc service.Service, uploads gin.HandlerFunc) {
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if uploads == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{uploads, h}
	}

	r.GET("/", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			c.String(http.StatusInternalServerError, "Error retrieving items")
			return
		}
		c.HTML(http.StatusOK, view.Index, view.Page{Title: "Items", Items: list})
	})

	r.GET("/add", func(c *gin.Context) {
		c.HTML(http.StatusOK, view.Add, view.Page{Title: "Add item"})
	})

	r.POST("/add", write(func(c *gin.Context) {
		var form item.Form
		if err := c.ShouldBind(&form); err != nil {
			logger.Errorf("bind add form: %v", err)
			c.String(http.StatusInternalServerError, "Error saving item")
			return
		}
		if _, err := svc.Create(c.Request.Context(), form.CreateInput(upload.PathFrom(c))); err != nil {
			c.String(http.StatusInternalServerError, "Error saving item")
			return
		}
		c.Redirect(http.StatusFound, "/")
	})...)

	r.GET("/edit/:id", func(c *gin.Context) {
		it, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err, "Error fetching item")
			return
		}
		c.HTML(http.StatusOK, view.Edit, view.Page{Title: "Edit item", Item: it})
	})

	r.POST("/edit/:id", write(func(c *gin.Context) {
		var form item.Form
		if err := c.ShouldBind(&form); err != nil {
			logger.Errorf("bind edit form: %v", err)
			c.String(http.StatusInternalServerError, "Error updating item")
			return
		}
		if _, err := svc.Update(c.Request.Context(), c.Param("id"), form.UpdateInput(upload.PathFrom(c))); err != nil {
			fail(c, err, "Error updating item")
			return
		}
		c.Redirect(http.StatusFound, "/")
	})...)

	r.GET("/delete/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err, "Error deleting item")
			return
		}
		c.Redirect(http.StatusFound, "/")
	})
}

func fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, service.ErrNotFound) {
		c.String(http.StatusNotFound, "Item not found")
		return
	}
	c.String(http.StatusInternalServerError, msg)
}
