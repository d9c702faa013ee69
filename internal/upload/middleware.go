package upload

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/crudapp/crudapp/pkg/logger"
	"github.com/crudapp/crudapp/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// FieldName is the multipart field the forms send the image in.
const FieldName = "image"

const pathKey = "upload.path"

// Saver persists one uploaded file and returns its server-relative path.
type Saver interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// Middleware stores at most one file from field and exposes its path to the
// next handler through PathFrom. Requests without that file pass through untouched.
func Middleware(store Saver, field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile(field)
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			c.Next()
			return
		case err != nil:
			abortUpload(c, err)
			return
		}

		rel, err := store.Save(c.Request.Context(), fh)
		if err != nil {
			abortUpload(c, err)
			return
		}
		metrics.Uploads.WithLabelValues("ok").Inc()
		c.Set(pathKey, rel)
		c.Next()
	}
}

func abortUpload(c *gin.Context, err error) {
	metrics.Uploads.WithLabelValues("error").Inc()
	logger.Errorf("upload %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatus(http.StatusInternalServerError)
	c.Writer.WriteString("Error uploading image")
}

// PathFrom returns the path stored by Middleware, or "" when nothing was uploaded.
func PathFrom(c *gin.Context) string {
	return c.GetString(pathKey)
}
