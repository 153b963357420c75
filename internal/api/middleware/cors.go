package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS builds the cross-origin policy for the read-only API. An empty
// origin list allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})

	return func(gc *gin.Context) {
		c.HandlerFunc(gc.Writer, gc.Request)

		// Terminate preflight here; gin has no route for OPTIONS.
		if gc.Request.Method == http.MethodOptions &&
			gc.GetHeader("Access-Control-Request-Method") != "" {
			gc.AbortWithStatus(http.StatusNoContent)
			return
		}
		gc.Next()
	}
}
