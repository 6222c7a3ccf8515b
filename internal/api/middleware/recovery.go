package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/AIBlockOfficial/valence-market/internal/api/logger"
	"github.com/AIBlockOfficial/valence-market/internal/api/models"
)

// Recovery middleware recovers from panics and returns a 500 error
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered", map[string]interface{}{
					"error":      fmt.Sprintf("%v", err),
					"method":     r.Method,
					"path":       r.URL.Path,
					"stacktrace": string(debug.Stack()),
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)

				response := models.BaseResponse{
					Success:   false,
					Timestamp: time.Now().UTC(),
					Message:   "Internal server error",
					Error: &models.APIError{
						Code:    models.ErrInternalError,
						Message: "An unexpected error occurred",
					},
				}

				json.NewEncoder(w).Encode(response)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
