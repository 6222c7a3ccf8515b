package middleware

import "net/http"

// BodyLimit caps the size of request bodies. Handlers decoding an oversized
// body get an error from Read and reject the request as bad input.
func BodyLimit(next http.Handler, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}
