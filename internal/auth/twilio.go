package auth

import (
	"log"
	"net/http"

	"github.com/twilio/twilio-go/client"
)

// TwilioSignatureMiddleware drops webhook calls whose X-Twilio-Signature does
// not match. baseURL is the public scheme and host Twilio was configured with.
func TwilioSignatureMiddleware(authToken, baseURL string) func(http.Handler) http.Handler {
	validator := client.NewRequestValidator(authToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form", http.StatusBadRequest)
				return
			}

			params := make(map[string]string, len(r.PostForm))
			for key, values := range r.PostForm {
				if len(values) > 0 {
					params[key] = values[0]
				}
			}

			url := baseURL + r.URL.RequestURI()
			if !validator.Validate(url, params, r.Header.Get("X-Twilio-Signature")) {
				log.Printf("Rejected webhook with bad signature for %s", url)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
