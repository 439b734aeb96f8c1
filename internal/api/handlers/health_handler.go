package handlers

import "net/http"

// Test is the liveness route.
func Test(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "API is working correctly!")
}
