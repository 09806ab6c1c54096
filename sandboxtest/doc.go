// Package sandboxtest runs an in-process fake of the Sandbox API for tests
// and examples.
//
// The server answers GET / and GET /health like the real backend, returns
// FastAPI-style {"detail": ...} bodies for unknown routes, and records every
// request it receives:
//
//	srv := sandboxtest.NewServer()
//	defer srv.Close()
//	srv.Handle(http.MethodGet, "/items/:id", func(c *gin.Context) {
//	    sandboxtest.Detail(c, http.StatusNotFound, "not found")
//	})
//	client, _ := sandbox.New(sandbox.ClientConfig{BaseURL: srv.URL})
package sandboxtest
