package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

type ApiMock struct {
	mu             sync.Mutex
	server         *httptest.Server
	responses      map[string]any
	responseStatus map[string]int
	formsReceived  map[string][]url.Values
	headers        map[string][]http.Header
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		responses:      map[string]any{},
		responseStatus: map[string]int{},
		formsReceived:  map[string][]url.Values{},
		headers:        map[string][]http.Header{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				key := r.Method + r.URL.Path
				_ = r.ParseForm()

				a.mu.Lock()
				a.formsReceived[key] = append(a.formsReceived[key], r.Form)
				a.headers[key] = append(a.headers[key], r.Header.Clone())
				response, ok := a.responses[key]
				status := a.responseStatus[key]
				a.mu.Unlock()

				if !ok {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if status == 0 {
					status = http.StatusOK
				}

				body, _ := json.Marshal(response)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write(body)
			},
		),
	)
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) SetResponse(method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[method+path] = response
	a.responseStatus[method+path] = status
}

// GetRequestForm returns the form values of the index-th request received on method and path.
func (a *ApiMock) GetRequestForm(method, path string, index int) url.Values {
	a.mu.Lock()
	defer a.mu.Unlock()
	forms := a.formsReceived[method+path]
	if index < 0 || index >= len(forms) {
		return nil
	}
	return forms[index]
}

// GetRequestHeaders returns the headers of the index-th request received on method and path.
func (a *ApiMock) GetRequestHeaders(method, path string, index int) http.Header {
	a.mu.Lock()
	defer a.mu.Unlock()
	headers := a.headers[method+path]
	if index < 0 || index >= len(headers) {
		return nil
	}
	return headers[index]
}

// Reset drops configured responses and recorded requests.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = map[string]any{}
	a.responseStatus = map[string]int{}
	a.formsReceived = map[string][]url.Values{}
	a.headers = map[string][]http.Header{}
}
